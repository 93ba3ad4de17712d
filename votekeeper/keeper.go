package votekeeper

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/clearmatics/tendercore/types"
)

// perRound is the per-round tally of spec.md §4.2: weight-per-value for
// each vote kind, plus the distinct-voter bookkeeping needed to avoid
// double-counting an equivocator's weight in the aggregate thresholds.
type perRound struct {
	// prevoteWeight/precommitWeight sum a validator's weight into every
	// distinct value it has voted for in this round, including repeats
	// under equivocation (spec.md §4.2 "Equivocation handling": both
	// values receive the weight).
	prevoteWeight   map[types.ValueID]uint64
	precommitWeight map[types.ValueID]uint64

	// Per (kind, voter) weight, recorded once each, so the *Any aggregates
	// count a voter's weight only once even if it equivocates.
	prevoteVoters   map[types.Address]uint64
	precommitVoters map[types.Address]uint64
	prevoteAny      uint64
	precommitAny    uint64

	// Distinct voters across both kinds, for SkipRound accounting (spec.md
	// §4.2: "distinct-voter weight", "tracks distinct voters (not votes) to
	// avoid double-counting a voter contributing both a prevote and
	// precommit").
	eitherKindVoters map[types.Address]uint64
	eitherKindWeight uint64

	// recorded guards exact-duplicate votes (same voter, same kind, same
	// value) so re-applying a vote is a no-op (spec.md §8 idempotence law).
	recorded map[voteKey]bool
}

type voteKey struct {
	kind  types.VoteType
	voter types.Address
	value types.ValueID
}

func newPerRound() *perRound {
	return &perRound{
		prevoteWeight:    make(map[types.ValueID]uint64),
		precommitWeight:  make(map[types.ValueID]uint64),
		prevoteVoters:    make(map[types.Address]uint64),
		precommitVoters:  make(map[types.Address]uint64),
		eitherKindVoters: make(map[types.Address]uint64),
		recorded:         make(map[voteKey]bool),
	}
}

// Keeper is the vote keeper (VK) of spec.md §4.2: one instance per height,
// preserved across rounds within that height (spec.md §4.3 "Round
// transition": "The VK is preserved across rounds within a height").
type Keeper struct {
	totalPower uint64
	params     types.ThresholdParams

	rounds  map[types.Round]*perRound
	emitted map[ThresholdEvent]bool
}

// New creates an empty Keeper for a validator set with the given total
// voting power and threshold parametrization.
func New(totalPower uint64, params types.ThresholdParams) *Keeper {
	return &Keeper{
		totalPower: totalPower,
		params:     params,
		rounds:     make(map[types.Round]*perRound),
		emitted:    make(map[ThresholdEvent]bool),
	}
}

// Quorum is the strict-supermajority weight threshold for this keeper's
// validator set.
func (k *Keeper) Quorum() uint64 { return k.params.Quorum(k.totalPower) }

// Honest is the minimum weight that guarantees at least one honest
// validator under this keeper's validator set.
func (k *Keeper) Honest() uint64 { return k.params.Honest(k.totalPower) }

func (k *Keeper) roundFor(r types.Round) *perRound {
	pr, ok := k.rounds[r]
	if !ok {
		pr = newPerRound()
		k.rounds[r] = pr
	}
	return pr
}

// Apply tallies vote with the given validator weight and returns every
// threshold event newly crossed by it (spec.md §4.2's
// apply(vote, weight, current_round) -> Option<ThresholdEvent>, generalized
// to a slice: a single vote can cross more than one threshold atomically,
// see SPEC_FULL.md §6). currentRound is the driver's current round, needed to
// evaluate SkipRound ("r' > current round").
func (k *Keeper) Apply(vote types.Vote, weight uint64, currentRound types.Round) []ThresholdEvent {
	pr := k.roundFor(vote.Round)
	key := voteKey{kind: vote.Type, voter: vote.Validator, value: vote.ValueID}

	var events []ThresholdEvent

	if !pr.recorded[key] {
		pr.recorded[key] = true

		switch vote.Type {
		case types.Prevote:
			pr.prevoteWeight[vote.ValueID] += weight
			if _, seen := pr.prevoteVoters[vote.Validator]; !seen {
				pr.prevoteVoters[vote.Validator] = weight
				pr.prevoteAny += weight
			}
		case types.Precommit:
			pr.precommitWeight[vote.ValueID] += weight
			if _, seen := pr.precommitVoters[vote.Validator]; !seen {
				pr.precommitVoters[vote.Validator] = weight
				pr.precommitAny += weight
			}
		}

		if _, seen := pr.eitherKindVoters[vote.Validator]; !seen {
			pr.eitherKindVoters[vote.Validator] = weight
			pr.eitherKindWeight += weight
		}
	}

	quorum := k.Quorum()

	switch vote.Type {
	case types.Prevote:
		if vote.ValueID.IsNil() {
			events = k.tryEmit(events, ThresholdEvent{Kind: PolkaNil, Round: vote.Round}, pr.prevoteWeight[vote.ValueID], quorum)
		} else {
			events = k.tryEmit(events, ThresholdEvent{Kind: PolkaValue, Round: vote.Round, Value: vote.ValueID}, pr.prevoteWeight[vote.ValueID], quorum)
		}
		events = k.tryEmit(events, ThresholdEvent{Kind: PolkaAny, Round: vote.Round}, pr.prevoteAny, quorum)
	case types.Precommit:
		if !vote.ValueID.IsNil() {
			events = k.tryEmit(events, ThresholdEvent{Kind: PrecommitValue, Round: vote.Round, Value: vote.ValueID}, pr.precommitWeight[vote.ValueID], quorum)
		}
		events = k.tryEmit(events, ThresholdEvent{Kind: PrecommitAny, Round: vote.Round}, pr.precommitAny, quorum)
	}

	if vote.Round.Compare(currentRound) > 0 {
		events = k.tryEmit(events, ThresholdEvent{Kind: SkipRound, Round: vote.Round}, pr.eitherKindWeight, k.Honest())
	}

	return events
}

func (k *Keeper) tryEmit(events []ThresholdEvent, ev ThresholdEvent, weight, threshold uint64) []ThresholdEvent {
	if weight < threshold {
		return events
	}
	if k.emitted[ev] {
		return events
	}
	k.emitted[ev] = true
	return append(events, ev)
}

// HasPolkaValue reports whether round has a prevote quorum for value.
func (k *Keeper) HasPolkaValue(round types.Round, value types.ValueID) bool {
	pr, ok := k.rounds[round]
	if !ok {
		return false
	}
	return pr.prevoteWeight[value] >= k.Quorum()
}

// HasPolkaNil reports whether round has a prevote quorum for Nil.
func (k *Keeper) HasPolkaNil(round types.Round) bool {
	return k.HasPolkaValue(round, types.NilValueID)
}

// HasPolkaAny reports whether round has a prevote quorum across all values.
func (k *Keeper) HasPolkaAny(round types.Round) bool {
	pr, ok := k.rounds[round]
	if !ok {
		return false
	}
	return pr.prevoteAny >= k.Quorum()
}

// HasPrecommitValue reports whether round has a precommit quorum for value.
func (k *Keeper) HasPrecommitValue(round types.Round, value types.ValueID) bool {
	pr, ok := k.rounds[round]
	if !ok {
		return false
	}
	return pr.precommitWeight[value] >= k.Quorum()
}

// HasPrecommitAny reports whether round has a precommit quorum across all
// values.
func (k *Keeper) HasPrecommitAny(round types.Round) bool {
	pr, ok := k.rounds[round]
	if !ok {
		return false
	}
	return pr.precommitAny >= k.Quorum()
}

// PrecommitQuorumRounds returns, in ascending order, every round for which
// a precommit quorum for value has been observed. Exposed for
// diagnostics/tests; the driver checks a late proposal against an older
// round's precommit quorum with HasPrecommitValue instead.
func (k *Keeper) PrecommitQuorumRounds(value types.ValueID) []types.Round {
	var rounds []types.Round
	for r, pr := range k.rounds {
		if pr.precommitWeight[value] >= k.Quorum() {
			rounds = append(rounds, r)
		}
	}
	slices.SortFunc(rounds, func(a, b types.Round) bool { return a.Compare(b) < 0 })
	return rounds
}

// DistinctPrevoteVoters returns, sorted, the addresses that have cast a
// prevote in round. Exposed for diagnostics/tests; the driver itself only
// needs the aggregate weight.
func (k *Keeper) DistinctPrevoteVoters(round types.Round) []types.Address {
	pr, ok := k.rounds[round]
	if !ok {
		return nil
	}
	addrs := maps.Keys(pr.prevoteVoters)
	slices.SortFunc(addrs, func(a, b types.Address) bool { return a.Compare(b) < 0 })
	return addrs
}

package driver

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/clearmatics/tendercore/internal/assert"
	"github.com/clearmatics/tendercore/round"
	"github.com/clearmatics/tendercore/types"
	"github.com/clearmatics/tendercore/votekeeper"
)

// proposalKey is (round, value_id); spec.md §4.3 "Proposal admission rules"
// stores proposals by this key so a Byzantine proposer's distinct
// re-proposals within one round are all retained, with the RSM seeing only
// the one currently relevant via multiplexing.
type proposalKey struct {
	round types.Round
	value types.ValueID
}

type proposalEntry struct {
	proposal types.Proposal
	validity types.Validity
}

// Driver is the DR of spec.md §4.3: one instance per height, owning the
// vote keeper and the current round's RSM state exclusively. It is a
// passive state object; Process is the only entry point and fully drains
// every induced output before returning (spec.md §5).
type Driver struct {
	height           types.Height
	address          types.Address
	validators       types.ValidatorSet
	proposerSelector types.ProposerSelector

	round types.Round
	rsm   *round.State
	vk    *votekeeper.Keeper

	locked *round.LockedValue
	valid  *round.ValidValue

	proposals map[proposalKey]proposalEntry
	decided   bool

	log *logrus.Entry
}

// New creates a Driver in (height, round=0) with an empty vote keeper, per
// spec.md §4.3. logger may be nil, in which case a disabled logger is used.
func New(height types.Height, validators types.ValidatorSet, proposerSelector types.ProposerSelector, address types.Address, params types.ThresholdParams, logger *logrus.Entry) *Driver {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	d := &Driver{
		height:           height,
		address:          address,
		validators:       validators,
		proposerSelector: proposerSelector,
		round:            0,
		vk:               votekeeper.New(validators.TotalVotingPower(), params),
		proposals:        make(map[proposalKey]proposalEntry),
		log:              logger.WithFields(logrus.Fields{"height": height, "address": address}),
	}
	d.rsm = round.New(height, 0, address, nil, nil)
	return d
}

// Height is this Driver's instance height.
func (d *Driver) Height() types.Height { return d.height }

// Round is the Driver's current round.
func (d *Driver) Round() types.Round { return d.round }

// Step is the current round's step.
func (d *Driver) Step() round.Step { return d.rsm.Step }

// Decided reports whether this height has reached a decision.
func (d *Driver) Decided() bool { return d.decided }

// Locked is the carried locked value, if any.
func (d *Driver) Locked() *round.LockedValue { return d.locked }

// Valid is the carried valid value, if any.
func (d *Driver) Valid() *round.ValidValue { return d.valid }

// Process drives the core one external step, returning every output
// emitted transitively until quiescence (spec.md §4.3).
func (d *Driver) Process(in Input) []Output {
	if d.decided {
		return nil
	}

	switch e := in.(type) {
	case InputNewRound:
		if e.Round != d.round {
			d.log.WithField("round", e.Round).Debug("dropping NewRound for non-current round")
			return nil
		}
		return d.enterRound()

	case InputProposeValue:
		if e.Round != d.round {
			d.log.WithField("round", e.Round).Debug("dropping ProposeValue for non-current round")
			return nil
		}
		return d.feedRSM(round.InputProposeValue{Value: e.Value})

	case InputProposal:
		return d.handleProposal(e.Proposal, e.Validity)

	case InputVote:
		return d.applyVote(e.Vote)

	case InputTimeoutElapsed:
		return d.handleTimeout(e)

	default:
		return nil
	}
}

// enterRound runs the "step=NewRound entry" row of the multiplexer table
// for the Driver's current round: self-propose the carried valid value,
// ask the embedder for one, or wait out TimeoutPropose.
func (d *Driver) enterRound() []Output {
	proposer := d.proposerSelector.GetProposer(d.height, d.round)
	if proposer != d.address {
		return d.feedRSM(round.InputNewRound{})
	}
	if d.valid != nil {
		return d.feedRSM(round.InputProposeValue{Value: d.valid.Value})
	}
	return []Output{OutputGetValueAndScheduleTimeout{Round: d.round}}
}

func (d *Driver) handleProposal(p types.Proposal, validity types.Validity) []Output {
	if p.Height != d.height {
		return nil
	}
	if d.proposerSelector.GetProposer(d.height, p.Round) != p.Proposer {
		return nil
	}
	key := proposalKey{round: p.Round, value: p.Value.ID()}
	if _, exists := d.proposals[key]; exists {
		return nil
	}
	d.proposals[key] = proposalEntry{proposal: p, validity: validity}
	return d.recheckProposal(p, validity)
}

// recheckProposal evaluates every multiplexer row a newly-accepted proposal
// can satisfy against the Driver's current VK tally.
func (d *Driver) recheckProposal(p types.Proposal, validity types.Validity) []Output {
	var out []Output

	if validity == types.Valid && d.vk.HasPrecommitValue(p.Round, p.Value.ID()) {
		out = append(out, d.feedRSM(round.InputProposalAndPrecommitValue{Proposal: p, DecisionRound: p.Round})...)
		if d.decided {
			return out
		}
	}

	if p.Round != d.round {
		return out
	}

	switch {
	case d.rsm.Step == round.Propose && p.PolRound.IsNil():
		if validity == types.Valid {
			out = append(out, d.feedRSM(round.InputProposal{Proposal: p})...)
		} else {
			out = append(out, d.feedRSM(round.InputInvalidProposal{Proposal: p})...)
		}

	case d.rsm.Step == round.Propose && !p.PolRound.IsNil():
		if d.vk.HasPolkaValue(p.PolRound, p.Value.ID()) {
			if validity == types.Valid {
				out = append(out, d.feedRSM(round.InputProposalAndPolkaPrevious{Proposal: p})...)
			} else {
				out = append(out, d.feedRSM(round.InputInvalidProposalAndPolkaPrevious{Proposal: p})...)
			}
		}

	case d.rsm.Step >= round.Prevote && validity == types.Valid:
		if d.vk.HasPolkaValue(p.Round, p.Value.ID()) {
			out = append(out, d.feedRSM(round.InputProposalAndPolkaCurrent{Proposal: p})...)
		}
	}
	return out
}

func (d *Driver) applyVote(vote types.Vote) []Output {
	if vote.Height != d.height {
		return nil
	}
	validator, ok := d.validators.Get(vote.Validator)
	if !ok {
		d.log.WithField("validator", vote.Validator).Debug("dropping vote from non-member")
		return nil
	}

	events := d.vk.Apply(vote, validator.VotingPower, d.round)
	var out []Output
	for _, ev := range events {
		out = append(out, d.handleThresholdEvent(ev)...)
		if d.decided {
			return out
		}
	}
	return out
}

// handleThresholdEvent evaluates the multiplexer rows driven by a newly
// first-seen VK threshold event.
func (d *Driver) handleThresholdEvent(ev votekeeper.ThresholdEvent) []Output {
	switch ev.Kind {
	case votekeeper.PolkaValue:
		return d.handlePolkaValue(ev)

	case votekeeper.PolkaNil:
		if ev.Round == d.round && d.rsm.Step == round.Prevote {
			return d.feedRSM(round.InputPolkaNil{})
		}

	case votekeeper.PolkaAny:
		if ev.Round == d.round && d.rsm.Step == round.Prevote {
			return d.feedRSM(round.InputPolkaAny{})
		}

	case votekeeper.PrecommitValue:
		if entry, ok := d.proposals[proposalKey{round: ev.Round, value: ev.Value}]; ok && entry.validity == types.Valid {
			return d.feedRSM(round.InputProposalAndPrecommitValue{Proposal: entry.proposal, DecisionRound: ev.Round})
		}

	case votekeeper.PrecommitAny:
		if ev.Round == d.round && d.rsm.Step >= round.Prevote {
			return d.feedRSM(round.InputPrecommitAny{})
		}

	case votekeeper.SkipRound:
		if ev.Round.Compare(d.round) > 0 {
			return d.feedRSM(round.InputSkipRound{Round: ev.Round})
		}
	}
	return nil
}

// handlePolkaValue covers both rows a PolkaValue event can satisfy: a
// pending current-round proposal whose pol_round is the round that just
// polka'd (ProposalAndPolkaPrevious), and a pending proposal for the
// current round matching a polka in the current round
// (ProposalAndPolkaCurrent).
func (d *Driver) handlePolkaValue(ev votekeeper.ThresholdEvent) []Output {
	if d.rsm.Step == round.Propose {
		if entry, ok := d.proposals[proposalKey{round: d.round, value: ev.Value}]; ok && entry.proposal.PolRound == ev.Round {
			if entry.validity == types.Valid {
				return d.feedRSM(round.InputProposalAndPolkaPrevious{Proposal: entry.proposal})
			}
			return d.feedRSM(round.InputInvalidProposalAndPolkaPrevious{Proposal: entry.proposal})
		}
	}
	if ev.Round == d.round && d.rsm.Step >= round.Prevote {
		if entry, ok := d.proposals[proposalKey{round: d.round, value: ev.Value}]; ok && entry.validity == types.Valid {
			return d.feedRSM(round.InputProposalAndPolkaCurrent{Proposal: entry.proposal})
		}
	}
	return nil
}

func (d *Driver) handleTimeout(e InputTimeoutElapsed) []Output {
	if e.Round != d.round {
		d.log.WithField("round", e.Round).Debug("dropping timeout for a round already left")
		return nil
	}
	switch e.Kind {
	case round.TimeoutPropose:
		return d.feedRSM(round.InputTimeoutPropose{})
	case round.TimeoutPrevote:
		return d.feedRSM(round.InputTimeoutPrevote{})
	case round.TimeoutPrecommit:
		return d.feedRSM(round.InputTimeoutPrecommit{})
	default:
		return nil
	}
}

// feedRSM delivers in to the round state machine, copies the RSM's
// locked/valid values into the Driver's carried fields, and drains the
// resulting output(s) through handleRoundOutput, which may itself feed further RSM
// inputs (a self-cast vote re-entering the VK, a round transition entering
// the next round). This is the "re-evaluated after every RSM output"
// drain loop of spec.md §4.3.
func (d *Driver) feedRSM(in round.Input) []Output {
	newState, out := round.Apply(d.rsm, in)
	d.rsm = newState
	d.locked = newState.Locked
	d.valid = newState.Valid
	if out == nil {
		return nil
	}
	return d.handleRoundOutput(out)
}

func (d *Driver) handleRoundOutput(out round.Output) []Output {
	switch o := out.(type) {
	case round.OutputBatch:
		var outs []Output
		for _, sub := range o {
			outs = append(outs, d.handleRoundOutput(sub)...)
		}
		return outs

	case round.OutputProposal:
		key := proposalKey{round: o.Proposal.Round, value: o.Proposal.Value.ID()}
		if _, exists := d.proposals[key]; !exists {
			d.proposals[key] = proposalEntry{proposal: o.Proposal, validity: types.Valid}
		}
		d.log.WithField("round", o.Proposal.Round).Debug("broadcasting proposal")
		return []Output{OutputPropose{Proposal: o.Proposal}}

	case round.OutputVote:
		d.log.WithFields(logrus.Fields{"type": o.Vote.Type, "round": o.Vote.Round}).Debug("casting vote")
		outs := []Output{OutputVote{Vote: o.Vote}}
		outs = append(outs, d.applyVote(o.Vote)...)
		return outs

	case round.OutputScheduleTimeout:
		return []Output{OutputScheduleTimeout{Kind: o.Kind, Round: d.round}}

	case round.OutputDecision:
		assert.That(!d.decided, "at most one decision per height")
		d.decided = true
		d.log.WithFields(logrus.Fields{"round": o.Round, "value": o.Value.ID()}).Info("decided")
		return []Output{OutputDecide{Round: o.Round, Value: o.Value}}

	case round.OutputNewRound:
		return d.advanceRound(o.Round)

	default:
		return nil
	}
}

// advanceRound carries locked/valid from the left round's RSM state into
// the Driver, rebuilds a fresh RSM for newRound, and immediately runs the
// entry procedure for it (spec.md §4.3 "Round transition"). The vote
// keeper is untouched: it is preserved across rounds within a height.
func (d *Driver) advanceRound(newRound types.Round) []Output {
	assert.That(newRound.Compare(d.round) > 0, "round transitions must strictly increase the round")
	d.locked = d.rsm.Locked
	d.valid = d.rsm.Valid
	d.round = newRound
	d.rsm = round.New(d.height, newRound, d.address, d.locked, d.valid)
	d.log.WithField("round", newRound).Debug("entering round")

	out := []Output{OutputNewRound{Height: d.height, Round: newRound}}
	return append(out, d.enterRound()...)
}

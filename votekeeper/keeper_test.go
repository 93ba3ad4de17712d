package votekeeper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearmatics/tendercore/types"
)

// Four validators, each weight 1: total=4, quorum=3, honest=2 -- the fixture
// used throughout spec.md §8's literal scenarios.
var (
	vA = types.BytesToAddress([]byte{0xA})
	vB = types.BytesToAddress([]byte{0xB})
	vC = types.BytesToAddress([]byte{0xC})
	vD = types.BytesToAddress([]byte{0xD})
)

func fourValFourTotal() *Keeper {
	return New(4, types.DefaultThresholdParams())
}

var valueV = types.ValueID{1}

func TestQuorumAndHonestBoundaries(t *testing.T) {
	k := fourValFourTotal()
	require.Equal(t, uint64(3), k.Quorum())
	require.Equal(t, uint64(2), k.Honest())
}

func TestPolkaValueEmittedExactlyAtQuorum(t *testing.T) {
	k := fourValFourTotal()

	evs := k.Apply(types.NewPrevote(1, 0, valueV, vA), 1, 0)
	require.Empty(t, evs)
	evs = k.Apply(types.NewPrevote(1, 0, valueV, vB), 1, 0)
	require.Empty(t, evs, "2/4 is one short of quorum")
	evs = k.Apply(types.NewPrevote(1, 0, valueV, vC), 1, 0)
	require.Len(t, evs, 2, "3/4 crosses both PolkaValue and PolkaAny")
	require.Contains(t, evs, ThresholdEvent{Kind: PolkaValue, Round: 0, Value: valueV})
	require.Contains(t, evs, ThresholdEvent{Kind: PolkaAny, Round: 0})
}

func TestEventsEmittedOnlyOnce(t *testing.T) {
	k := fourValFourTotal()
	k.Apply(types.NewPrevote(1, 0, valueV, vA), 1, 0)
	k.Apply(types.NewPrevote(1, 0, valueV, vB), 1, 0)
	k.Apply(types.NewPrevote(1, 0, valueV, vC), 1, 0)

	evs := k.Apply(types.NewPrevote(1, 0, valueV, vD), 1, 0)
	require.Empty(t, evs, "threshold already crossed, no repeat emission")
}

func TestDuplicateVoteIsIdempotent(t *testing.T) {
	k := fourValFourTotal()
	vote := types.NewPrevote(1, 0, valueV, vA)
	k.Apply(vote, 1, 0)
	k.Apply(vote, 1, 0)
	require.False(t, k.HasPolkaValue(0, valueV))
	require.Equal(t, uint64(1), k.rounds[0].prevoteWeight[valueV])
}

func TestApplyOrderDoesNotChangeEmittedEventSet(t *testing.T) {
	k1 := fourValFourTotal()
	var got1 []ThresholdEvent
	got1 = append(got1, k1.Apply(types.NewPrevote(1, 0, valueV, vA), 1, 0)...)
	got1 = append(got1, k1.Apply(types.NewPrevote(1, 0, valueV, vB), 1, 0)...)
	got1 = append(got1, k1.Apply(types.NewPrevote(1, 0, valueV, vC), 1, 0)...)

	k2 := fourValFourTotal()
	var got2 []ThresholdEvent
	got2 = append(got2, k2.Apply(types.NewPrevote(1, 0, valueV, vC), 1, 0)...)
	got2 = append(got2, k2.Apply(types.NewPrevote(1, 0, valueV, vA), 1, 0)...)
	got2 = append(got2, k2.Apply(types.NewPrevote(1, 0, valueV, vB), 1, 0)...)

	require.ElementsMatch(t, got1, got2)
}

func TestEquivocationCountsValuesButNotAggregateTwice(t *testing.T) {
	k := fourValFourTotal()
	otherValue := types.ValueID{2}

	k.Apply(types.NewPrevote(1, 0, valueV, vA), 1, 0)
	// vA equivocates: also prevotes otherValue in the same round. Its
	// weight lands in both value buckets but must count only once toward
	// the aggregate.
	k.Apply(types.NewPrevote(1, 0, otherValue, vA), 1, 0)
	evs := k.Apply(types.NewPrevote(1, 0, valueV, vB), 1, 0)
	require.Empty(t, evs, "valueV at weight 2, aggregate at 2 (A once + B): below quorum 3")

	// Third distinct voter (C) pushes the distinct-voter aggregate to 3
	// (quorum) while each individual value bucket stays at weight 2.
	evs = k.Apply(types.NewPrevote(1, 0, otherValue, vC), 1, 0)
	require.Equal(t, []ThresholdEvent{{Kind: PolkaAny, Round: 0}}, evs)
}

func TestSkipRoundOnDistinctVotersAcrossKinds(t *testing.T) {
	k := fourValFourTotal()
	// B prevotes round 3, C precommits round 3: distinct voters, combined
	// weight 2 = honest.
	evs := k.Apply(types.NewPrevote(1, 3, valueV, vB), 1, 0)
	require.Empty(t, evs)
	evs = k.Apply(types.NewPrecommit(1, 3, valueV, vC), 1, 0)
	require.Contains(t, evs, ThresholdEvent{Kind: SkipRound, Round: 3})
}

func TestSkipRoundDoesNotDoubleCountSameVoterAcrossKinds(t *testing.T) {
	k := fourValFourTotal()
	evs := k.Apply(types.NewPrevote(1, 3, valueV, vB), 1, 0)
	require.Empty(t, evs)
	evs = k.Apply(types.NewPrecommit(1, 3, valueV, vB), 1, 0)
	require.Empty(t, evs, "same voter contributing both kinds counts once")
}

func TestSkipRoundNotEmittedForCurrentOrLowerRound(t *testing.T) {
	k := fourValFourTotal()
	k.Apply(types.NewPrevote(1, 2, valueV, vB), 1, 2)
	evs := k.Apply(types.NewPrecommit(1, 2, valueV, vC), 1, 2)
	require.Empty(t, evs, "round 2 is not higher than current round 2")
}

func TestPrecommitQuorumRounds(t *testing.T) {
	k := fourValFourTotal()
	k.Apply(types.NewPrecommit(1, 0, valueV, vA), 1, 0)
	k.Apply(types.NewPrecommit(1, 0, valueV, vB), 1, 0)
	k.Apply(types.NewPrecommit(1, 0, valueV, vC), 1, 0)

	rounds := k.PrecommitQuorumRounds(valueV)
	require.Equal(t, []types.Round{0}, rounds)
}

package round

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearmatics/tendercore/types"
)

type testValue struct {
	id byte
}

func (v testValue) ID() types.ValueID {
	var id types.ValueID
	id[31] = v.id
	return id
}

var (
	addrA = types.BytesToAddress([]byte{0xA})
	addrB = types.BytesToAddress([]byte{0xB})
)

func TestProposeValueEmitsProposalAndPrevote(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	v := testValue{42}

	_, out := Apply(s, InputProposeValue{Value: v})

	batch, ok := out.(OutputBatch)
	require.True(t, ok)
	require.Len(t, batch, 2)

	prop := batch[0].(OutputProposal)
	require.Equal(t, v.ID(), prop.Proposal.Value.ID())
	require.Equal(t, types.NilRound, prop.Proposal.PolRound)

	vote := batch[1].(OutputVote)
	require.Equal(t, types.Prevote, vote.Vote.Type)
	require.Equal(t, v.ID(), vote.Vote.ValueID)
	require.Equal(t, Prevote, s.Step)
}

func TestProposeValueUsesValidRoundAsPolRound(t *testing.T) {
	v := testValue{7}
	s := New(1, 2, addrA, nil, &ValidValue{Value: v, Round: 0})

	_, out := Apply(s, InputProposeValue{Value: v})
	prop := out.(OutputBatch)[0].(OutputProposal)
	require.Equal(t, types.Round(0), prop.Proposal.PolRound)
}

func TestNewRoundNotProposerSchedulesProposeTimeout(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	_, out := Apply(s, InputNewRound{})
	require.Equal(t, OutputScheduleTimeout{Kind: TimeoutPropose}, out)
	require.Equal(t, Propose, s.Step)
}

func TestProposalNoLockPrevotesValue(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	v := testValue{1}
	p := types.Proposal{Height: 1, Round: 0, Value: v, PolRound: types.NilRound, Proposer: addrB}

	_, out := Apply(s, InputProposal{Proposal: p})
	vote := out.(OutputVote).Vote
	require.Equal(t, v.ID(), vote.ValueID)
	require.Equal(t, Prevote, s.Step)
}

func TestProposalLockedMismatchPrevotesNil(t *testing.T) {
	locked := &LockedValue{Value: testValue{9}, Round: 0}
	s := New(1, 1, addrA, locked, nil)
	p := types.Proposal{Height: 1, Round: 1, Value: testValue{8}, PolRound: types.NilRound, Proposer: addrB}

	_, out := Apply(s, InputProposal{Proposal: p})
	vote := out.(OutputVote).Vote
	require.True(t, vote.IsNil())
}

func TestProposalLockedMatchPrevotesValue(t *testing.T) {
	v := testValue{9}
	locked := &LockedValue{Value: v, Round: 0}
	s := New(1, 1, addrA, locked, nil)
	p := types.Proposal{Height: 1, Round: 1, Value: v, PolRound: types.NilRound, Proposer: addrB}

	_, out := Apply(s, InputProposal{Proposal: p})
	vote := out.(OutputVote).Vote
	require.Equal(t, v.ID(), vote.ValueID)
}

func TestInvalidProposalPrevotesNil(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	_, out := Apply(s, InputInvalidProposal{Proposal: types.Proposal{Height: 1, Round: 0, Value: testValue{3}, Proposer: addrB}})
	require.True(t, out.(OutputVote).Vote.IsNil())
}

func TestProposalAndPolkaPreviousUnlocksWhenRoundCoversLock(t *testing.T) {
	v := testValue{5}
	locked := &LockedValue{Value: testValue{1}, Round: 0}
	s := New(1, 2, addrA, locked, nil)
	p := types.Proposal{Height: 1, Round: 2, Value: v, PolRound: 1, Proposer: addrB}

	_, out := Apply(s, InputProposalAndPolkaPrevious{Proposal: p})
	vote := out.(OutputVote).Vote
	require.Equal(t, v.ID(), vote.ValueID)
}

func TestProposalAndPolkaPreviousKeepsLockWhenRoundPrecedesLock(t *testing.T) {
	v := testValue{5}
	locked := &LockedValue{Value: testValue{1}, Round: 3}
	s := New(1, 5, addrA, locked, nil)
	p := types.Proposal{Height: 1, Round: 5, Value: v, PolRound: 1, Proposer: addrB}

	_, out := Apply(s, InputProposalAndPolkaPrevious{Proposal: p})
	require.True(t, out.(OutputVote).Vote.IsNil())
}

func TestPolkaAnyFirstTimeSchedulesTimeoutOnce(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	s.Step = Prevote

	_, out := Apply(s, InputPolkaAny{})
	require.Equal(t, OutputScheduleTimeout{Kind: TimeoutPrevote}, out)

	_, out2 := Apply(s, InputPolkaAny{})
	require.Nil(t, out2)
}

func TestProposalAndPolkaCurrentLocksOnFirstCrossFromPrevote(t *testing.T) {
	v := testValue{11}
	s := New(1, 0, addrA, nil, nil)
	s.Step = Prevote
	p := types.Proposal{Height: 1, Round: 0, Value: v, Proposer: addrB}

	_, out := Apply(s, InputProposalAndPolkaCurrent{Proposal: p})
	vote := out.(OutputVote).Vote
	require.Equal(t, types.Precommit, vote.Type)
	require.Equal(t, v.ID(), vote.ValueID)
	require.Equal(t, Precommit, s.Step)
	require.Equal(t, v.ID(), s.Locked.Value.ID())
	require.Equal(t, v.ID(), s.Valid.Value.ID())
}

func TestProposalAndPolkaCurrentUpdatesValidOnlyWhenAlreadyPrecommit(t *testing.T) {
	v := testValue{12}
	s := New(1, 0, addrA, nil, nil)
	s.Step = Precommit
	p := types.Proposal{Height: 1, Round: 0, Value: v, Proposer: addrB}

	_, out := Apply(s, InputProposalAndPolkaCurrent{Proposal: p})
	require.Nil(t, out)
	require.Nil(t, s.Locked)
	require.Equal(t, v.ID(), s.Valid.Value.ID())
}

func TestPolkaNilPrecommitsNil(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	s.Step = Prevote
	_, out := Apply(s, InputPolkaNil{})
	require.True(t, out.(OutputVote).Vote.IsNil())
	require.Equal(t, Precommit, s.Step)
}

func TestPrecommitAnyFirstTimeSchedulesTimeoutOnce(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	s.Step = Precommit
	_, out := Apply(s, InputPrecommitAny{})
	require.Equal(t, OutputScheduleTimeout{Kind: TimeoutPrecommit}, out)

	_, out2 := Apply(s, InputPrecommitAny{})
	require.Nil(t, out2)
}

func TestProposalAndPrecommitValueDecides(t *testing.T) {
	v := testValue{21}
	s := New(1, 2, addrA, nil, nil)
	p := types.Proposal{Height: 1, Round: 0, Value: v, Proposer: addrB}

	_, out := Apply(s, InputProposalAndPrecommitValue{Proposal: p, DecisionRound: 0})
	d := out.(OutputDecision)
	require.Equal(t, types.Round(0), d.Round)
	require.Equal(t, v.ID(), d.Value.ID())
	require.Equal(t, Commit, s.Step)

	_, out2 := Apply(s, InputProposalAndPrecommitValue{Proposal: p, DecisionRound: 0})
	require.Nil(t, out2)
}

func TestSkipRoundOnlyForHigherRound(t *testing.T) {
	s := New(1, 2, addrA, nil, nil)

	_, out := Apply(s, InputSkipRound{Round: 1})
	require.Nil(t, out)

	_, out2 := Apply(s, InputSkipRound{Round: 5})
	require.Equal(t, OutputNewRound{Round: 5}, out2)
}

func TestTimeoutProposePrevotesNil(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	_, out := Apply(s, InputTimeoutPropose{})
	require.True(t, out.(OutputVote).Vote.IsNil())
	require.Equal(t, Prevote, s.Step)
}

func TestTimeoutPrevotePrecommitsNil(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	s.Step = Prevote
	_, out := Apply(s, InputTimeoutPrevote{})
	require.True(t, out.(OutputVote).Vote.IsNil())
	require.Equal(t, Precommit, s.Step)
}

func TestTimeoutPrecommitAdvancesRound(t *testing.T) {
	s := New(1, 3, addrA, nil, nil)
	_, out := Apply(s, InputTimeoutPrecommit{})
	require.Equal(t, OutputNewRound{Round: 4}, out)
}

func TestCommitIsTerminal(t *testing.T) {
	s := New(1, 0, addrA, nil, nil)
	s.Step = Commit
	_, out := Apply(s, InputPolkaAny{})
	require.Nil(t, out)
}

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestMockValidatorSetSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	mvs := NewMockValidatorSet(ctrl)

	addr := BytesToAddress([]byte{0x1})
	mvs.EXPECT().TotalVotingPower().Return(uint64(4))
	mvs.EXPECT().Get(addr).Return(Validator{Address: addr, VotingPower: 1}, true)
	mvs.EXPECT().Len().Return(1)
	mvs.EXPECT().ByIndex(0).Return(Validator{Address: addr, VotingPower: 1})

	var vs ValidatorSet = mvs
	require.Equal(t, uint64(4), vs.TotalVotingPower())
	v, ok := vs.Get(addr)
	require.True(t, ok)
	require.Equal(t, uint64(1), v.VotingPower)
	require.Equal(t, 1, vs.Len())
	require.Equal(t, addr, vs.ByIndex(0).Address)
}

func TestMockProposerSelectorSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	mps := NewMockProposerSelector(ctrl)

	addr := BytesToAddress([]byte{0x2})
	mps.EXPECT().GetProposer(Height(1), Round(0)).Return(addr)

	var ps ProposerSelector = mps
	require.Equal(t, addr, ps.GetProposer(1, 0))
}

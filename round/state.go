package round

import "github.com/clearmatics/tendercore/types"

// LockedValue is the value (and the round in which it was locked) that
// this process has precommitted and which restricts future prevotes until
// unlocked by a later polka (spec.md GLOSSARY "Locked value").
type LockedValue struct {
	Value types.Value
	Round types.Round
}

// ValidValue is the most recent value for which this process observed a
// polka, used for re-proposal (spec.md GLOSSARY "Valid value").
type ValidValue struct {
	Value types.Value
	Round types.Round
}

// State is the per-round bookkeeping of spec.md §3 "Round state": step,
// height, round, plus the carried locked/valid values copied in from the
// driver at round creation. Locked/Valid are mutated in place by the
// L36/L41 action of the `upon` clauses; the driver reads them back out
// after Apply to carry into the next round it builds.
type State struct {
	Height types.Height
	Round  types.Round
	Step   Step

	// Address is this process's own validator address, needed to build
	// the Proposal this process broadcasts when it is the proposer.
	Address types.Address

	Locked *LockedValue
	Valid  *ValidValue

	// Per-round "first-seen" bookkeeping, grounded on the teacher's
	// line34Executed/line47Executed fields in
	// consensus/tendermint/core/handler.go. Redundant with the vote
	// keeper's own first-seen emission policy (spec.md §4.2) but kept as
	// defense in depth against a driver re-delivering the same
	// multiplexed input.
	scheduledPrevoteTimeout   bool
	scheduledPrecommitTimeout bool
}

// New creates the round state for (height, round), entering step Propose
// immediately (spec.md §4.1: "Initial on entry to a round: NewRound, which
// immediately transitions to Propose"), carrying locked/valid from the
// previous round's driver-owned state (nil if none).
func New(height types.Height, round types.Round, address types.Address, locked *LockedValue, valid *ValidValue) *State {
	return &State{
		Height:  height,
		Round:   round,
		Step:    Propose,
		Address: address,
		Locked:  locked,
		Valid:   valid,
	}
}

func (s *State) lockedValueID() (types.ValueID, bool) {
	if s.Locked == nil {
		return types.NilValueID, false
	}
	return s.Locked.Value.ID(), true
}

// Package driver implements the Driver (DR): the external API for one
// height. It owns the vote keeper and the round state machine of the
// current round, multiplexes external inputs and VK threshold events into
// RSM inputs, carries locked/valid across round transitions, and drains
// every induced output to quiescence before returning (spec.md §4.3).
package driver

import (
	"github.com/clearmatics/tendercore/round"
	"github.com/clearmatics/tendercore/types"
)

// Input is the Driver's external input alphabet (spec.md §4.3).
type Input interface{ isInput() }

type (
	// InputNewRound kicks off the entry procedure for round. It is only
	// accepted when round equals the Driver's current round.
	InputNewRound struct{ Round types.Round }

	// InputProposeValue supplies the value this process, as proposer,
	// should propose for round.
	InputProposeValue struct {
		Round types.Round
		Value types.Value
	}

	// InputProposal delivers a received proposal together with the
	// embedder's validity verdict on it.
	InputProposal struct {
		Proposal types.Proposal
		Validity types.Validity
	}

	// InputVote delivers an already-authenticated vote.
	InputVote struct{ Vote types.Vote }

	// InputTimeoutElapsed delivers a fired timer. Round is the round it was
	// scheduled for; a timeout for a round already left is dropped.
	InputTimeoutElapsed struct {
		Kind  round.TimeoutKind
		Round types.Round
	}
)

func (InputNewRound) isInput()       {}
func (InputProposeValue) isInput()   {}
func (InputProposal) isInput()       {}
func (InputVote) isInput()           {}
func (InputTimeoutElapsed) isInput() {}

// Output is the Driver's external output alphabet (spec.md §4.3).
type Output interface{ isOutput() }

type (
	// OutputNewRound announces a round transition.
	OutputNewRound struct {
		Height types.Height
		Round  types.Round
	}

	// OutputPropose is a proposal this process should broadcast.
	OutputPropose struct{ Proposal types.Proposal }

	// OutputVote is a vote this process should cast.
	OutputVote struct{ Vote types.Vote }

	// OutputDecide is the terminal output for the height.
	OutputDecide struct {
		Round types.Round
		Value types.Value
	}

	// OutputScheduleTimeout asks the embedder to start a per-round timer.
	OutputScheduleTimeout struct {
		Kind  round.TimeoutKind
		Round types.Round
	}

	// OutputGetValueAndScheduleTimeout asks the embedder to obtain a value
	// to propose (this process is the proposer with no carried valid
	// value) and to schedule TimeoutPropose while waiting for it.
	OutputGetValueAndScheduleTimeout struct{ Round types.Round }
)

func (OutputNewRound) isOutput()                   {}
func (OutputPropose) isOutput()                    {}
func (OutputVote) isOutput()                       {}
func (OutputDecide) isOutput()                     {}
func (OutputScheduleTimeout) isOutput()            {}
func (OutputGetValueAndScheduleTimeout) isOutput() {}

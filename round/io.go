package round

import "github.com/clearmatics/tendercore/types"

// Input is the RSM input alphabet of spec.md §4.1. Every variant has
// already been disambiguated by the Driver: the RSM never has to decide
// whether a proposal is valid, whether a polka exists, or which round is
// current, it only executes the `upon` clause the variant names.
type Input interface{ isInput() }

type (
	// InputNewRound corresponds to L11: this process is not the proposer
	// for the round.
	InputNewRound struct{}

	// InputProposeValue corresponds to L11-19: this process is the
	// proposer and supplies the value to propose (either freshly built, or
	// its own carried valid value).
	InputProposeValue struct{ Value types.Value }

	// InputProposal corresponds to L22-27: a valid proposal for the
	// current round with pol_round = Nil.
	InputProposal struct{ Proposal types.Proposal }

	// InputInvalidProposal corresponds to L26: an invalid proposal with
	// pol_round = Nil, or a valid one that conflicts with a locked value.
	InputInvalidProposal struct{ Proposal types.Proposal }

	// InputProposalAndPolkaPrevious corresponds to L28-33: a valid
	// proposal with pol_round = vr, and a polka for that value in round vr.
	InputProposalAndPolkaPrevious struct{ Proposal types.Proposal }

	// InputInvalidProposalAndPolkaPrevious is the invalid/unacceptable
	// counterpart of InputProposalAndPolkaPrevious (L32).
	InputInvalidProposalAndPolkaPrevious struct{ Proposal types.Proposal }

	// InputProposalAndPolkaCurrent corresponds to L36-43: a valid proposal
	// for the current round, with a polka for its value in the current
	// round.
	InputProposalAndPolkaCurrent struct{ Proposal types.Proposal }

	// InputProposalAndPrecommitValue corresponds to L49-54: a proposal for
	// some round r*, together with a precommit quorum for its value in r*.
	InputProposalAndPrecommitValue struct {
		Proposal      types.Proposal
		DecisionRound types.Round
	}

	// InputPolkaAny corresponds to L34-35.
	InputPolkaAny struct{}

	// InputPolkaNil corresponds to L44-46.
	InputPolkaNil struct{}

	// InputPrecommitAny corresponds to L47-48.
	InputPrecommitAny struct{}

	// InputSkipRound corresponds to L55-56: f+1-weighted evidence of a
	// higher round.
	InputSkipRound struct{ Round types.Round }

	// InputTimeoutPropose corresponds to L57-60.
	InputTimeoutPropose struct{}

	// InputTimeoutPrevote corresponds to L61-64.
	InputTimeoutPrevote struct{}

	// InputTimeoutPrecommit corresponds to L65-67.
	InputTimeoutPrecommit struct{}
)

func (InputNewRound) isInput()                        {}
func (InputProposeValue) isInput()                    {}
func (InputProposal) isInput()                        {}
func (InputInvalidProposal) isInput()                 {}
func (InputProposalAndPolkaPrevious) isInput()         {}
func (InputInvalidProposalAndPolkaPrevious) isInput()  {}
func (InputProposalAndPolkaCurrent) isInput()          {}
func (InputProposalAndPrecommitValue) isInput()        {}
func (InputPolkaAny) isInput()                        {}
func (InputPolkaNil) isInput()                        {}
func (InputPrecommitAny) isInput()                     {}
func (InputSkipRound) isInput()                        {}
func (InputTimeoutPropose) isInput()                   {}
func (InputTimeoutPrevote) isInput()                   {}
func (InputTimeoutPrecommit) isInput()                 {}

// Output is the RSM output alphabet of spec.md §4.1.
type Output interface{ isOutput() }

type (
	// OutputNewRound requests the driver move to round R (L55/L65).
	OutputNewRound struct{ Round types.Round }

	// OutputProposal is a proposal this process should broadcast (L19).
	OutputProposal struct{ Proposal types.Proposal }

	// OutputVote is a vote this process should cast.
	OutputVote struct{ Vote types.Vote }

	// OutputScheduleTimeout asks the driver to schedule a timeout of the
	// given kind for the current round.
	OutputScheduleTimeout struct{ Kind TimeoutKind }

	// OutputDecision is the terminal output: this height has decided.
	OutputDecision struct {
		Round types.Round
		Value types.Value
	}
)

func (OutputNewRound) isOutput()        {}
func (OutputProposal) isOutput()        {}
func (OutputVote) isOutput()            {}
func (OutputScheduleTimeout) isOutput() {}
func (OutputDecision) isOutput()        {}

// TimeoutKind identifies which per-round timer an OutputScheduleTimeout /
// TimeoutElapsed input refers to.
type TimeoutKind uint8

const (
	TimeoutPropose TimeoutKind = iota
	TimeoutPrevote
	TimeoutPrecommit
)

func (k TimeoutKind) String() string {
	switch k {
	case TimeoutPropose:
		return "propose"
	case TimeoutPrevote:
		return "prevote"
	case TimeoutPrecommit:
		return "precommit"
	default:
		return "unknown"
	}
}

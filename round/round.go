package round

import "github.com/clearmatics/tendercore/types"

// Apply executes one `upon` clause against state for input, returning the
// (possibly mutated) state and at most one output. It is a pure function:
// no vote counting, no I/O, no blocking (spec.md §4.1, §5). A nil Output
// means the input did not match any applicable clause in the current step,
// which spec.md §4.1 explicitly allows: "The RSM never rejects inputs it
// cannot act on in its current step; it returns no output."
func Apply(s *State, input Input) (*State, Output) {
	if s.Step == Commit {
		// Terminal; spec.md §3 invariant 1 (at most one Decide per height).
		return s, nil
	}

	switch in := input.(type) {
	case InputNewRound:
		// L11-13: not the proposer, wait out the propose timeout.
		if s.Step == Propose {
			return s, OutputScheduleTimeout{Kind: TimeoutPropose}
		}
		return s, nil

	case InputProposeValue:
		// L11-19: this process is the proposer.
		if s.Step != Propose {
			return s, nil
		}
		polRound := types.NilRound
		if s.Valid != nil {
			polRound = s.Valid.Round
		}
		proposal := types.Proposal{
			Height:   s.Height,
			Round:    s.Round,
			Value:    in.Value,
			PolRound: polRound,
			Proposer: s.Address,
		}
		s.Step = Prevote
		return s, multiOutput(
			OutputProposal{Proposal: proposal},
			OutputVote{Vote: types.NewPrevote(s.Height, s.Round, in.Value.ID(), s.Address)},
		)

	case InputProposal:
		// L22-27, valid(v) branch.
		if s.Step != Propose {
			return s, nil
		}
		lockedID, locked := s.lockedValueID()
		voteID := types.NilValueID
		if !locked || lockedID == in.Proposal.Value.ID() {
			voteID = in.Proposal.Value.ID()
		}
		s.Step = Prevote
		return s, OutputVote{Vote: types.NewPrevote(s.Height, s.Round, voteID, s.Address)}

	case InputInvalidProposal:
		// L22-27, !valid(v) branch (and the implicit locked-mismatch case
		// of the valid branch, folded in by the driver or by InputProposal
		// above).
		if s.Step != Propose {
			return s, nil
		}
		s.Step = Prevote
		return s, OutputVote{Vote: types.NewPrevote(s.Height, s.Round, types.NilValueID, s.Address)}

	case InputProposalAndPolkaPrevious:
		// L28-33, valid(v) branch.
		if s.Step != Propose {
			return s, nil
		}
		lockedID, locked := s.lockedValueID()
		valueID := in.Proposal.Value.ID()
		voteID := types.NilValueID
		if !locked || (s.Locked.Round <= in.Proposal.PolRound) || lockedID == valueID {
			voteID = valueID
		}
		s.Step = Prevote
		return s, OutputVote{Vote: types.NewPrevote(s.Height, s.Round, voteID, s.Address)}

	case InputInvalidProposalAndPolkaPrevious:
		// L28-33, !valid(v) branch / locked mismatch.
		if s.Step != Propose {
			return s, nil
		}
		s.Step = Prevote
		return s, OutputVote{Vote: types.NewPrevote(s.Height, s.Round, types.NilValueID, s.Address)}

	case InputPolkaAny:
		// L34-35.
		if s.Step != Prevote || s.scheduledPrevoteTimeout {
			return s, nil
		}
		s.scheduledPrevoteTimeout = true
		return s, OutputScheduleTimeout{Kind: TimeoutPrevote}

	case InputProposalAndPolkaCurrent:
		// L36-43: fires at step>=prevote; the locking action only on the
		// very first time step=prevote, valid/validRound always updated.
		if !s.Step.atLeast(Prevote) {
			return s, nil
		}
		valueID := in.Proposal.Value.ID()
		var out Output
		if s.Step == Prevote {
			s.Locked = &LockedValue{Value: in.Proposal.Value, Round: s.Round}
			s.Step = Precommit
			out = OutputVote{Vote: types.NewPrecommit(s.Height, s.Round, valueID, s.Address)}
		}
		s.Valid = &ValidValue{Value: in.Proposal.Value, Round: s.Round}
		return s, out

	case InputPolkaNil:
		// L44-46.
		if s.Step != Prevote {
			return s, nil
		}
		s.Step = Precommit
		return s, OutputVote{Vote: types.NewPrecommit(s.Height, s.Round, types.NilValueID, s.Address)}

	case InputPrecommitAny:
		// L47-48.
		if !s.Step.atLeast(Prevote) || s.scheduledPrecommitTimeout {
			return s, nil
		}
		s.scheduledPrecommitTimeout = true
		return s, OutputScheduleTimeout{Kind: TimeoutPrecommit}

	case InputProposalAndPrecommitValue:
		// L49-54: decides regardless of current step or round.
		s.Step = Commit
		return s, OutputDecision{Round: in.DecisionRound, Value: in.Proposal.Value}

	case InputSkipRound:
		// L55-56.
		if in.Round.Compare(s.Round) <= 0 {
			return s, nil
		}
		return s, OutputNewRound{Round: in.Round}

	case InputTimeoutPropose:
		// L57-60.
		if s.Step != Propose {
			return s, nil
		}
		s.Step = Prevote
		return s, OutputVote{Vote: types.NewPrevote(s.Height, s.Round, types.NilValueID, s.Address)}

	case InputTimeoutPrevote:
		// L61-64.
		if s.Step != Prevote {
			return s, nil
		}
		s.Step = Precommit
		return s, OutputVote{Vote: types.NewPrecommit(s.Height, s.Round, types.NilValueID, s.Address)}

	case InputTimeoutPrecommit:
		// L65-67.
		return s, OutputNewRound{Round: s.Round + 1}

	default:
		return s, nil
	}
}

// multiOutput collects more than one output from a single upon clause
// (L19 emits both a proposal and a prevote) into a single Output value the
// driver can drain in causal order.
func multiOutput(outs ...Output) Output {
	return OutputBatch(outs)
}

// OutputBatch is an ordered group of outputs emitted by a single `upon`
// clause. The driver flattens it before returning outputs to the caller,
// preserving the causal order spec.md §5 requires (e.g. a proposal before
// the prevote it accompanies).
type OutputBatch []Output

func (OutputBatch) isOutput() {}

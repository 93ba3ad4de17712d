package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Validity is the caller's (embedder's) verdict on a proposed value. The
// core never computes it; it only routes on it (spec.md §4.3).
type Validity uint8

const (
	Invalid Validity = iota
	Valid
)

func (v Validity) String() string {
	if v == Valid {
		return "valid"
	}
	return "invalid"
}

// Proposal is the tuple (height, round, value, pol_round, proposer) of
// spec.md §3. PolRound is NilRound unless this proposal re-proposes a value
// that had a polka in an earlier round.
type Proposal struct {
	Height    Height
	Round     Round
	Value     Value
	PolRound  Round
	Proposer  Address
}

func (p Proposal) String() string {
	return fmt.Sprintf("proposal{height:%d round:%s value:%s pol_round:%s proposer:%s}",
		p.Height, p.Round, p.Value.ID(), p.PolRound, p.Proposer)
}

// NewProposal builds a structurally validated proposal. It is one of the
// two constructors in this package that can fail (with NewValidatorSet):
// spec.md §3 invariant 6
// requires pol_round < round, or Nil. The core itself never constructs
// proposals this way internally (it only receives them); this constructor
// exists for the embedder and for tests/harness code, hence the boundary
// error return rather than a panic (spec.md §7: validation is structural
// and is the caller's responsibility before handoff).
func NewProposal(height Height, round Round, value Value, polRound Round, proposer Address) (Proposal, error) {
	if !polRound.IsNil() && polRound >= round {
		return Proposal{}, errors.Errorf("invalid proposal: pol_round %s must be < round %s or nil", polRound, round)
	}
	return Proposal{
		Height:   height,
		Round:    round,
		Value:    value,
		PolRound: polRound,
		Proposer: proposer,
	}, nil
}

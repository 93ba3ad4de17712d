package types

import (
	"sort"

	"github.com/pkg/errors"
)

// Validator is (address, voting_power) per spec.md §3.
type Validator struct {
	Address     Address
	VotingPower uint64
}

// ValidatorSet is non-empty and exposes the lookups the core needs. The
// embedder supplies a concrete implementation; ValidatorSet below is the
// reference one, built the way the teacher's committee types are built
// (sorted slice + address index), enriched with the round-robin proposer
// selection convention shared across the pack's Tendermint-family repos.
type ValidatorSet interface {
	TotalVotingPower() uint64
	Get(addr Address) (Validator, bool)
	Len() int
	ByIndex(i int) Validator
}

// ProposerSelector is the single injection point spec.md §9 calls for:
// "a function value or interface with one method. No need for class
// hierarchies."
type ProposerSelector interface {
	GetProposer(height Height, round Round) Address
}

// ProposerSelectorFunc adapts a plain function to ProposerSelector.
type ProposerSelectorFunc func(Height, Round) Address

func (f ProposerSelectorFunc) GetProposer(height Height, round Round) Address {
	return f(height, round)
}

// validatorSet is the default ValidatorSet implementation: a sorted slice
// of validators plus an address index, matching the teacher's committee
// layout (deterministic ordering, O(1) address lookup).
type validatorSet struct {
	validators []Validator
	byAddress  map[Address]int
	total      uint64
}

// NewValidatorSet builds a ValidatorSet from a non-empty list of
// validators, sorted by address for determinism. A duplicate address is
// an error.
func NewValidatorSet(validators []Validator) (ValidatorSet, error) {
	if len(validators) == 0 {
		return nil, errors.New("validator set must be non-empty")
	}
	sorted := make([]Validator, len(validators))
	copy(sorted, validators)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Address.Compare(sorted[j].Address) < 0
	})

	vs := &validatorSet{
		byAddress: make(map[Address]int, len(sorted)),
	}
	for i, v := range sorted {
		if _, dup := vs.byAddress[v.Address]; dup {
			return nil, errors.Errorf("duplicate validator address %s", v.Address)
		}
		vs.byAddress[v.Address] = i
		vs.total += v.VotingPower
		vs.validators = append(vs.validators, v)
	}
	return vs, nil
}

func (vs *validatorSet) TotalVotingPower() uint64 { return vs.total }

func (vs *validatorSet) Get(addr Address) (Validator, bool) {
	i, ok := vs.byAddress[addr]
	if !ok {
		return Validator{}, false
	}
	return vs.validators[i], true
}

func (vs *validatorSet) Len() int { return len(vs.validators) }

func (vs *validatorSet) ByIndex(i int) Validator { return vs.validators[i] }

// RoundRobinProposer is a deterministic weighted-agnostic round-robin
// selector: proposer(height, round) cycles through the sorted validator
// list offset by height and round. It is provided as a convenient default;
// embedders needing weighted (proposer-priority) selection supply their
// own ProposerSelector, per spec.md §9.
func RoundRobinProposer(vs ValidatorSet) ProposerSelector {
	return ProposerSelectorFunc(func(height Height, round Round) Address {
		n := vs.Len()
		if n == 0 {
			return NilAddress
		}
		r := int64(round)
		if round.IsNil() {
			r = 0
		}
		idx := (int64(height) + r) % int64(n)
		if idx < 0 {
			idx += int64(n)
		}
		return vs.ByIndex(int(idx)).Address
	})
}

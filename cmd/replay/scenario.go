package main

import (
	"os"
	"sort"
	"strconv"

	"github.com/naoina/toml"
	"github.com/pkg/errors"

	"github.com/clearmatics/tendercore/round"
	"github.com/clearmatics/tendercore/types"
)

// scenarioValue is the harness's stand-in for types.Value: an arbitrary
// proposed value is identified by a single byte for readability in the
// toml fixtures (spec.md §8's scenarios only ever name values "5", "9",
// "11", "42" etc).
type scenarioValue struct{ n byte }

func (v scenarioValue) ID() types.ValueID {
	var id types.ValueID
	id[31] = v.n
	return id
}

// scenarioFile is the toml shape of a cmd/replay/scenarios/*.toml fixture.
type scenarioFile struct {
	Name       string
	Height     uint64
	Self       string
	Validators map[string]uint64
	Proposers  map[string]string
	Steps      []scenarioStep
}

type scenarioStep struct {
	Kind        string
	Round       int64
	Value       *byte
	VoteType    string
	From        string
	PolRound    *int64
	Proposer    string
	Validity    string
	TimeoutKind string
}

func loadScenario(path string) (*scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario file %s", path)
	}
	var sf scenarioFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrapf(err, "parsing scenario file %s", path)
	}
	return &sf, nil
}

// addressOf maps a scenario's single-letter validator labels onto
// types.Address directly, so fixtures stay human-readable.
func addressOf(label string) types.Address {
	return types.BytesToAddress([]byte(label))
}

func (sf *scenarioFile) validatorSet() (types.ValidatorSet, error) {
	labels := make([]string, 0, len(sf.Validators))
	for label := range sf.Validators {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	validators := make([]types.Validator, 0, len(labels))
	for _, label := range labels {
		validators = append(validators, types.Validator{
			Address:     addressOf(label),
			VotingPower: sf.Validators[label],
		})
	}
	return types.NewValidatorSet(validators)
}

func (sf *scenarioFile) proposerSelector() (types.ProposerSelector, error) {
	schedule := make(map[types.Round]types.Address, len(sf.Proposers))
	for roundStr, label := range sf.Proposers {
		r, err := strconv.ParseInt(roundStr, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing proposer round %q", roundStr)
		}
		schedule[types.Round(r)] = addressOf(label)
	}
	return types.ProposerSelectorFunc(func(_ types.Height, r types.Round) types.Address {
		return schedule[r]
	}), nil
}

func parsePolRound(p *int64) types.Round {
	if p == nil {
		return types.NilRound
	}
	return types.Round(*p)
}

func parseTimeoutKind(s string) (round.TimeoutKind, error) {
	switch s {
	case "propose":
		return round.TimeoutPropose, nil
	case "prevote":
		return round.TimeoutPrevote, nil
	case "precommit":
		return round.TimeoutPrecommit, nil
	default:
		return 0, errors.Errorf("unknown timeout kind %q", s)
	}
}

func parseValidity(s string) (types.Validity, error) {
	switch s {
	case "valid", "":
		return types.Valid, nil
	case "invalid":
		return types.Invalid, nil
	default:
		return 0, errors.Errorf("unknown validity %q", s)
	}
}

func valueID(b *byte) types.ValueID {
	if b == nil {
		return types.NilValueID
	}
	return scenarioValue{n: *b}.ID()
}

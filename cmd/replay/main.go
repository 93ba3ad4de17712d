// Command replay drives the consensus core through a fixed script of
// external inputs loaded from a toml scenario file, printing every emitted
// output. It is a harness for spec.md §8's literal end-to-end scenarios,
// not part of the core itself (spec.md §6: "No... CLI... is part of the
// core's contract").
package main

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clearmatics/tendercore/driver"
	"github.com/clearmatics/tendercore/types"
)

var log = logrus.New()

// decisionRecord is what the harness retains about a height once the core
// has decided it.
type decisionRecord struct {
	Round types.Round
	Value types.Value
}

// decided caches the terminal decision of every height this process has
// driven, bounded so a host replaying many scenarios in one run (or a
// malformed fixture that revisits the same height) cannot grow it without
// limit.
var decided, _ = lru.New[types.Height, decisionRecord](256)

func main() {
	root := &cobra.Command{
		Use:   "replay",
		Short: "Replay spec.md end-to-end scenarios against the consensus core",
	}
	root.AddCommand(newRunCommand())
	if err := root.Execute(); err != nil {
		log.WithError(err).Error("replay failed")
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Feed a scenario's script of inputs through the core",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
}

func run(path string) error {
	sf, err := loadScenario(path)
	if err != nil {
		return err
	}
	vs, err := sf.validatorSet()
	if err != nil {
		return errors.Wrap(err, "building validator set")
	}
	selector, err := sf.proposerSelector()
	if err != nil {
		return errors.Wrap(err, "building proposer schedule")
	}
	self := addressOf(sf.Self)
	height := types.Height(sf.Height)

	if rec, ok := decided.Get(height); ok {
		log.WithFields(logrus.Fields{"height": height, "round": rec.Round}).Info("height already decided, skipping replay")
		return nil
	}

	logger := log.WithFields(logrus.Fields{"scenario": sf.Name, "height": height, "self": sf.Self})
	d := driver.New(height, vs, selector, self, types.DefaultThresholdParams(), logger)

	for i, step := range sf.Steps {
		in, err := toDriverInput(height, step)
		if err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		for _, out := range d.Process(in) {
			logOutput(logger, out)
			if rec, ok := out.(driver.OutputDecide); ok {
				decided.Add(height, decisionRecord{Round: rec.Round, Value: rec.Value})
			}
		}
	}
	return nil
}

func toDriverInput(height types.Height, step scenarioStep) (driver.Input, error) {
	switch step.Kind {
	case "new_round":
		return driver.InputNewRound{Round: types.Round(step.Round)}, nil

	case "propose_value":
		if step.Value == nil {
			return nil, errors.New("propose_value step requires value")
		}
		return driver.InputProposeValue{Round: types.Round(step.Round), Value: scenarioValue{n: *step.Value}}, nil

	case "proposal":
		if step.Value == nil {
			return nil, errors.New("proposal step requires value")
		}
		validity, err := parseValidity(step.Validity)
		if err != nil {
			return nil, err
		}
		p := types.Proposal{
			Height:   height,
			Round:    types.Round(step.Round),
			Value:    scenarioValue{n: *step.Value},
			PolRound: parsePolRound(step.PolRound),
			Proposer: addressOf(step.Proposer),
		}
		return driver.InputProposal{Proposal: p, Validity: validity}, nil

	case "vote":
		addr := addressOf(step.From)
		v := valueID(step.Value)
		switch step.VoteType {
		case "prevote":
			return driver.InputVote{Vote: types.NewPrevote(height, types.Round(step.Round), v, addr)}, nil
		case "precommit":
			return driver.InputVote{Vote: types.NewPrecommit(height, types.Round(step.Round), v, addr)}, nil
		default:
			return nil, errors.Errorf("unknown vote_type %q", step.VoteType)
		}

	case "timeout":
		kind, err := parseTimeoutKind(step.TimeoutKind)
		if err != nil {
			return nil, err
		}
		return driver.InputTimeoutElapsed{Kind: kind, Round: types.Round(step.Round)}, nil

	default:
		return nil, errors.Errorf("unknown step kind %q", step.Kind)
	}
}

func logOutput(logger *logrus.Entry, out driver.Output) {
	switch o := out.(type) {
	case driver.OutputNewRound:
		logger.WithField("round", o.Round).Info("new round")
	case driver.OutputPropose:
		logger.WithField("proposal", o.Proposal).Info("propose")
	case driver.OutputVote:
		logger.WithFields(logrus.Fields{"type": o.Vote.Type, "value": o.Vote.ValueID}).Info("vote")
	case driver.OutputDecide:
		logger.WithFields(logrus.Fields{"round": o.Round, "value": o.Value.ID()}).Info("decide")
	case driver.OutputScheduleTimeout:
		logger.WithField("kind", o.Kind).Info("schedule timeout")
	case driver.OutputGetValueAndScheduleTimeout:
		logger.WithField("round", o.Round).Info("get value and schedule timeout")
	}
}

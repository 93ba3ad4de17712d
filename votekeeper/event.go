// Package votekeeper implements the vote keeper (VK): an append-only,
// voting-power-weighted tally that emits first-seen threshold events
// (spec.md §4.2). It performs no I/O and holds no reference to the round
// state machine or the driver.
package votekeeper

import "github.com/clearmatics/tendercore/types"

// EventKind names one of the threshold events of spec.md §4.2.
type EventKind uint8

const (
	PolkaAny EventKind = iota
	PolkaNil
	PolkaValue
	PrecommitAny
	PrecommitValue
	SkipRound
)

func (k EventKind) String() string {
	switch k {
	case PolkaAny:
		return "polka-any"
	case PolkaNil:
		return "polka-nil"
	case PolkaValue:
		return "polka-value"
	case PrecommitAny:
		return "precommit-any"
	case PrecommitValue:
		return "precommit-value"
	case SkipRound:
		return "skip-round"
	default:
		return "unknown"
	}
}

// ThresholdEvent is a first-seen crossing of a weighted threshold. Round is
// the round the event pertains to (for SkipRound, the higher round r' the
// evidence is about). Value is only meaningful for PolkaValue/PrecommitValue.
// ThresholdEvent is comparable, so it doubles as the key of the "already
// emitted" set spec.md §4.2 requires (§3 invariant 2: at most once per
// (round, kind, value)).
type ThresholdEvent struct {
	Kind  EventKind
	Round types.Round
	Value types.ValueID
}

func (e ThresholdEvent) String() string {
	switch e.Kind {
	case PolkaValue, PrecommitValue:
		return e.Kind.String() + "(" + e.Value.String() + ")@" + e.Round.String()
	default:
		return e.Kind.String() + "@" + e.Round.String()
	}
}

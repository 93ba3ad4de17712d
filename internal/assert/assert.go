// Package assert implements the core's programmer-error assertions.
//
// spec.md §7: "Assertion failures... indicate programmer error and are
// fatal in debug builds only." DebugAssertions defaults to true; an
// embedder building for production can flip it off so a violated
// assertion degrades to a silent no-op instead of a panic.
package assert

import "github.com/pkg/errors"

// DebugAssertions gates whether That panics on a false condition. It is a
// package variable rather than a build tag so tests can exercise both
// behaviors without a separate build.
var DebugAssertions = true

// That panics with msg, wrapped for call-site context, if cond is false and
// DebugAssertions is enabled.
func That(cond bool, msg string) {
	if cond || !DebugAssertions {
		return
	}
	panic(errors.Errorf("assertion failed: %s", msg))
}

package plugin

import (
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

// panicVerdict converts a recovered plugin panic into an error verdict.
// File paths in the panic value are masked.
func panicVerdict(r any) plugin.Verdict {
	return plugin.Errorf(
		plugin.CodeHostFailure,
		"plugin panicked: %s",
		panicMessage(r),
	)
}

// checkVerdict replaces a verdict with an undefined outcome by an error
// verdict, so the engine only ever folds match, no-match or error.
func checkVerdict(v plugin.Verdict) plugin.Verdict {
	if v.Outcome.IsAOutcome() {
		return v
	}

	return plugin.Errorf(
		plugin.CodeHostFailure,
		"%v: %s",
		plugin.ErrInvalidOutcome,
		v.Outcome,
	)
}

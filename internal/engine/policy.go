// Package engine evaluates files against the loaded plugins and folds their
// verdicts into a single match decision.
package engine

import (
	"github.com/smykla-skalski/filescan/pkg/config"
)

//go:generate enumer -type=Mode -trimprefix=Mode -transform=lower -text -output=mode_enumer.go
//go:generate go run github.com/smykla-skalski/filescan/tools/enumerfix mode_enumer.go

// Mode selects how plugin verdicts are combined.
type Mode int

const (
	// ModeOr matches a file when any used plugin matches. It is the default.
	ModeOr Mode = iota

	// ModeAnd matches a file when every used plugin matches.
	ModeAnd
)

// Policy is the combination policy for a run.
type Policy struct {
	Mode Mode

	// Negate inverts the folded verdict.
	Negate bool
}

// PolicyFromConfig builds a policy from the scan configuration.
func PolicyFromConfig(scan *config.ScanConfig) Policy {
	p := Policy{Negate: scan.IsNegate()}
	if scan.GetMode() == config.ScanModeAnd {
		p.Mode = ModeAnd
	}

	return p
}

// Seed is the fold's identity element: true for And, false for Or. It is the
// verdict of a file no plugin was used for, before negation.
func (p Policy) Seed() bool {
	return p.Mode == ModeAnd
}

// fold combines the accumulator with one successful verdict.
func (p Policy) fold(acc, matched bool) bool {
	if p.Mode == ModeAnd {
		return acc && matched
	}

	return acc || matched
}

// finish applies the negate modifier.
func (p Policy) finish(acc bool) bool {
	return acc != p.Negate
}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p.Negate {
		return "not " + p.Mode.String()
	}

	return p.Mode.String()
}

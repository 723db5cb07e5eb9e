// Package config provides configuration schema types for filescan.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=ScanMode -trimprefix=ScanMode -transform=lower -json -text -output=scan_mode_enumer.go
//go:generate go run github.com/smykla-skalski/filescan/tools/enumerfix scan_mode_enumer.go
//go:generate enumer -type=OverflowPolicy -trimprefix=Overflow -transform=lower -json -text -output=overflow_policy_enumer.go
//go:generate go run github.com/smykla-skalski/filescan/tools/enumerfix overflow_policy_enumer.go
//go:generate enumer -type=PluginType -trimprefix=PluginType -transform=lower -json -text -output=plugin_type_enumer.go
//go:generate go run github.com/smykla-skalski/filescan/tools/enumerfix plugin_type_enumer.go

var (
	// ErrInvalidScanMode is returned when an invalid combination mode is provided.
	ErrInvalidScanMode = errors.New("invalid scan mode")

	// ErrInvalidOverflowPolicy is returned when an invalid overflow policy is provided.
	ErrInvalidOverflowPolicy = errors.New("invalid overflow policy")

	// ErrInvalidPluginType is returned when an invalid plugin type is provided.
	ErrInvalidPluginType = errors.New("invalid plugin type")

	// ErrNegativeDuration is returned when a negative duration is provided.
	ErrNegativeDuration = errors.New("duration must be non-negative")
)

// ScanMode selects how plugin verdicts are combined.
type ScanMode int

const (
	// ScanModeUnknown is the unset mode. It reads as ScanModeOr.
	ScanModeUnknown ScanMode = iota

	// ScanModeOr matches a file when any used plugin matches.
	ScanModeOr

	// ScanModeAnd matches a file when every used plugin matches.
	ScanModeAnd
)

// ParseScanMode parses a string into a ScanMode value.
func ParseScanMode(s string) (ScanMode, error) {
	mode, err := ScanModeString(s)
	if err != nil || mode == ScanModeUnknown {
		return ScanModeUnknown, errors.Wrapf(
			ErrInvalidScanMode,
			"%q, must be %q or %q",
			s,
			ScanModeOr.String(),
			ScanModeAnd.String(),
		)
	}

	return mode, nil
}

// OverflowPolicy decides what happens when more plugins are discovered than
// the registry accepts.
type OverflowPolicy int

const (
	// OverflowUnknown is the unset policy. It reads as OverflowFail.
	OverflowUnknown OverflowPolicy = iota

	// OverflowFail aborts startup when the plugin limit is exceeded.
	OverflowFail

	// OverflowTruncate keeps the first plugins up to the limit and warns
	// about the rest.
	OverflowTruncate
)

// ParseOverflowPolicy parses a string into an OverflowPolicy value.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	policy, err := OverflowPolicyString(s)
	if err != nil || policy == OverflowUnknown {
		return OverflowUnknown, errors.Wrapf(
			ErrInvalidOverflowPolicy,
			"%q, must be %q or %q",
			s,
			OverflowFail.String(),
			OverflowTruncate.String(),
		)
	}

	return policy, nil
}

// PluginType identifies where a loaded plugin came from.
type PluginType int

const (
	// PluginTypeUnknown is the zero PluginType.
	PluginTypeUnknown PluginType = iota

	// PluginTypeGo loads native Go plugins (.so files).
	PluginTypeGo

	// PluginTypeExec executes plugins as subprocesses with JSON I/O.
	PluginTypeExec

	// PluginTypeBuiltin marks plugins compiled into filescan. No file
	// extension maps to it.
	PluginTypeBuiltin
)

// ParsePluginType parses the loader type of a plugin file extension. Only
// PluginTypeGo and PluginTypeExec are accepted.
func ParsePluginType(s string) (PluginType, error) {
	pt, err := PluginTypeString(s)
	if err != nil || !pt.IsLoader() {
		return PluginTypeUnknown, errors.Wrapf(
			ErrInvalidPluginType,
			"%q, must be %q or %q",
			s,
			PluginTypeGo.String(),
			PluginTypeExec.String(),
		)
	}

	return pt, nil
}

// IsLoader reports whether plugin files can be loaded as pt.
func (pt PluginType) IsLoader() bool {
	return pt == PluginTypeGo || pt == PluginTypeExec
}

// Duration wraps time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

package plugin

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=Outcome -trimprefix=Outcome -transform=snake -json -text -output=outcome_enumer.go
//go:generate go run github.com/smykla-skalski/filescan/tools/enumerfix outcome_enumer.go

// ErrInvalidOutcome is returned for verdicts whose outcome is not one of the
// defined values.
var ErrInvalidOutcome = errors.New("invalid outcome")

// Error codes used by the built-in helpers and the host when a plugin fails
// without supplying its own code.
const (
	// CodeFailure is a generic evaluation failure (I/O, malformed input).
	CodeFailure = 1

	// CodeInvalidOptions means the bound options were not what the plugin expects.
	CodeInvalidOptions = 2

	// CodeHostFailure means the host could not obtain a verdict from the plugin
	// (panic, crashed subprocess, malformed response).
	CodeHostFailure = 3
)

// Outcome is the result class of a plugin evaluation. The zero value is not
// a valid outcome.
type Outcome int

const (
	// OutcomeMatch means the file satisfies the plugin's predicate.
	OutcomeMatch Outcome = iota + 1

	// OutcomeNoMatch means the file does not satisfy the predicate.
	OutcomeNoMatch

	// OutcomeError means the plugin could not decide.
	OutcomeError
)

// Verdict is the result of evaluating one file with one plugin.
type Verdict struct {
	// Outcome is the result class.
	Outcome Outcome `json:"outcome"`

	// Code identifies the failure when Outcome is OutcomeError.
	Code int `json:"code,omitempty"`

	// Message is a human-readable explanation, mostly useful for errors.
	Message string `json:"message,omitempty"`
}

// Match returns a verdict indicating the file matches.
func Match() Verdict {
	return Verdict{Outcome: OutcomeMatch}
}

// NoMatch returns a verdict indicating the file does not match.
func NoMatch() Verdict {
	return Verdict{Outcome: OutcomeNoMatch}
}

// Errorf returns an error verdict with the given code and formatted message.
func Errorf(code int, format string, args ...any) Verdict {
	return Verdict{
		Outcome: OutcomeError,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// FromBool returns Match when matched is true and NoMatch otherwise.
func FromBool(matched bool) Verdict {
	if matched {
		return Match()
	}

	return NoMatch()
}

// IsMatch reports whether the verdict is a match.
func (v Verdict) IsMatch() bool {
	return v.Outcome == OutcomeMatch
}

// IsError reports whether the plugin failed to decide.
func (v Verdict) IsError() bool {
	return v.Outcome == OutcomeError
}

// String implements fmt.Stringer.
func (v Verdict) String() string {
	if v.Outcome != OutcomeError {
		return v.Outcome.String()
	}

	if v.Message == "" {
		return fmt.Sprintf("error(%d)", v.Code)
	}

	return fmt.Sprintf("error(%d): %s", v.Code, v.Message)
}

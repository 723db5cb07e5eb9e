package plugin

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// Exec protocol flags.
const (
	// DescribeFlag asks an exec plugin to print its Descriptor as JSON.
	DescribeFlag = "--describe"

	// EvaluateFlag asks an exec plugin to read an EvaluateRequest from stdin
	// and print a Verdict as JSON.
	EvaluateFlag = "--evaluate"
)

// ErrUnknownCommand is returned by Serve when args carry no protocol flag.
var ErrUnknownCommand = errors.New("expected --describe or --evaluate")

// Serve implements the plugin side of the exec protocol.
//
// Protocol:
//   - "<plugin> --describe": JSON-encoded Descriptor on stdout
//   - "<plugin> --evaluate": JSON-encoded EvaluateRequest on stdin,
//     JSON-encoded Verdict on stdout
//
// A failed evaluation is still reported as a Verdict; Serve only returns an
// error when the protocol itself is violated, in which case the process
// should exit non-zero.
func Serve(p Plugin, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return ErrUnknownCommand
	}

	switch args[0] {
	case DescribeFlag:
		desc, err := p.Describe()
		if err != nil {
			return errors.Wrap(err, "describe")
		}

		return writeJSON(stdout, desc)

	case EvaluateFlag:
		var req EvaluateRequest
		if err := json.NewDecoder(stdin).Decode(&req); err != nil {
			return errors.Wrap(err, "failed to parse request JSON")
		}

		return writeJSON(stdout, safeEvaluate(p, req.Path, req.Options))

	default:
		return errors.Wrapf(ErrUnknownCommand, "got %q", args[0])
	}
}

// safeEvaluate turns a panicking Evaluate into an error verdict.
func safeEvaluate(p Plugin, path string, opts []BoundOption) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = Errorf(CodeHostFailure, "plugin panicked: %v", r)
		}
	}()

	return p.Evaluate(path, opts)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal response to JSON")
	}

	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return errors.Wrap(err, "failed to write response")
	}

	return nil
}

// Package exec runs plugin executables as short-lived subprocesses.
package exec

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// waitDelay bounds how long Run waits for output pipes after the process
	// was killed because its context expired.
	waitDelay = 500 * time.Millisecond

	// DefaultMaxOutput caps the captured stdout and stderr of one run.
	DefaultMaxOutput = 1 << 20
)

// ErrOutputTooLarge is returned when a process writes more than the output
// cap to stdout.
var ErrOutputTooLarge = errors.New("process output exceeds limit")

// Command describes one process run.
type Command struct {
	Name  string
	Args  []string
	Stdin []byte
}

// Result is the outcome of a process run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int

	// Err is set when the process could not be started, did not finish
	// (killed on timeout or cancellation) or overflowed stdout. A non-zero
	// exit alone is not an error.
	Err error
}

// CommandRunner runs processes with a timeout and captured output.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) Result
}

// Option configures a runner.
type Option func(*runner)

// WithMaxOutput overrides DefaultMaxOutput.
func WithMaxOutput(n int) Option {
	return func(r *runner) {
		r.maxOutput = n
	}
}

type runner struct {
	timeout   time.Duration
	maxOutput int
}

// NewCommandRunner creates a runner. timeout applies to runs whose context
// has no deadline; zero disables it.
func NewCommandRunner(timeout time.Duration, opts ...Option) CommandRunner {
	r := &runner{
		timeout:   timeout,
		maxOutput: DefaultMaxOutput,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *runner) Run(ctx context.Context, c Command) Result {
	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	//nolint:gosec // G204: plugin executables come from the configured plugin directory
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay

	if c.Stdin != nil {
		cmd.Stdin = bytes.NewReader(c.Stdin)
	}

	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: r.maxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	res := Result{Stdout: stdout.buf.Bytes(), Stderr: stderr.buf.Bytes()}

	var exitErr *exec.ExitError

	switch {
	case ctx.Err() != nil:
		res.ExitCode = -1
		res.Err = errors.Wrapf(ctx.Err(), "running %s", c.Name)
	case stdout.overflow:
		res.ExitCode = -1
		res.Err = errors.Wrapf(ErrOutputTooLarge, "running %s: more than %d bytes", c.Name, r.maxOutput)
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		res.ExitCode = -1
		res.Err = errors.Wrapf(err, "running %s", c.Name)
	}

	return res
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
type cappedBuffer struct {
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); len(p) > room {
		b.overflow = true
		b.buf.Write(p[:max(room, 0)])

		return len(p), nil
	}

	return b.buf.Write(p)
}

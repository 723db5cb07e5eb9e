package engine

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/internal/plugin"
	"github.com/smykla-skalski/filescan/pkg/logger"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

// MatchFormat is the line written to the output for every matching file.
const MatchFormat = "File %s matches the search criteria\n"

// Evaluator runs one plugin's predicate. *plugin.Handle satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, path string, opts []pluginapi.BoundOption) pluginapi.Verdict
}

// Binding is a plugin that is used for this run together with the options
// bound to it.
type Binding struct {
	// Name identifies the plugin in diagnostics.
	Name string

	// Plugin is the predicate to invoke.
	Plugin Evaluator

	// Options are the bound options, in descriptor order.
	Options []pluginapi.BoundOption
}

// Plan binds the supplied options to every handle, in load order, and keeps
// only the handles that are used. Supplied values are fixed for the run, so
// the plan is computed once and reused for every file.
func Plan(handles []*plugin.Handle, supplied plugin.Supplied) []Binding {
	bindings := make([]Binding, 0, len(handles))

	for _, h := range handles {
		used, bound := plugin.Bind(h.Descriptor(), supplied)
		if !used {
			continue
		}

		bindings = append(bindings, Binding{
			Name:    h.Name(),
			Plugin:  h,
			Options: bound,
		})
	}

	return bindings
}

// Observer receives every verdict returned by a plugin, before folding.
type Observer interface {
	ObserveVerdict(plugin string, v pluginapi.Verdict)
}

// Summary describes a finished scan.
type Summary struct {
	// Files is the number of files evaluated.
	Files int

	// Matched is the number of files reported as matching.
	Matched int

	// PluginErrors is the number of error verdicts returned by plugins.
	PluginErrors int

	// Elapsed is the wall time of the scan.
	Elapsed time.Duration
}

// Engine evaluates files with a fixed set of bindings and a fixed policy.
type Engine struct {
	bindings []Binding
	policy   Policy
	out      io.Writer
	logger   logger.Logger
	observer Observer
	summary  Summary
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets the writer matching files are reported to. Defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.out = w
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithObserver reports every plugin verdict to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// New creates an engine for the given bindings and policy.
func New(bindings []Binding, policy Policy, opts ...Option) *Engine {
	e := &Engine{
		bindings: bindings,
		policy:   policy,
		out:      os.Stdout,
		logger:   logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Policy returns the engine's combination policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// EvaluateFile decides whether the file at path matches and reports it on the
// output when it does.
//
// The accumulator starts at the policy's seed. An error verdict counts as
// "does not match": under And it forces the accumulator to false and stops
// evaluation, under Or it adds nothing and the remaining plugins still run, so
// a match from any other plugin wins regardless of order. Negation is applied
// last. A file whose evaluation was cut short by ctx never matches and is not
// counted.
func (e *Engine) EvaluateFile(ctx context.Context, path string) bool {
	acc := e.policy.Seed()

	for _, b := range e.bindings {
		v := b.Plugin.Evaluate(ctx, path, b.Options)

		if e.observer != nil {
			e.observer.ObserveVerdict(b.Name, v)
		}

		if v.IsError() {
			e.summary.PluginErrors++
			e.logger.Debug("plugin failed",
				"plugin", b.Name,
				"path", path,
				"code", v.Code,
				"message", v.Message,
			)

			if e.policy.Mode == ModeAnd {
				acc = false

				break
			}

			continue
		}

		e.logger.Debug("plugin verdict", "plugin", b.Name, "path", path, "verdict", v.Outcome)

		acc = e.policy.fold(acc, v.IsMatch())
	}

	if ctx.Err() != nil {
		e.logger.Debug("evaluation interrupted", "path", path)

		return false
	}

	matched := e.policy.finish(acc)

	e.summary.Files++

	if !matched {
		e.logger.Debug("file does not match", "path", path)

		return false
	}

	e.summary.Matched++

	if _, err := fmt.Fprintf(e.out, MatchFormat, path); err != nil {
		e.logger.Error("failed to report match", "path", path, "error", err)
	}

	return true
}

// Scan evaluates every path of files in order, one at a time. It stops early
// only when ctx is cancelled.
func (e *Engine) Scan(ctx context.Context, files iter.Seq[string]) (Summary, error) {
	start := time.Now()

	var err error

	for path := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = errors.Wrap(ctxErr, "scan interrupted")

			break
		}

		e.EvaluateFile(ctx, path)
	}

	e.summary.Elapsed = time.Since(start)

	return e.summary, err
}

// Summary returns the counters collected so far.
func (e *Engine) Summary() Summary {
	return e.summary
}

package plugin

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/internal/exec"
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

// maxStderrLen bounds how much of a failing plugin's stderr ends up in
// diagnostics.
const maxStderrLen = 512

var (
	// ErrPluginDescribeFailed is returned when plugin --describe exits non-zero.
	ErrPluginDescribeFailed = errors.New("plugin --describe exited with non-zero code")

	// ErrPluginExecFailed is returned when plugin --evaluate exits non-zero.
	ErrPluginExecFailed = errors.New("plugin execution failed with non-zero code")
)

// ExecLoader loads plugins as external executables that communicate via JSON.
//
// Protocol (see pkg/plugin.Serve):
//   - Describe: execute with --describe, JSON-encoded plugin.Descriptor on stdout
//   - Evaluate: execute with --evaluate, JSON-encoded plugin.EvaluateRequest on
//     stdin, JSON-encoded plugin.Verdict on stdout
//
// Every call starts a fresh process, bounded by the runner's timeout.
type ExecLoader struct {
	runner exec.CommandRunner
}

// NewExecLoader creates an exec plugin loader running plugins with runner.
func NewExecLoader(runner exec.CommandRunner) *ExecLoader {
	return &ExecLoader{runner: runner}
}

// Load verifies the executable at path and fetches its descriptor.
//
//nolint:ireturn // interface return is required by Loader interface
func (l *ExecLoader) Load(path string) (Plugin, error) {
	if path == "" {
		return nil, errors.New("path is required for exec plugins")
	}

	if err := ValidateMetachars(path); err != nil {
		return nil, err
	}

	desc, err := l.fetchDescriptor(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch plugin descriptor")
	}

	return &execPlugin{path: path, desc: desc, runner: l.runner}, nil
}

// Close is a no-op; exec plugins hold no process between calls.
func (*ExecLoader) Close() error {
	return nil
}

func (l *ExecLoader) fetchDescriptor(path string) (plugin.Descriptor, error) {
	res := l.runner.Run(context.Background(), exec.Command{
		Name: path,
		Args: []string{plugin.DescribeFlag},
	})

	switch {
	case res.Err != nil:
		return plugin.Descriptor{}, errors.Wrap(res.Err, "failed to execute plugin --describe")
	case res.ExitCode != 0:
		return plugin.Descriptor{}, errors.Wrapf(
			ErrPluginDescribeFailed,
			"exit code %d: %s",
			res.ExitCode,
			trimStderr(res.Stderr),
		)
	}

	var desc plugin.Descriptor
	if err := json.Unmarshal(res.Stdout, &desc); err != nil {
		return plugin.Descriptor{}, errors.Wrap(err, "failed to parse plugin descriptor JSON")
	}

	return desc, nil
}

// execPlugin runs one executable per Evaluate call.
type execPlugin struct {
	path   string
	desc   plugin.Descriptor
	runner exec.CommandRunner
}

func (p *execPlugin) Descriptor() plugin.Descriptor {
	return p.desc
}

// Evaluate runs the executable with --evaluate and passes the request via
// stdin. Any failure of the subprocess becomes an error verdict.
func (p *execPlugin) Evaluate(ctx context.Context, path string, opts []plugin.BoundOption) plugin.Verdict {
	req, err := json.Marshal(plugin.EvaluateRequest{Path: path, Options: opts})
	if err != nil {
		return plugin.Errorf(plugin.CodeHostFailure, "failed to marshal request: %v", err)
	}

	res := p.runner.Run(ctx, exec.Command{
		Name:  p.path,
		Args:  []string{plugin.EvaluateFlag},
		Stdin: req,
	})

	switch {
	case res.Err != nil:
		return plugin.Errorf(plugin.CodeHostFailure, "plugin execution failed: %v", res.Err)
	case res.ExitCode != 0:
		return plugin.Errorf(
			plugin.CodeHostFailure,
			"%v: exit code %d: %s",
			ErrPluginExecFailed,
			res.ExitCode,
			trimStderr(res.Stderr),
		)
	}

	var v plugin.Verdict
	if err := json.Unmarshal(res.Stdout, &v); err != nil {
		return plugin.Errorf(plugin.CodeHostFailure, "failed to parse verdict JSON: %v", err)
	}

	return checkVerdict(v)
}

func (*execPlugin) Close() error {
	return nil
}

func trimStderr(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if len(s) > maxStderrLen {
		return s[:maxStderrLen] + "..."
	}

	return s
}

// Package plugin provides plugin discovery, loading and lifecycle management.
package plugin

//go:generate mockgen -source=plugin.go -destination=plugin_mock.go -package=plugin

import (
	"context"

	"github.com/smykla-skalski/filescan/pkg/plugin"
)

// Plugin represents a loaded plugin instance. This is the internal interface
// used by the registry and the evaluation engine, separate from the public API
// in pkg/plugin.
type Plugin interface {
	// Descriptor returns the descriptor retrieved when the plugin was loaded.
	Descriptor() plugin.Descriptor

	// Evaluate runs the plugin's predicate on path. Failures of any kind
	// (plugin errors, panics, crashed subprocesses) are reported as an
	// error verdict, never as a Go error or a panic.
	Evaluate(ctx context.Context, path string, opts []plugin.BoundOption) plugin.Verdict

	// Close releases the module resource held by the plugin.
	// The registry calls it exactly once.
	Close() error
}

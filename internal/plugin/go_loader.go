package plugin

import (
	"context"
	"io"
	goplugin "plugin"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/pkg/plugin"
)

// Exported symbol names looked up in native Go plugins.
const (
	DescribeSymbol = "Describe"
	EvaluateSymbol = "Evaluate"
)

var (
	// ErrMissingSymbol is returned when a Go plugin does not export a required
	// entry point, or exports it with the wrong type.
	ErrMissingSymbol = errors.New("plugin does not export required symbol")

	// ErrDescribeFailed is returned when a plugin's Describe entry point fails.
	ErrDescribeFailed = errors.New("plugin describe failed")
)

// Module is an opened native module. *plugin.Plugin from the standard library
// satisfies it. A Module that also implements io.Closer is closed when the
// plugin is released.
type Module interface {
	Lookup(symName string) (goplugin.Symbol, error)
}

// OpenFunc opens the native module at path.
type OpenFunc func(path string) (Module, error)

func openNative(path string) (Module, error) {
	return goplugin.Open(path)
}

// GoLoader loads native Go plugins (.so files built with -buildmode=plugin).
type GoLoader struct {
	open OpenFunc
}

// NewGoLoader creates a new Go plugin loader.
func NewGoLoader() *GoLoader {
	return NewGoLoaderWithOpener(openNative)
}

// NewGoLoaderWithOpener creates a Go plugin loader that opens modules with
// open instead of the standard library plugin package.
func NewGoLoaderWithOpener(open OpenFunc) *GoLoader {
	return &GoLoader{open: open}
}

// Load opens the module at path, resolves its entry points and retrieves the
// descriptor. The module is released when any step after opening fails.
//
//nolint:ireturn // interface return is required by Loader interface
func (l *GoLoader) Load(path string) (Plugin, error) {
	if path == "" {
		return nil, errors.New("path is required for Go plugins")
	}

	mod, err := l.open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Go plugin")
	}

	p, err := bindModule(mod)
	if err != nil {
		return nil, errors.CombineErrors(err, releaseModule(mod))
	}

	return p, nil
}

// Close releases any resources held by the loader.
func (*GoLoader) Close() error {
	// Go plugins cannot be unloaded, so this is a no-op
	return nil
}

func bindModule(mod Module) (*goPluginAdapter, error) {
	describe, err := lookupDescribe(mod)
	if err != nil {
		return nil, err
	}

	evaluate, err := lookupEvaluate(mod)
	if err != nil {
		return nil, err
	}

	a := &goPluginAdapter{
		impl:   funcPlugin{describe: describe, evaluate: evaluate},
		module: mod,
	}

	if err := a.describe(); err != nil {
		return nil, err
	}

	return a, nil
}

// lookupDescribe accepts both an exported function and an exported variable
// of function type.
func lookupDescribe(mod Module) (plugin.DescribeFunc, error) {
	sym, err := mod.Lookup(DescribeSymbol)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingSymbol, "%s: %v", DescribeSymbol, err)
	}

	switch fn := sym.(type) {
	case func() (plugin.Descriptor, error):
		return fn, nil
	case *func() (plugin.Descriptor, error):
		if fn != nil && *fn != nil {
			return *fn, nil
		}
	}

	return nil, errors.Wrapf(ErrMissingSymbol, "%s has type %T", DescribeSymbol, sym)
}

func lookupEvaluate(mod Module) (plugin.EvaluateFunc, error) {
	sym, err := mod.Lookup(EvaluateSymbol)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingSymbol, "%s: %v", EvaluateSymbol, err)
	}

	switch fn := sym.(type) {
	case func(string, []plugin.BoundOption) plugin.Verdict:
		return fn, nil
	case *func(string, []plugin.BoundOption) plugin.Verdict:
		if fn != nil && *fn != nil {
			return *fn, nil
		}
	}

	return nil, errors.Wrapf(ErrMissingSymbol, "%s has type %T", EvaluateSymbol, sym)
}

func releaseModule(mod Module) error {
	if c, ok := mod.(io.Closer); ok {
		return errors.Wrap(c.Close(), "failed to release plugin module")
	}

	return nil
}

// funcPlugin adapts the two exported entry points to the public Plugin
// interface.
type funcPlugin struct {
	describe plugin.DescribeFunc
	evaluate plugin.EvaluateFunc
}

func (f funcPlugin) Describe() (plugin.Descriptor, error) {
	return f.describe()
}

func (f funcPlugin) Evaluate(path string, opts []plugin.BoundOption) plugin.Verdict {
	return f.evaluate(path, opts)
}

// goPluginAdapter adapts a public plugin.Plugin running in-process to the
// internal Plugin interface.
type goPluginAdapter struct {
	impl   plugin.Plugin
	module Module
	desc   plugin.Descriptor
}

// describe retrieves and caches the descriptor, recovering from panics.
func (a *goPluginAdapter) describe() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(
				ErrDescribeFailed,
				"panic: %s",
				panicMessage(r),
			)
		}
	}()

	desc, err := a.impl.Describe()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "describe"), ErrDescribeFailed)
	}

	a.desc = desc

	return nil
}

// Descriptor returns the descriptor retrieved at load time.
func (a *goPluginAdapter) Descriptor() plugin.Descriptor {
	return a.desc
}

// Evaluate runs the plugin's predicate. Go plugins run synchronously in the
// same process, so the context is only checked before the call.
func (a *goPluginAdapter) Evaluate(
	ctx context.Context,
	path string,
	opts []plugin.BoundOption,
) (v plugin.Verdict) {
	if err := ctx.Err(); err != nil {
		return plugin.Errorf(plugin.CodeHostFailure, "%v", err)
	}

	defer func() {
		if r := recover(); r != nil {
			v = panicVerdict(r)
		}
	}()

	return checkVerdict(a.impl.Evaluate(path, cloneOptions(opts)))
}

// Close releases the module held by the plugin.
func (a *goPluginAdapter) Close() error {
	if a.module == nil {
		return nil
	}

	return releaseModule(a.module)
}

// NewInProcess wraps a public plugin implementation compiled into the host
// binary. The descriptor is retrieved immediately.
//
//nolint:ireturn // interface return is required by Loader interface
func NewInProcess(impl plugin.Plugin) (Plugin, error) {
	a := &goPluginAdapter{impl: impl}
	if err := a.describe(); err != nil {
		return nil, err
	}

	return a, nil
}

func cloneOptions(opts []plugin.BoundOption) []plugin.BoundOption {
	if opts == nil {
		return nil
	}

	out := make([]plugin.BoundOption, len(opts))
	copy(out, opts)

	return out
}

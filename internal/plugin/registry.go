package plugin

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/internal/exec"
	"github.com/smykla-skalski/filescan/pkg/config"
	"github.com/smykla-skalski/filescan/pkg/logger"
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

var (
	// ErrTooManyPlugins is returned when more plugins are discovered than the
	// registry accepts and the overflow policy is "fail".
	ErrTooManyPlugins = errors.New("too many plugins")

	// ErrRegistrySealed is returned when a plugin is added after Seal.
	ErrRegistrySealed = errors.New("plugin registry is sealed")

	// ErrPluginDirectory is returned when the plugin directory cannot be read.
	ErrPluginDirectory = errors.New("cannot read plugin directory")

	// ErrInvalidDescriptor is returned when a plugin descriptor declares an
	// option that cannot be used on the command line.
	ErrInvalidDescriptor = errors.New("invalid plugin descriptor")

	// ErrDuplicateOption is returned when a plugin declares the same option twice.
	ErrDuplicateOption = errors.New("duplicate option in plugin descriptor")
)

// Handle is a loaded plugin owned by the registry.
type Handle struct {
	// Source is the path the plugin was loaded from, or a label for plugins
	// added directly.
	Source string

	// Kind is the loader that produced the plugin.
	Kind config.PluginType

	plugin   Plugin
	released bool
}

// Descriptor returns the plugin descriptor retrieved at load time.
func (h *Handle) Descriptor() plugin.Descriptor {
	return h.plugin.Descriptor()
}

// Name returns a short display name for the plugin.
func (h *Handle) Name() string {
	return filepath.Base(h.Source)
}

// Evaluate runs the plugin's predicate on path.
func (h *Handle) Evaluate(ctx context.Context, path string, opts []plugin.BoundOption) plugin.Verdict {
	return h.plugin.Evaluate(ctx, path, opts)
}

// release closes the plugin once.
func (h *Handle) release() error {
	if h.released {
		return nil
	}

	h.released = true

	return errors.Wrapf(h.plugin.Close(), "failed to release plugin %s", h.Source)
}

// Options configures a Registry.
type Options struct {
	// MaxPlugins is the registry capacity.
	MaxPlugins int

	// Overflow decides what happens past MaxPlugins.
	Overflow config.OverflowPolicy

	// Extensions maps candidate file extensions to loader types.
	Extensions map[string]config.PluginType
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return OptionsFromConfig(nil)
}

// OptionsFromConfig derives registry options from the plugin configuration.
func OptionsFromConfig(cfg *config.PluginConfig) Options {
	return Options{
		MaxPlugins: cfg.GetMaxPlugins(),
		Overflow:   cfg.GetOverflow(),
		Extensions: cfg.GetExtensions(),
	}
}

// Registry discovers, loads and owns plugins for the lifetime of a run.
type Registry struct {
	loaders map[config.PluginType]Loader
	handles []*Handle
	opts    Options
	logger  logger.Logger
	sealed  bool
	closed  bool
}

// NewRegistry creates a registry with the given loaders.
func NewRegistry(log logger.Logger, opts Options, loaders map[config.PluginType]Loader) *Registry {
	if opts.MaxPlugins <= 0 {
		opts.MaxPlugins = config.DefaultMaxPlugins
	}

	if opts.Overflow == config.OverflowUnknown {
		opts.Overflow = config.OverflowFail
	}

	if opts.Extensions == nil {
		opts.Extensions = DefaultOptions().Extensions
	}

	return &Registry{
		loaders: loaders,
		handles: make([]*Handle, 0, opts.MaxPlugins),
		opts:    opts,
		logger:  log,
	}
}

// NewRegistryFromConfig creates a registry with the native Go and exec loaders
// configured from cfg.
func NewRegistryFromConfig(log logger.Logger, cfg *config.PluginConfig) *Registry {
	runner := exec.NewCommandRunner(cfg.GetExecTimeout())

	return NewRegistry(log, OptionsFromConfig(cfg), map[config.PluginType]Loader{
		config.PluginTypeGo:   NewGoLoader(),
		config.PluginTypeExec: NewExecLoader(runner),
	})
}

// LoadAll scans dir non-recursively, in file name order, and loads every
// candidate whose extension maps to a loader. Candidates that fail to load or
// validate are logged and skipped. Only a missing or unreadable directory and
// an exceeded capacity under the "fail" overflow policy are returned as errors.
//
// Capacity counts loaded plugins. Under "fail" a candidate past the limit is
// still loaded, and the limit is only exceeded when it loads. Under
// "truncate" candidates past the limit are skipped without loading.
func (r *Registry) LoadAll(ctx context.Context, dir string) error {
	if r.sealed {
		return ErrRegistrySealed
	}

	absDir, err := resolveDir(dir)
	if err != nil {
		return err
	}

	candidates, err := r.discover(absDir)
	if err != nil {
		return err
	}

	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "plugin loading interrupted")
		}

		full := len(r.handles) >= r.opts.MaxPlugins
		if full && r.opts.Overflow == config.OverflowTruncate {
			return r.overflow(candidates[i:])
		}

		p, ok := r.loadCandidate(cand, absDir)
		if !ok {
			continue
		}

		if full {
			if err := p.Close(); err != nil {
				r.logger.Error("failed to release plugin", "path", cand.path, "error", err)
			}

			return r.overflow(candidates[i:])
		}

		if err := r.add(p, cand.path, cand.kind); err != nil {
			r.logger.Error("skipping plugin", "path", cand.path, "error", err)

			continue
		}

		desc := p.Descriptor()
		r.logger.Debug("loaded plugin",
			"path", cand.path,
			"type", cand.kind,
			"purpose", desc.Purpose,
			"author", desc.Author,
		)
	}

	return nil
}

type candidate struct {
	path string
	kind config.PluginType
}

func resolveDir(dir string) (string, error) {
	expanded, err := expandHome(dir)
	if err != nil {
		return "", errors.Mark(err, ErrPluginDirectory)
	}

	absDir, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "plugin directory %s", dir), ErrPluginDirectory)
	}

	return absDir, nil
}

// discover lists plugin candidates in dir. os.ReadDir returns entries sorted
// by file name.
func (r *Registry) discover(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "plugin directory %s", dir), ErrPluginDirectory)
	}

	candidates := make([]candidate, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		kind, ok := r.opts.Extensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			r.logger.Debug("ignoring non-plugin file", "file", entry.Name())

			continue
		}

		candidates = append(candidates, candidate{
			path: filepath.Join(dir, entry.Name()),
			kind: kind,
		})
	}

	return candidates, nil
}

// loadCandidate loads and validates one candidate. A plugin whose descriptor
// is rejected is released before loadCandidate returns.
func (r *Registry) loadCandidate(cand candidate, dir string) (Plugin, bool) {
	log := r.logger.With("path", cand.path, "type", cand.kind)

	if err := ValidatePath(cand.path, dir); err != nil {
		log.Error("skipping plugin", "error", err)

		return nil, false
	}

	loader, ok := r.loaders[cand.kind]
	if !ok {
		log.Error("skipping plugin", "error", errors.Newf("unsupported plugin type: %s", cand.kind))

		return nil, false
	}

	p, err := loader.Load(cand.path)
	if err != nil {
		log.Error("failed to load plugin", "error", err)

		return nil, false
	}

	if err := ValidateDescriptor(p.Descriptor()); err != nil {
		log.Error("skipping plugin", "error", errors.CombineErrors(err, p.Close()))

		return nil, false
	}

	return p, true
}

func (r *Registry) overflow(skipped []candidate) error {
	names := make([]string, 0, len(skipped))
	for _, cand := range skipped {
		names = append(names, filepath.Base(cand.path))
	}

	if r.opts.Overflow == config.OverflowTruncate {
		r.logger.Error("plugin limit reached, ignoring remaining plugins",
			"max_plugins", r.opts.MaxPlugins,
			"skipped", strings.Join(names, ","),
		)

		return nil
	}

	return errors.Wrapf(
		ErrTooManyPlugins,
		"limit is %d, cannot load %s",
		r.opts.MaxPlugins,
		strings.Join(names, ", "),
	)
}

// Add registers an already constructed plugin under source and lists it as
// builtin. The registry takes ownership of p: when p is rejected it is closed
// before Add returns.
func (r *Registry) Add(p Plugin, source string) error {
	return r.add(p, source, config.PluginTypeBuiltin)
}

func (r *Registry) add(p Plugin, source string, kind config.PluginType) error {
	var err error

	switch {
	case r.sealed || r.closed:
		err = ErrRegistrySealed
	case len(r.handles) >= r.opts.MaxPlugins:
		err = errors.Wrapf(ErrTooManyPlugins, "limit is %d", r.opts.MaxPlugins)
	default:
		err = ValidateDescriptor(p.Descriptor())
	}

	if err != nil {
		return errors.CombineErrors(err, p.Close())
	}

	r.handles = append(r.handles, &Handle{Source: source, Kind: kind, plugin: p})

	return nil
}

// Seal fixes the set of handles. Traversal starts after Seal.
func (r *Registry) Seal() {
	r.sealed = true
}

// Handles returns the loaded plugins in load order.
func (r *Registry) Handles() []*Handle {
	return slices.Clone(r.handles)
}

// Len returns the number of loaded plugins.
func (r *Registry) Len() int {
	return len(r.handles)
}

// Lookup returns the plugins declaring the option name, in load order.
func (r *Registry) Lookup(name string) []*Handle {
	var found []*Handle

	for _, h := range r.handles {
		if _, ok := h.Descriptor().Lookup(name); ok {
			found = append(found, h)
		}
	}

	return found
}

// Options returns the union of declared options in load order. When several
// plugins declare the same name, the first declaration wins.
func (r *Registry) Options() []plugin.OptionSpec {
	seen := make(map[string]bool)

	var specs []plugin.OptionSpec

	for _, h := range r.handles {
		for _, spec := range h.Descriptor().Options {
			if seen[spec.Name] {
				continue
			}

			seen[spec.Name] = true
			specs = append(specs, spec)
		}
	}

	return specs
}

// Teardown releases every plugin exactly once and closes the loaders. It is
// safe to call more than once.
func (r *Registry) Teardown() error {
	if r.closed {
		return nil
	}

	r.closed = true

	var errs error

	for _, h := range r.handles {
		errs = errors.CombineErrors(errs, h.release())
	}

	for _, kind := range slices.Sorted(maps.Keys(r.loaders)) {
		errs = errors.CombineErrors(errs, r.loaders[kind].Close())
	}

	return errs
}

// ValidateDescriptor checks that every declared option can be used as a long
// command-line option and that names are unique within the descriptor.
func ValidateDescriptor(desc plugin.Descriptor) error {
	seen := make(map[string]bool, len(desc.Options))

	for _, spec := range desc.Options {
		switch {
		case spec.Name == "":
			return errors.Wrap(ErrInvalidDescriptor, "empty option name")
		case strings.HasPrefix(spec.Name, "-"):
			return errors.Wrapf(ErrInvalidDescriptor, "option %q must not start with '-'", spec.Name)
		case strings.ContainsFunc(spec.Name, invalidOptionRune):
			return errors.Wrapf(ErrInvalidDescriptor, "option %q contains invalid characters", spec.Name)
		case seen[spec.Name]:
			return errors.Wrapf(ErrDuplicateOption, "option %q", spec.Name)
		}

		seen[spec.Name] = true
	}

	return nil
}

func invalidOptionRune(r rune) bool {
	return r == '=' || unicode.IsSpace(r) || !unicode.IsPrint(r)
}

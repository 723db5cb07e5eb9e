package config

import (
	"strings"
	"time"
)

const (
	// DefaultPluginDirectory is the plugin directory used when none is configured.
	DefaultPluginDirectory = "./plugins"

	// DefaultMaxPlugins is the default registry capacity.
	DefaultMaxPlugins = 10

	// DefaultExecTimeout is the default timeout for a single exec plugin call.
	DefaultExecTimeout = 5 * time.Second
)

// defaultExtensions maps plugin file extensions to loader types.
var defaultExtensions = map[string]PluginType{
	".so":     PluginTypeGo,
	".plugin": PluginTypeExec,
}

// PluginConfig contains configuration for plugin discovery and loading.
type PluginConfig struct {
	// Directory is the path scanned (non-recursively) for plugins.
	// Default: "./plugins"
	Directory string `json:"directory,omitempty" koanf:"directory" toml:"directory,omitempty"`

	// MaxPlugins is the maximum number of plugins the registry accepts.
	// Default: 10
	MaxPlugins int `json:"max_plugins,omitempty" koanf:"max_plugins" toml:"max_plugins,omitempty"`

	// Overflow controls what happens when more plugins are discovered than
	// MaxPlugins allows ("fail" or "truncate").
	// Default: "fail"
	Overflow OverflowPolicy `json:"overflow,omitempty" koanf:"overflow" toml:"overflow,omitempty"`

	// ExecTimeout is the maximum time a single exec plugin call may take.
	// Default: "5s"
	ExecTimeout Duration `json:"exec_timeout,omitempty" koanf:"exec_timeout" toml:"exec_timeout,omitempty"`

	// Extensions maps file extensions to plugin types. Keys are written
	// without the leading dot (so = "go") since dots separate config paths.
	// Default: {so = "go", plugin = "exec"}
	Extensions map[string]PluginType `json:"extensions,omitempty" koanf:"extensions" toml:"extensions,omitempty"`

	// Builtin registers the IPv6 search plugin compiled into filescan ahead
	// of the plugins found in Directory.
	// Default: false
	Builtin *bool `json:"builtin,omitempty" koanf:"builtin" toml:"builtin,omitempty"`
}

// GetDirectory returns the plugin directory, or the default if not set.
func (p *PluginConfig) GetDirectory() string {
	if p == nil || p.Directory == "" {
		return DefaultPluginDirectory
	}

	return p.Directory
}

// GetMaxPlugins returns the registry capacity, or the default if not set.
func (p *PluginConfig) GetMaxPlugins() int {
	if p == nil || p.MaxPlugins == 0 {
		return DefaultMaxPlugins
	}

	return p.MaxPlugins
}

// GetOverflow returns the overflow policy, or OverflowFail if not set.
func (p *PluginConfig) GetOverflow() OverflowPolicy {
	if p == nil || p.Overflow == OverflowUnknown {
		return OverflowFail
	}

	return p.Overflow
}

// GetExecTimeout returns the exec plugin timeout, or the default if not set.
func (p *PluginConfig) GetExecTimeout() time.Duration {
	if p == nil || p.ExecTimeout == 0 {
		return DefaultExecTimeout
	}

	return p.ExecTimeout.ToDuration()
}

// IsBuiltin returns whether the compiled-in plugin is registered.
func (p *PluginConfig) IsBuiltin() bool {
	return p != nil && p.Builtin != nil && *p.Builtin
}

// GetExtensions returns the extension to plugin type mapping. Configured
// entries are merged over the defaults; keys are lower-cased and always carry
// a leading dot.
func (p *PluginConfig) GetExtensions() map[string]PluginType {
	exts := make(map[string]PluginType, len(defaultExtensions))

	for ext, pt := range defaultExtensions {
		exts[ext] = pt
	}

	if p == nil {
		return exts
	}

	for ext, pt := range p.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		exts[ext] = pt
	}

	return exts
}

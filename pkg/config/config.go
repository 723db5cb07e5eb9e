package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration for filescan.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Plugins contains plugin discovery and loading settings.
	Plugins *PluginConfig `json:"plugins,omitempty" koanf:"plugins" toml:"plugins,omitempty"`

	// Scan contains traversal and verdict combination settings.
	Scan *ScanConfig `json:"scan,omitempty" koanf:"scan" toml:"scan,omitempty"`

	// Log contains diagnostics settings.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`
}

// ScanConfig contains traversal and combination settings.
type ScanConfig struct {
	// Mode selects how plugin verdicts are combined ("or" or "and").
	// Default: "or"
	Mode ScanMode `json:"mode,omitempty" koanf:"mode" toml:"mode,omitempty"`

	// Negate inverts the combined verdict.
	// Default: false
	Negate *bool `json:"negate,omitempty" koanf:"negate" toml:"negate,omitempty"`

	// Include restricts evaluation to files whose path relative to the scan
	// root matches one of these doublestar patterns. Empty means all files.
	Include []string `json:"include,omitempty" koanf:"include" toml:"include,omitempty"`

	// Exclude skips files and directories whose relative path matches one of
	// these doublestar patterns.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude" toml:"exclude,omitempty"`

	// FollowSymlinks descends into symlinked directories.
	// Default: false
	FollowSymlinks *bool `json:"follow_symlinks,omitempty" koanf:"follow_symlinks" toml:"follow_symlinks,omitempty"`

	// Summary prints a scan summary to stderr after the scan.
	// Default: false
	Summary *bool `json:"summary,omitempty" koanf:"summary" toml:"summary,omitempty"`

	// MetricsFile receives scan metrics in the Prometheus text format after
	// every scan. Empty disables the export.
	MetricsFile string `json:"metrics_file,omitempty" koanf:"metrics_file" toml:"metrics_file,omitempty"`
}

// LogConfig contains diagnostics settings.
type LogConfig struct {
	// Level is the minimum level written ("debug", "info" or "error").
	// Empty means derived from the --debug/--trace flags and the DEBUG env var.
	Level string `json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=error" koanf:"level" toml:"level,omitempty"`

	// File redirects diagnostics from stderr to a file.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`
}

// GetPlugins returns the plugin config, or an empty one if nil.
func (c *Config) GetPlugins() *PluginConfig {
	if c.Plugins == nil {
		c.Plugins = &PluginConfig{}
	}

	return c.Plugins
}

// GetScan returns the scan config, or an empty one if nil.
func (c *Config) GetScan() *ScanConfig {
	if c.Scan == nil {
		c.Scan = &ScanConfig{}
	}

	return c.Scan
}

// GetLog returns the log config, or an empty one if nil.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

// GetMode returns the combination mode, or ScanModeOr if not set.
func (s *ScanConfig) GetMode() ScanMode {
	if s == nil || s.Mode == ScanModeUnknown {
		return ScanModeOr
	}

	return s.Mode
}

// IsNegate returns whether the combined verdict is inverted.
func (s *ScanConfig) IsNegate() bool {
	return s != nil && s.Negate != nil && *s.Negate
}

// IsFollowSymlinks returns whether symlinked directories are descended.
func (s *ScanConfig) IsFollowSymlinks() bool {
	return s != nil && s.FollowSymlinks != nil && *s.FollowSymlinks
}

// IsSummary returns whether a summary is printed after the scan.
func (s *ScanConfig) IsSummary() bool {
	return s != nil && s.Summary != nil && *s.Summary
}

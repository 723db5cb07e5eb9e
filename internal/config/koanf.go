// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/filescan/pkg/config"
)

// ErrInvalidPermissions is returned when config file has insecure permissions.
var ErrInvalidPermissions = errors.New("config file has insecure permissions")

const (
	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// GlobalConfigDir is the directory name for global configuration.
	GlobalConfigDir = ".filescan"

	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".filescan"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "filescan.toml"

	// EnvPrefix is the prefix of environment variables read by the loader.
	EnvPrefix = "FILESCAN_"
)

// Flag names understood by Load. Values are taken as they come from pflag.
const (
	FlagPluginDir      = "plugin-dir"
	FlagAnd            = "and"
	FlagOr             = "or"
	FlagNegate         = "negate"
	FlagInclude        = "include"
	FlagExclude        = "exclude"
	FlagFollowSymlinks = "follow-symlinks"
	FlagSummary        = "summary"
	FlagMetricsFile    = "metrics-file"
	FlagLogLevel       = "log-level"
	FlagLogFile        = "log-file"
)

// listKeys are config keys whose env values are comma separated lists.
var listKeys = map[string]bool{
	"scan.include": true,
	"scan.exclude": true,
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (FILESCAN_*)
// 3. Project Config (.filescan/config.toml or filescan.toml)
// 4. Global Config (~/.filescan/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k           *koanf.Koanf
	homeDir     string
	workDir     string
	projectFile string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithDirs(homeDir, workDir)
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) (*KoanfLoader, error) {
	return &KoanfLoader{
		k:       koanf.New("."),
		homeDir: homeDir,
		workDir: workDir,
	}, nil
}

// Load loads configuration from all sources with precedence and validates
// the result.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	// 1. Defaults
	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// 2. Global config: ~/.filescan/config.toml
	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	// 3. Project config: .filescan/config.toml or filescan.toml
	if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	// 4. Environment variables: FILESCAN_*
	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: l.envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 5. CLI flags
	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(l.flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	decoderConfig := CustomDecoderConfig()
	decoderConfig.Result = &cfg

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: decoderConfig,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Security check: reject world-writable files
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform transforms environment variable names to config paths. Only
// the first underscore separates the section from the key, so keys keep
// their own underscores:
// FILESCAN_PLUGINS_MAX_PLUGINS → plugins.max_plugins
//
// Variables without a section (FILESCAN_DEBUG) are dropped.
func (*KoanfLoader) envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, name, ok := strings.Cut(key, "_")
	if !ok || section == "" || name == "" {
		return "", nil
	}

	key = section + "." + name

	if listKeys[key] {
		return key, splitList(value)
	}

	return key, value
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}

	return result
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// ProjectConfigPath returns the path to the primary project configuration file.
func (l *KoanfLoader) ProjectConfigPath() string {
	return filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile)
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		l.ProjectConfigPath(),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// SetProjectConfig makes the loader read path as the project config instead
// of searching the working directory. A missing file then fails Load.
func (l *KoanfLoader) SetProjectConfig(path string) {
	l.projectFile = path
}

// findProjectConfig checks for project config files and returns the first found.
func (l *KoanfLoader) findProjectConfig() string {
	if l.projectFile != "" {
		return l.projectFile
	}

	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// Sources returns the configuration files that Load reads, in precedence
// order, skipping files that do not exist.
func (l *KoanfLoader) Sources() []string {
	var sources []string

	if fileExists(l.GlobalConfigPath()) {
		sources = append(sources, l.GlobalConfigPath())
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		sources = append(sources, projectPath)
	}

	return sources
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// flagsToConfig converts CLI flags to a configuration map. Only flags the
// user changed should be passed, so unset flags never shadow file values.
func (*KoanfLoader) flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		switch key {
		case FlagPluginDir:
			if s, ok := value.(string); ok {
				ensureMapKey(result, "plugins")["directory"] = s
			}

		case FlagAnd, FlagOr:
			if b, ok := value.(bool); ok && b {
				ensureMapKey(result, "scan")["mode"] = key
			}

		case FlagNegate:
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "scan")["negate"] = b
			}

		case FlagInclude, FlagExclude:
			if list, ok := value.([]string); ok {
				ensureMapKey(result, "scan")[key] = list
			}

		case FlagFollowSymlinks:
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "scan")["follow_symlinks"] = b
			}

		case FlagSummary:
			if b, ok := value.(bool); ok {
				ensureMapKey(result, "scan")["summary"] = b
			}

		case FlagMetricsFile:
			if s, ok := value.(string); ok {
				ensureMapKey(result, "scan")["metrics_file"] = s
			}

		case FlagLogLevel:
			if s, ok := value.(string); ok {
				ensureMapKey(result, "log")["level"] = s
			}

		case FlagLogFile:
			if s, ok := value.(string); ok {
				ensureMapKey(result, "log")["file"] = s
			}
		}
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

// defaultsToMap returns the built-in defaults as a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"plugins": map[string]any{
			"directory":    config.DefaultPluginDirectory,
			"max_plugins":  config.DefaultMaxPlugins,
			"overflow":     config.OverflowFail.String(),
			"exec_timeout": config.DefaultExecTimeout.String(),
			"builtin":      false,
		},
		"scan": map[string]any{
			"mode":            config.ScanModeOr.String(),
			"negate":          false,
			"follow_symlinks": false,
			"summary":         false,
		},
	}
}

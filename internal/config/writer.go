package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/filescan/internal/schema"
	"github.com/smykla-skalski/filescan/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when writing would replace an existing file.
var ErrConfigExists = errors.New("configuration file already exists")

// Encode writes cfg as TOML, preceded by the Taplo schema directive.
func Encode(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	var buf bytes.Buffer

	buf.WriteString(schema.SchemaDirective())
	buf.WriteString("\n\n")

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

// WriteFile writes cfg to path, creating parent directories. An existing
// file is only replaced when force is set.
func WriteFile(path string, cfg *config.Config, force bool) error {
	if !force && fileExists(path) {
		return errors.Wrapf(ErrConfigExists, "%s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}

// DefaultConfig returns a fully populated configuration with the built-in
// defaults, suitable as a starting point for a config file.
func DefaultConfig() *config.Config {
	negate, follow, summary, builtin := false, false, false, false

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Plugins: &config.PluginConfig{
			Directory:   config.DefaultPluginDirectory,
			MaxPlugins:  config.DefaultMaxPlugins,
			Overflow:    config.OverflowFail,
			ExecTimeout: config.Duration(config.DefaultExecTimeout),
			Builtin:     &builtin,
		},
		Scan: &config.ScanConfig{
			Mode:           config.ScanModeOr,
			Negate:         &negate,
			FollowSymlinks: &follow,
			Summary:        &summary,
		},
	}
}

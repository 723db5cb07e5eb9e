package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/pkg/config"
	"github.com/smykla-skalski/filescan/pkg/logger"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCapacity is returned when the plugin limit is not positive.
	ErrInvalidCapacity = errors.New("invalid plugin capacity")

	// ErrInvalidPattern is returned when an include or exclude glob is malformed.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrUnsupportedVersion is returned for config versions newer than this build.
	ErrUnsupportedVersion = errors.New("unsupported config version")
)

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(validationErrors, errors.Wrapf(
			ErrUnsupportedVersion,
			"version %d, latest supported is %d",
			cfg.Version,
			config.CurrentConfigVersion,
		))
	}

	validationErrors = append(validationErrors, v.validatePlugins(cfg.Plugins)...)
	validationErrors = append(validationErrors, v.validateScan(cfg.Scan)...)
	validationErrors = append(validationErrors, v.validateLog(cfg.Log)...)

	if len(validationErrors) > 0 {
		return errors.Mark(
			errors.Wrapf(
				errors.Join(validationErrors...),
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			ErrInvalidConfig,
		)
	}

	return nil
}

func (*Validator) validatePlugins(p *config.PluginConfig) []error {
	if p == nil {
		return nil
	}

	var errs []error

	if p.MaxPlugins < 0 {
		errs = append(errs, errors.Wrapf(
			ErrInvalidCapacity,
			"plugins.max_plugins must be positive, got %d",
			p.MaxPlugins,
		))
	}

	if p.Overflow != config.OverflowUnknown && !p.Overflow.IsAOverflowPolicy() {
		errs = append(errs, errors.Wrapf(
			config.ErrInvalidOverflowPolicy,
			"plugins.overflow: %s",
			p.Overflow,
		))
	}

	for ext, pt := range p.Extensions {
		if ext == "" || ext == "." {
			errs = append(errs, errors.Wrap(ErrEmptyValue, "plugins.extensions key"))
		}

		if !pt.IsLoader() {
			errs = append(errs, errors.Wrapf(
				config.ErrInvalidPluginType,
				"plugins.extensions.%s: %s",
				ext,
				pt,
			))
		}
	}

	return errs
}

func (*Validator) validateScan(s *config.ScanConfig) []error {
	if s == nil {
		return nil
	}

	var errs []error

	if s.Mode != config.ScanModeUnknown && !s.Mode.IsAScanMode() {
		errs = append(errs, errors.Wrapf(config.ErrInvalidScanMode, "scan.mode: %s", s.Mode))
	}

	errs = append(errs, validatePatterns("scan.include", s.Include)...)
	errs = append(errs, validatePatterns("scan.exclude", s.Exclude)...)

	return errs
}

func (*Validator) validateLog(l *config.LogConfig) []error {
	if l == nil || l.Level == "" {
		return nil
	}

	if _, err := logger.ParseLevel(l.Level); err != nil {
		return []error{errors.Wrap(err, "log.level")}
	}

	return nil
}

func validatePatterns(key string, patterns []string) []error {
	var errs []error

	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, errors.Wrapf(ErrInvalidPattern, "%s[%d]: %q", key, i, pattern))
		}
	}

	return errs
}

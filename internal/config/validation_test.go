package config

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/filescan/pkg/config"
)

var _ = Describe("Validator", func() {
	var validator *Validator

	BeforeEach(func() {
		validator = NewValidator()
	})

	It("should return error when config is nil", func() {
		err := validator.Validate(nil)
		Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("config is nil"))
	})

	It("should pass validation for empty config", func() {
		Expect(validator.Validate(&config.Config{})).To(Succeed())
	})

	It("should pass validation for the default config", func() {
		Expect(validator.Validate(DefaultConfig())).To(Succeed())
	})

	DescribeTable("invalid configs",
		func(cfg *config.Config, cause error) {
			err := validator.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())

			if cause != nil {
				Expect(errors.Is(err, cause)).To(BeTrue())
			}
		},
		Entry("future version",
			&config.Config{Version: config.CurrentConfigVersion + 1}, ErrUnsupportedVersion),
		Entry("negative capacity",
			&config.Config{Plugins: &config.PluginConfig{MaxPlugins: -3}}, ErrInvalidCapacity),
		Entry("unknown overflow policy",
			&config.Config{Plugins: &config.PluginConfig{Overflow: config.OverflowPolicy(7)}}, config.ErrInvalidOverflowPolicy),
		Entry("unknown plugin type",
			&config.Config{Plugins: &config.PluginConfig{
				Extensions: map[string]config.PluginType{"wasm": config.PluginTypeBuiltin},
			}}, config.ErrInvalidPluginType),
		Entry("empty extension",
			&config.Config{Plugins: &config.PluginConfig{
				Extensions: map[string]config.PluginType{"": config.PluginTypeExec},
			}}, ErrEmptyValue),
		Entry("unknown mode",
			&config.Config{Scan: &config.ScanConfig{Mode: config.ScanMode(9)}}, config.ErrInvalidScanMode),
		Entry("malformed include",
			&config.Config{Scan: &config.ScanConfig{Include: []string{"[a-"}}}, ErrInvalidPattern),
		Entry("malformed exclude",
			&config.Config{Scan: &config.ScanConfig{Exclude: []string{"ok/**", "{x"}}}, ErrInvalidPattern),
		Entry("unknown log level",
			&config.Config{Log: &config.LogConfig{Level: "loud"}}, nil),
	)

	It("should report every failure", func() {
		err := validator.Validate(&config.Config{
			Plugins: &config.PluginConfig{MaxPlugins: -1},
			Scan:    &config.ScanConfig{Mode: config.ScanMode(9)},
		})

		Expect(err).To(MatchError(ContainSubstring("validation failed with 2 error(s)")))
		Expect(errors.Is(err, ErrInvalidCapacity)).To(BeTrue())
		Expect(errors.Is(err, config.ErrInvalidScanMode)).To(BeTrue())
	})
})

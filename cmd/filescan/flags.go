package main

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	internalconfig "github.com/smykla-skalski/filescan/internal/config"
	"github.com/smykla-skalski/filescan/internal/options"
	"github.com/smykla-skalski/filescan/internal/plugin"
	"github.com/smykla-skalski/filescan/pkg/config"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

// ErrOptionConflict is returned when a plugin declares an option that is
// already a flag of filescan itself.
var ErrOptionConflict = errors.New("plugin option conflicts with a built-in flag")

// reservedFlags are added by cobra at execution time and cannot be looked up
// before.
var reservedFlags = map[string]bool{
	"help": true,
}

// globalFlags are the persistent flags of every command.
type globalFlags struct {
	pluginDir  string
	configPath string
	debug      bool
	trace      bool
	logLevel   string
	logFile    string
	noColor    bool

	// help is only bound by the prescan, cobra owns --help otherwise.
	help bool
}

// scanFlags are the local flags of the root (scan) command.
type scanFlags struct {
	and            bool
	or             bool
	negate         bool
	include        []string
	exclude        []string
	followSymlinks bool
	summary        bool
	metricsFile    string
	version        bool
}

func bindGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.StringVarP(
		&g.pluginDir,
		internalconfig.FlagPluginDir,
		"P",
		config.DefaultPluginDirectory,
		"Directory plugins are loaded from",
	)
	fs.StringVarP(
		&g.configPath,
		"config",
		"c",
		"",
		"Path to project configuration file (default: .filescan/config.toml or filescan.toml)",
	)
	fs.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&g.trace, "trace", false, "Enable trace logging")
	fs.StringVar(
		&g.logLevel,
		internalconfig.FlagLogLevel,
		"",
		"Minimum log level (debug, info, error)",
	)
	fs.StringVar(&g.logFile, internalconfig.FlagLogFile, "", "Write logs to this file instead of stderr")
	fs.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
}

func bindScanFlags(fs *pflag.FlagSet, s *scanFlags) {
	fs.BoolVarP(&s.and, internalconfig.FlagAnd, "A", false, "Match files for which every used plugin matches")
	fs.BoolVarP(&s.or, internalconfig.FlagOr, "O", false, "Match files for which any used plugin matches (default)")
	fs.BoolVarP(&s.negate, internalconfig.FlagNegate, "N", false, "Invert the combined verdict")
	fs.StringSliceVar(
		&s.include,
		internalconfig.FlagInclude,
		nil,
		"Only evaluate files matching these glob patterns (e.g. '**/*.conf')",
	)
	fs.StringSliceVar(
		&s.exclude,
		internalconfig.FlagExclude,
		nil,
		"Skip files and directories matching these glob patterns",
	)
	fs.BoolVar(
		&s.followSymlinks,
		internalconfig.FlagFollowSymlinks,
		false,
		"Descend into symlinked directories below the scan root",
	)
	fs.BoolVar(&s.summary, internalconfig.FlagSummary, false, "Print a scan summary to stderr")
	fs.StringVar(
		&s.metricsFile,
		internalconfig.FlagMetricsFile,
		"",
		"Write scan metrics in Prometheus text format to this file",
	)
	fs.BoolVarP(&s.version, "version", "v", false, "Print version information")
}

// prescan parses the built-in flags before plugins are loaded. Unknown flags
// are plugin options and are skipped, parse errors are left for cobra to
// report. The result holds the changed flags in the shape the config loader
// expects.
func (a *app) prescan(args []string) map[string]any {
	fs := pflag.NewFlagSet("prescan", pflag.ContinueOnError)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.SetOutput(io.Discard)

	bindGlobalFlags(fs, &a.global)
	bindScanFlags(fs, &a.scan)
	fs.BoolVarP(&a.global.help, "help", "h", false, "")

	_ = fs.Parse(args)

	return changedFlags(fs)
}

// changedFlags returns the changed built-in flags of fs that feed the
// configuration, keyed by flag name.
func changedFlags(fs *pflag.FlagSet) map[string]any {
	result := make(map[string]any)

	fs.Visit(func(f *pflag.Flag) {
		var (
			value any
			err   error
		)

		switch f.Name {
		case internalconfig.FlagPluginDir,
			internalconfig.FlagLogLevel,
			internalconfig.FlagLogFile,
			internalconfig.FlagMetricsFile:
			value, err = fs.GetString(f.Name)
		case internalconfig.FlagAnd,
			internalconfig.FlagOr,
			internalconfig.FlagNegate,
			internalconfig.FlagFollowSymlinks,
			internalconfig.FlagSummary:
			value, err = fs.GetBool(f.Name)
		case internalconfig.FlagInclude, internalconfig.FlagExclude:
			value, err = fs.GetStringSlice(f.Name)
		default:
			return
		}

		if err == nil {
			result[f.Name] = value
		}
	})

	return result
}

// registerPluginFlags adds one long flag per plugin option. Options taking a
// value become string flags, the others boolean switches.
func registerPluginFlags(cmd *cobra.Command, specs []pluginapi.OptionSpec) error {
	flags := cmd.Flags()

	for _, spec := range specs {
		if reservedFlags[spec.Name] ||
			flags.Lookup(spec.Name) != nil ||
			cmd.PersistentFlags().Lookup(spec.Name) != nil {
			return errors.Wrapf(ErrOptionConflict, "--%s", spec.Name)
		}

		usage := spec.Description
		if usage == "" {
			usage = "Plugin option"
		}

		if spec.TakesValue {
			flags.String(spec.Name, "", usage)
		} else {
			flags.Bool(spec.Name, false, usage)
		}
	}

	return nil
}

// suppliedOptions collects the plugin options given on the command line, in
// declaration order, into a frozen table. A boolean option only counts when
// it is true.
func suppliedOptions(flags *pflag.FlagSet, specs []pluginapi.OptionSpec) (*options.Table, error) {
	table := options.New()

	for _, spec := range specs {
		f := flags.Lookup(spec.Name)
		if f == nil || !f.Changed {
			continue
		}

		value := f.Value.String()

		if !spec.TakesValue {
			if value != "true" {
				continue
			}

			value = ""
		}

		if err := table.Set(plugin.LongOptionPrefix+spec.Name, value); err != nil {
			return nil, err
		}
	}

	table.Freeze()

	return table, nil
}

// applyParsedFlags reloads the configuration from the flags as cobra parsed
// them. The prescan cannot tell a plugin option's value from a flag, so
// "--ipv6-addr -N" sets negate there but not here.
func (a *app) applyParsedFlags(fs *pflag.FlagSet) error {
	cfg, err := a.loader.Load(changedFlags(fs))
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	a.cfg = cfg

	return nil
}

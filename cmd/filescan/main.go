// Package main provides the CLI entry point for filescan.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/filescan/internal/config"
	"github.com/smykla-skalski/filescan/internal/plugin"
	"github.com/smykla-skalski/filescan/pkg/config"
	"github.com/smykla-skalski/filescan/pkg/ipv6search"
	"github.com/smykla-skalski/filescan/pkg/logger"
)

const (
	// ExitCodeOK indicates the command completed. A scan without matches
	// still completes.
	ExitCodeOK = 0

	// ExitCodeFailure indicates the command could not run: bad arguments,
	// configuration or plugin directory errors.
	ExitCodeFailure = 1

	// ExitCodeCrash indicates an unexpected panic/crash occurred.
	ExitCodeCrash = 3
)

// Command annotations declaring what a command needs before it runs.
const (
	annotationNeeds = "filescan/needs"
	needsConfig     = "config"
	needsPlugins    = "plugins"
)

// builtinSource labels the compiled-in plugin in listings and logs.
const builtinSource = "builtin/ipv6search"

func main() {
	os.Exit(mainWithExitCode(os.Args[1:], os.Stdout, os.Stderr))
}

func mainWithExitCode(args []string, stdout, stderr io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			handlePanic(stderr, r)

			exitCode = ExitCodeCrash
		}
	}()

	a := newApp(stdout, stderr)
	defer a.close()

	if err := a.execute(context.Background(), args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return ExitCodeFailure
	}

	return ExitCodeOK
}

// handlePanic reports a recovered panic. The stack trace is only printed
// when debugging is enabled.
func handlePanic(w io.Writer, recovered any) {
	fmt.Fprintf(w, "panic: %v\n", recovered)

	if logger.DebugEnvSet() {
		fmt.Fprintf(w, "%s\n", debug.Stack())
	}
}

// app carries the state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	global globalFlags
	scan   scanFlags

	loader   *internalconfig.KoanfLoader
	cfg      *config.Config
	log      logger.Logger
	closeLog func() error
	registry *plugin.Registry
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		log:      logger.NewNoOpLogger(),
		closeLog: func() error { return nil },
	}
}

// execute runs the command line args. Configuration and plugins are
// prepared before cobra parses the command line, because plugin options
// become flags of the root command.
func (a *app) execute(ctx context.Context, args []string) error {
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := a.prepare(ctx, root, args); err != nil {
		return err
	}

	return root.ExecuteContext(ctx)
}

// prepare loads what the target command needs. An args slice cobra cannot
// resolve is left for cobra to report.
func (a *app) prepare(ctx context.Context, root *cobra.Command, args []string) error {
	target, _, err := root.Find(args)
	if err != nil {
		return nil //nolint:nilerr // reported by Execute
	}

	needs := target.Annotations[annotationNeeds]
	if needs == "" {
		return nil
	}

	pre := a.prescan(args)

	if target == root && a.scan.version {
		return nil
	}

	if err := a.loadConfig(pre); err != nil {
		return err
	}

	if needs != needsPlugins {
		return nil
	}

	if err := a.loadPlugins(ctx); err != nil {
		if a.global.help {
			a.log.Error("plugin options are missing from help", "error", err)

			return nil
		}

		return err
	}

	if target == root {
		return registerPluginFlags(root, a.registry.Options())
	}

	return nil
}

func (a *app) loadConfig(flags map[string]any) error {
	loader, err := internalconfig.NewKoanfLoader()
	if err != nil {
		return errors.Wrap(err, "failed to create config loader")
	}

	if a.global.configPath != "" {
		loader.SetProjectConfig(a.global.configPath)
	}

	cfg, err := loader.Load(flags)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	a.loader = loader
	a.cfg = cfg

	return a.setupLogger()
}

func (a *app) setupLogger() error {
	level := logger.LevelFromFlags(a.global.debug, a.global.trace || logger.DebugEnvSet())

	logCfg := a.cfg.GetLog()
	if logCfg.Level != "" {
		parsed, err := logger.ParseLevel(logCfg.Level)
		if err != nil {
			return errors.Wrap(err, "invalid log level")
		}

		level = parsed
	}

	if logCfg.File == "" {
		log := logger.New(a.stderr, level)
		a.log, a.closeLog = log, log.Close

		return nil
	}

	log, err := logger.NewFileLogger(logCfg.File, level)
	if err != nil {
		return errors.Wrapf(err, "failed to open log file %s", logCfg.File)
	}

	a.log, a.closeLog = log, log.Close

	return nil
}

func (a *app) loadPlugins(ctx context.Context) error {
	pluginsCfg := a.cfg.GetPlugins()

	a.registry = plugin.NewRegistryFromConfig(a.log, pluginsCfg)

	if pluginsCfg.IsBuiltin() {
		if err := a.addBuiltin(); err != nil {
			return err
		}
	}

	if err := a.registry.LoadAll(ctx, pluginsCfg.GetDirectory()); err != nil {
		return errors.Wrap(err, "failed to load plugins")
	}

	a.log.Debug("plugins loaded",
		"directory", pluginsCfg.GetDirectory(),
		"count", a.registry.Len(),
	)

	return nil
}

// addBuiltin registers the IPv6 search plugin linked into this binary.
func (a *app) addBuiltin() error {
	p, err := plugin.NewInProcess(ipv6search.New(a.log.With("plugin", builtinSource)))
	if err != nil {
		return errors.Wrap(err, "failed to start built-in plugin")
	}

	return errors.Wrap(a.registry.Add(p, builtinSource), "failed to register built-in plugin")
}

// close releases plugins and the log file. It runs on every exit path,
// panics included.
func (a *app) close() {
	if a.registry != nil {
		if err := a.registry.Teardown(); err != nil {
			a.log.Error("plugin teardown failed", "error", err)
		}
	}

	if err := a.closeLog(); err != nil {
		fmt.Fprintf(a.stderr, "failed to close log: %v\n", err)
	}
}

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/filescan/internal/color"
	"github.com/smykla-skalski/filescan/internal/engine"
	"github.com/smykla-skalski/filescan/internal/metrics"
	"github.com/smykla-skalski/filescan/internal/report"
	"github.com/smykla-skalski/filescan/internal/walker"
)

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "filescan [flags] DIRECTORY",
		Short: "Find files matching plugin predicates",
		Long: `filescan walks a directory tree and reports every regular file that
matches the predicates of its plugins.

Plugins are loaded from the plugin directory (-P) and contribute their own
long options. A plugin is used when at least one of its options is given.
Verdicts of the used plugins are combined with OR (default) or AND, and
the result can be inverted with --negate.

Examples:
  filescan --ipv6-addr 2001:db8::1 /etc
  filescan -A -N --ipv6-addr ::1 --include '**/*.conf' /srv
  filescan -P ~/.filescan/plugins --summary .`,
		Args:              a.scanArgs,
		RunE:              a.runScan,
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Annotations:       map[string]string{annotationNeeds: needsPlugins},
	}

	bindGlobalFlags(root.PersistentFlags(), &a.global)
	bindScanFlags(root.Flags(), &a.scan)
	root.MarkFlagsMutuallyExclusive("and", "or")

	root.AddCommand(
		a.newPluginsCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(root),
	)

	return root
}

// scanArgs requires the scan directory unless only the version is asked for.
func (a *app) scanArgs(cmd *cobra.Command, args []string) error {
	if a.scan.version {
		return nil
	}

	return cobra.ExactArgs(1)(cmd, args)
}

func (a *app) runScan(cmd *cobra.Command, args []string) error {
	if a.scan.version {
		fmt.Fprintf(cmd.OutOrStdout(), "filescan %s\n", version)

		return nil
	}

	if err := a.applyParsedFlags(cmd.Flags()); err != nil {
		return err
	}

	supplied, err := suppliedOptions(cmd.Flags(), a.registry.Options())
	if err != nil {
		return errors.Wrap(err, "failed to collect plugin options")
	}

	a.registry.Seal()

	log := a.log.With("run", uuid.NewString())

	scanCfg := a.cfg.GetScan()
	policy := engine.PolicyFromConfig(scanCfg)
	bindings := engine.Plan(a.registry.Handles(), supplied)

	if len(bindings) == 0 {
		log.Info("no plugin options given, every file gets the same verdict",
			"policy", policy.String(),
		)
	}

	w, err := walker.New(args[0],
		walker.WithInclude(scanCfg.Include...),
		walker.WithExclude(scanCfg.Exclude...),
		walker.WithFollowSymlinks(scanCfg.IsFollowSymlinks()),
		walker.WithLogger(log),
	)
	if err != nil {
		return errors.Wrap(err, "cannot scan")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Debug("scan started",
		"root", args[0],
		"policy", policy.String(),
		"plugins", len(bindings),
	)

	collector := metrics.NewCollector()

	eng := engine.New(bindings, policy,
		engine.WithOutput(cmd.OutOrStdout()),
		engine.WithLogger(log),
		engine.WithObserver(collector),
	)

	result, scanErr := eng.Scan(ctx, w.Files(ctx))

	log.Debug("scan finished",
		"files", result.Files,
		"matched", result.Matched,
		"elapsed", result.Elapsed.String(),
	)

	if scanCfg.IsSummary() {
		theme := color.NewTheme(color.Enabled(cmd.ErrOrStderr(), a.global.noColor))

		fmt.Fprint(cmd.ErrOrStderr(), report.RenderSummary(report.Scan{
			Policy:  policy,
			Plugins: len(bindings),
			Result:  result,
			Walk:    w.Stats(),
		}, theme))
	}

	if scanCfg.MetricsFile != "" {
		collector.ObserveScan(result, w.Stats(), len(bindings))

		if err := collector.WriteTextfile(scanCfg.MetricsFile); err != nil {
			return errors.CombineErrors(scanErr, err)
		}
	}

	return scanErr
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/filescan/internal/color"
	"github.com/smykla-skalski/filescan/internal/report"
)

func (a *app) newPluginsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List loaded plugins",
		Long: `List the plugins found in the plugin directory, with the options each
one contributes.

Examples:
  filescan plugins
  filescan plugins -P ./plugins -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}

			theme := color.NewTheme(color.Enabled(cmd.OutOrStdout(), a.global.noColor))

			return report.WritePlugins(
				cmd.OutOrStdout(),
				report.PluginInfos(a.registry.Handles()),
				format,
				theme,
			)
		},
		Annotations: map[string]string{annotationNeeds: needsPlugins},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(report.FormatTable), "Output format (table, json, yaml)")

	return cmd
}

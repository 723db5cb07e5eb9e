package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/filescan/internal/config"
	"github.com/smykla-skalski/filescan/internal/schema"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
		Long: `Inspect and create filescan configuration files.

Configuration is merged from, lowest to highest precedence:
  defaults, ~/.filescan/config.toml, .filescan/config.toml (or filescan.toml),
  FILESCAN_* environment variables and command-line flags.`,
	}

	cmd.AddCommand(
		a.newConfigShowCmd(),
		a.newConfigInitCmd(),
		newConfigSchemaCmd(),
	)

	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging every source, as TOML.

Examples:
  filescan config show
  FILESCAN_SCAN_MODE=and filescan config show
  filescan config show --sources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sources {
				files := a.loader.Sources()
				if len(files) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No configuration files found, using defaults")

					return nil
				}

				for _, path := range files {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}

				return nil
			}

			return internalconfig.Encode(cmd.OutOrStdout(), a.cfg)
		},
		Annotations: map[string]string{annotationNeeds: needsConfig},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "List the configuration files that were read")

	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Long: `Write a configuration file populated with the built-in defaults.

By default, creates a project configuration file (.filescan/config.toml).
Use --global or -g to create ~/.filescan/config.toml instead.
Use --force to overwrite an existing file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader, err := internalconfig.NewKoanfLoader()
			if err != nil {
				return errors.Wrap(err, "failed to create config loader")
			}

			path := loader.ProjectConfigPath()
			if global {
				path = loader.GlobalConfigPath()
			}

			if a.global.configPath != "" {
				path = a.global.configPath
			}

			if err := internalconfig.WriteFile(path, internalconfig.DefaultConfig(), force); err != nil {
				if errors.Is(err, internalconfig.ErrConfigExists) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Use --force to overwrite")
				}

				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Initialize global configuration")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration file")

	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	var (
		output  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate JSON Schema for configuration",
		Long: `Generate a JSON Schema (Draft 2020-12) for the filescan configuration format.

The schema is derived from the Go config types and includes type constraints,
enum values, and descriptions for all configuration options.

Examples:
  filescan config schema                           # Print to stdout
  filescan config schema --output schema.json      # Write to file
  filescan config schema --compact                 # Compact output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.GenerateJSON(!compact)
			if err != nil {
				return errors.Wrap(err, "generating schema")
			}

			if output != "" {
				const filePerms = 0o644

				if writeErr := os.WriteFile(output, data, filePerms); writeErr != nil {
					return errors.Wrap(writeErr, "writing schema file")
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", output)

				return nil
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write schema to file instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "Output compact JSON without indentation")

	return cmd
}

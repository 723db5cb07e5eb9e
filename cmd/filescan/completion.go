package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// newCompletionCmd generates completion for the built-in commands and flags.
// Plugin options depend on the plugin directory and are not completed.
func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for filescan.

To load completions:

Bash:

  $ source <(filescan completion bash)

Zsh:

  $ filescan completion zsh > "${fpath[1]}/_filescan"

Fish:

  $ filescan completion fish | source

PowerShell:

  PS> filescan completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var err error

			switch args[0] {
			case "bash":
				err = root.GenBashCompletion(out)
			case "zsh":
				err = root.GenZshCompletion(out)
			case "fish":
				err = root.GenFishCompletion(out, true)
			case "powershell":
				err = root.GenPowerShellCompletionWithDesc(out)
			}

			return errors.Wrap(err, "failed to generate completion script")
		},
	}
}

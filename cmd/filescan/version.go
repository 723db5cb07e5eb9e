package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const shortCommitLength = 12

// Build information set by ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type buildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Module   string `json:"module,omitempty"`
	Modified bool   `json:"modified,omitempty"`
}

// currentBuild fills in the commit from the VCS stamp when ldflags left it
// unset.
func currentBuild() buildInfo {
	b := buildInfo{
		Version:  version,
		Commit:   commit,
		Date:     date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}

	b.Module = info.Main.Path

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "unknown" && s.Value != "" {
				b.Commit = s.Value[:min(shortCommitLength, len(s.Value))]
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}

	return b
}

func (b buildInfo) write(w io.Writer) {
	fmt.Fprintf(w, "filescan %s\n", b.Version)
	fmt.Fprintf(w, "  commit:    %s\n", b.Commit)
	fmt.Fprintf(w, "  built:     %s\n", b.Date)
	fmt.Fprintf(w, "  go:        %s\n", b.Go)
	fmt.Fprintf(w, "  os/arch:   %s\n", b.Platform)

	if b.Module != "" {
		fmt.Fprintf(w, "  module:    %s\n", b.Module)
	}

	if b.Modified {
		fmt.Fprintln(w, "  modified:  true")
	}
}

func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version and build information for filescan.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := currentBuild()

			switch output {
			case "text":
				b.write(cmd.OutOrStdout())

				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return errors.Wrap(enc.Encode(b), "failed to encode version")
			default:
				return errors.Newf("unknown output format %q (valid: text, json)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")

	return cmd
}

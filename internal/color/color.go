// Package color decides whether filescan output is styled and holds the
// styles used by listings and scan summaries.
package color

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Enabled reports whether output written to w should be styled.
//
// Styling needs a terminal, and is turned off by --no-color, NO_COLOR (any
// value, see https://no-color.org), CLICOLOR=0 and TERM=dumb.
// CLICOLOR_FORCE with a value other than "0" styles output even when w is
// not a terminal; the opt-outs still win.
func Enabled(w io.Writer, noColor bool) bool {
	if noColor || optedOut() {
		return false
	}

	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}

	return isTerminal(w)
}

func optedOut() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	return os.Getenv("CLICOLOR") == "0" || os.Getenv("TERM") == "dumb"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })

	return ok && term.IsTerminal(int(f.Fd()))
}

// Theme holds the styles of report output. The zero Theme renders text
// unchanged.
type Theme struct {
	Match   lipgloss.Style // matched file counts
	Failure lipgloss.Style // plugin error counts
	Title   lipgloss.Style
	Key     lipgloss.Style // row labels and plugin names
	Dim     lipgloss.Style // table borders, empty listings
}

// NewTheme returns the styled theme, or the zero Theme when styled is false.
func NewTheme(styled bool) Theme {
	if !styled {
		return Theme{}
	}

	return Theme{
		Match:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Key:     lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

package report

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smykla-skalski/filescan/internal/color"
)

// RenderPluginTable builds a table of plugins using tablewriter. Options are
// listed one per line within their cell.
func RenderPluginTable(infos []PluginInfo, theme color.Theme) string {
	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenRows: tw.On,
				},
			},
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Build()),
	)

	t.Header([]string{"Plugin", "Kind", "Options", "Purpose", "Author"})

	for _, info := range infos {
		opts := make([]string, 0, len(info.Options))
		for _, spec := range info.Options {
			opts = append(opts, OptionUsage(spec))
		}

		_ = t.Append([]string{
			theme.Key.Render(info.Name),
			info.Kind,
			strings.Join(opts, "\n"),
			info.Purpose,
			info.Author,
		})
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// padToWidth right-pads s with spaces so its display width reaches w.
// ANSI escape codes are excluded from width calculation.
func padToWidth(s string, w int) string {
	visible := displayWidth(s)
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

func displayWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Dim.Render(ch))
	}

	return s
}

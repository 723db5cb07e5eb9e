package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/smykla-skalski/filescan/internal/color"
	"github.com/smykla-skalski/filescan/internal/engine"
	"github.com/smykla-skalski/filescan/internal/walker"
)

const durationDisplayUnits = 2

// Scan collects what a summary reports about a finished scan.
type Scan struct {
	Policy  engine.Policy
	Plugins int
	Result  engine.Summary
	Walk    walker.Stats
}

// RenderSummary returns a multi-line, aligned summary of a scan.
func RenderSummary(s Scan, theme color.Theme) string {
	rows := [][2]string{
		{"Scanned", fmt.Sprintf("%s file(s), %s",
			humanize.Comma(int64(s.Result.Files)), humanize.Bytes(uint64(max(s.Walk.Bytes, 0))))},
		{"Matched", theme.Match.Render(humanize.Comma(int64(s.Result.Matched)))},
		{"Plugins", fmt.Sprintf("%d used, policy %s", s.Plugins, s.Policy)},
		{"Errors", styleIf(fmt.Sprintf("%d plugin error(s), %d unreadable entries",
			s.Result.PluginErrors, s.Walk.Errors), s.Result.PluginErrors+s.Walk.Errors > 0, theme)},
		{"Excluded", humanize.Comma(int64(s.Walk.Excluded))},
		{"Elapsed", FormatDuration(s.Result.Elapsed)},
	}

	labelW := 0
	for _, row := range rows {
		labelW = max(labelW, displayWidth(row[0]))
	}

	var b strings.Builder

	b.WriteString(theme.Title.Render("Scan summary"))
	b.WriteByte('\n')

	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(padToWidth(theme.Key.Render(row[0]), labelW))
		b.WriteString("  ")
		b.WriteString(row[1])
		b.WriteByte('\n')
	}

	return b.String()
}

// FormatDuration renders d with its two most significant units.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}

	return durafmt.Parse(d.Truncate(time.Millisecond)).LimitFirstN(durationDisplayUnits).String()
}

func styleIf(text string, active bool, theme color.Theme) string {
	if active {
		return theme.Failure.Render(text)
	}

	return text
}

// Package report renders plugin listings and scan summaries for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/filescan/internal/color"
	"github.com/smykla-skalski/filescan/internal/plugin"
	pluginapi "github.com/smykla-skalski/filescan/pkg/plugin"
)

// ErrUnknownFormat is returned for an output format that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a listing is written.
type Format string

const (
	// FormatTable renders a bordered table for humans.
	FormatTable Format = "table"

	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q, must be table, json or yaml", s)
	}
}

// PluginInfo describes a loaded plugin.
type PluginInfo struct {
	Name    string                 `json:"name"              yaml:"name"`
	Kind    string                 `json:"kind"              yaml:"kind"`
	Source  string                 `json:"source"            yaml:"source"`
	Purpose string                 `json:"purpose"           yaml:"purpose"`
	Author  string                 `json:"author,omitempty"  yaml:"author,omitempty"`
	Options []pluginapi.OptionSpec `json:"options"           yaml:"options"`
}

// PluginInfos describes handles in load order.
func PluginInfos(handles []*plugin.Handle) []PluginInfo {
	infos := make([]PluginInfo, 0, len(handles))

	for _, h := range handles {
		desc := h.Descriptor()

		infos = append(infos, PluginInfo{
			Name:    h.Name(),
			Kind:    h.Kind.String(),
			Source:  h.Source,
			Purpose: desc.Purpose,
			Author:  desc.Author,
			Options: desc.Options,
		})
	}

	return infos
}

// WritePlugins writes infos to w in the given format.
func WritePlugins(w io.Writer, infos []PluginInfo, format Format, theme color.Theme) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal plugins to JSON")
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return errors.Wrap(err, "failed to write plugins")

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(infos); err != nil {
			return errors.Wrap(err, "failed to marshal plugins to YAML")
		}

		return errors.Wrap(enc.Close(), "failed to write plugins")

	case FormatTable:
		if len(infos) == 0 {
			_, err := fmt.Fprintln(w, theme.Dim.Render("No plugins loaded"))

			return errors.Wrap(err, "failed to write plugins")
		}

		_, err := fmt.Fprintln(w, RenderPluginTable(infos, theme))

		return errors.Wrap(err, "failed to write plugins")

	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// OptionUsage renders an option the way it is typed on the command line.
func OptionUsage(spec pluginapi.OptionSpec) string {
	if spec.TakesValue {
		return "--" + spec.Name + "=VALUE"
	}

	return "--" + spec.Name
}

package config

import (
	"github.com/invopop/jsonschema"
)

// durationPattern matches strings accepted by time.ParseDuration.
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// JSONSchema returns the JSON Schema for the Duration type.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     durationPattern,
		Description: "Duration in Go syntax",
		Examples:    []any{"5s", "1m30s"},
	}
}

// JSONSchema returns the JSON Schema for the ScanMode type.
func (ScanMode) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{ScanModeOr.String(), ScanModeAnd.String()},
		Description: "How plugin verdicts are combined",
	}
}

// JSONSchema returns the JSON Schema for the OverflowPolicy type.
func (OverflowPolicy) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{OverflowFail.String(), OverflowTruncate.String()},
		Description: "What happens when more plugins are found than max_plugins allows",
	}
}

// JSONSchema returns the JSON Schema for the PluginType type.
func (PluginType) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{PluginTypeGo.String(), PluginTypeExec.String()},
		Description: "Loader used for plugin files",
	}
}

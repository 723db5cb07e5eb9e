// Package schema generates the JSON Schema of the filescan configuration
// file, for editor completion and validation of config.toml.
package schema

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/filescan/pkg/config"
)

// SchemaURL is where the published schema of the latest release lives.
const SchemaURL = "https://raw.githubusercontent.com/smykla-skalski/filescan/main/schema/filescan.schema.json"

const draft = "https://json-schema.org/draft/2020-12/schema"

// Generate reflects config.Config into a schema. Objects do not allow
// additional properties, so editors flag misspelled keys.
func Generate() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}

	s := r.Reflect(&config.Config{})
	s.Version = draft
	s.ID = jsonschema.ID(SchemaURL)
	s.Title = "filescan configuration"
	s.Description = "Plugin directory, verdict combination and logging settings for filescan"

	return s
}

// GenerateJSON renders the schema followed by a newline, indented with two
// spaces unless compact output is wanted.
func GenerateJSON(indent bool) ([]byte, error) {
	data, err := json.Marshal(Generate())
	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	if !indent {
		return append(data, '\n'), nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, errors.Wrap(err, "indenting schema JSON")
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// SchemaDirective returns the Taplo comment that points TOML editors at the
// published schema.
func SchemaDirective() string {
	return "#:schema " + SchemaURL
}

package plugin

import (
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

// LongOptionPrefix is the command-line marker in front of every plugin option
// in the supplied options table.
const LongOptionPrefix = "--"

// Supplied is the table of options given on the command line, keyed by the
// option as typed (with LongOptionPrefix).
type Supplied interface {
	Lookup(key string) (string, bool)
}

// Bind reconciles the supplied options with the options a plugin declares.
// Declared options that were not supplied are skipped. The plugin is used when
// at least one of its options was supplied. Bound options follow the
// descriptor order and never include a name the plugin did not declare.
func Bind(desc plugin.Descriptor, supplied Supplied) (bool, []plugin.BoundOption) {
	var bound []plugin.BoundOption

	for _, spec := range desc.Options {
		value, ok := supplied.Lookup(LongOptionPrefix + spec.Name)
		if !ok {
			continue
		}

		bound = append(bound, plugin.BoundOption{Name: spec.Name, Value: value})
	}

	return len(bound) > 0, bound
}

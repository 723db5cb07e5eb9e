// Package plugin provides the public API for filescan plugin authors.
//
// A plugin is a file predicate: given a path and the options the user supplied
// for it, it decides whether the file matches. Plugins can be shipped as:
//   - Go plugins (.so files) exporting Describe and Evaluate symbols
//   - Exec plugins (any executable) speaking JSON over stdin/stdout, see Serve
//
// Example Go plugin:
//
//	package main
//
//	import "github.com/smykla-skalski/filescan/pkg/plugin"
//
//	func Describe() (plugin.Descriptor, error) {
//		return plugin.Descriptor{
//			Purpose: "Match files bigger than a limit",
//			Author:  "Jane Doe",
//			Options: []plugin.OptionSpec{
//				{Name: "min-size", TakesValue: true, Description: "Minimum size in bytes"},
//			},
//		}, nil
//	}
//
//	func Evaluate(path string, opts []plugin.BoundOption) plugin.Verdict {
//		// Implement matching logic
//		return plugin.NoMatch()
//	}
//
//	func main() {}
package plugin

// Plugin is the interface that all plugins must implement.
type Plugin interface {
	// Describe returns the plugin descriptor. It must be side-effect free and
	// return the same descriptor on every call.
	Describe() (Descriptor, error)

	// Evaluate decides whether the file at path matches, given the options
	// bound for this plugin. It must never panic or exit the process.
	Evaluate(path string, opts []BoundOption) Verdict
}

// DescribeFunc is the type of the Describe symbol exported by Go plugins.
type DescribeFunc = func() (Descriptor, error)

// EvaluateFunc is the type of the Evaluate symbol exported by Go plugins.
type EvaluateFunc = func(path string, opts []BoundOption) Verdict

// Descriptor contains plugin metadata and the options the plugin accepts.
type Descriptor struct {
	// Purpose is a human-readable description of what the plugin matches.
	Purpose string `json:"purpose" yaml:"purpose"`

	// Author is the plugin author or organization.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Options is the ordered list of command-line options the plugin
	// understands. Names must be unique within a plugin.
	Options []OptionSpec `json:"options" yaml:"options"`
}

// OptionSpec declares a single long command-line option.
type OptionSpec struct {
	// Name is the option name without the leading "--".
	Name string `json:"name" yaml:"name"`

	// TakesValue reports whether the option requires an argument.
	TakesValue bool `json:"takes_value" yaml:"takes_value"`

	// Description is shown in help output.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// BoundOption is an option the user supplied, bound to a plugin that declared it.
type BoundOption struct {
	// Name is the declared option name without the leading "--".
	Name string `json:"name"`

	// Value is the supplied argument, empty when the option takes no value.
	Value string `json:"value"`
}

// EvaluateRequest is the payload sent to exec plugins on stdin.
type EvaluateRequest struct {
	Path    string        `json:"path"`
	Options []BoundOption `json:"options"`
}

// Option returns the bound option with the given name.
func (r *EvaluateRequest) Option(name string) (BoundOption, bool) {
	return FindOption(r.Options, name)
}

// FindOption returns the option with the given name from opts.
func FindOption(opts []BoundOption, name string) (BoundOption, bool) {
	for _, opt := range opts {
		if opt.Name == name {
			return opt, true
		}
	}

	return BoundOption{}, false
}

// Lookup returns the declared option spec with the given name.
func (d Descriptor) Lookup(name string) (OptionSpec, bool) {
	for _, spec := range d.Options {
		if spec.Name == name {
			return spec, true
		}
	}

	return OptionSpec{}, false
}

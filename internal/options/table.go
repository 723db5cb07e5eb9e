// Package options holds the options supplied on the command line for plugins.
package options

import (
	"github.com/cockroachdb/errors"
)

// ErrFrozen is returned when the table is modified after Freeze.
var ErrFrozen = errors.New("options table is frozen")

// Entry is one supplied option.
type Entry struct {
	// Key is the option as typed, including the leading "--".
	Key string

	// Value is the supplied argument, empty for options without a value.
	Value string
}

// Table is an ordered set of supplied options. It is filled once while the
// command line is parsed and is read-only afterwards.
type Table struct {
	entries []Entry
	index   map[string]int
	frozen  bool
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Set records key with value. Setting a key twice keeps its original
// position and replaces the value.
func (t *Table) Set(key, value string) error {
	if t.frozen {
		return errors.Wrapf(ErrFrozen, "cannot set %s", key)
	}

	if i, ok := t.index[key]; ok {
		t.entries[i].Value = value

		return nil
	}

	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Value: value})

	return nil
}

// Lookup returns the value supplied for key.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}

	i, ok := t.index[key]
	if !ok {
		return "", false
	}

	return t.entries[i].Value, true
}

// Freeze makes the table read-only.
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool {
	return t.frozen
}

// Len returns the number of supplied options.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Entries returns a copy of the supplied options in insertion order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)

	return out
}

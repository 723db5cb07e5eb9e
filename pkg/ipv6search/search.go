// Package ipv6search implements a file predicate plugin that matches files
// containing a given IPv6 address.
//
// The file is read line by line and every line is split into tokens on
// whitespace and common punctuation. A file matches when one of its tokens is
// a valid IPv6 literal written exactly as the address supplied with
// --ipv6-addr. Equivalent spellings ("2001:db8::1" and "2001:0db8::1") do not
// match each other.
package ipv6search

import (
	"bufio"
	"net/netip"
	"os"
	"strings"

	"github.com/smykla-skalski/filescan/pkg/logger"
	"github.com/smykla-skalski/filescan/pkg/plugin"
)

const (
	// OptionName is the only option the plugin declares.
	OptionName = "ipv6-addr"

	// Purpose describes the plugin in listings.
	Purpose = "Search for files containing a specific IPv6 address"

	// Author identifies the plugin maintainers.
	Author = "filescan authors"

	// MaxLineLength is the longest line the plugin reads. Longer lines make
	// the evaluation fail.
	MaxLineLength = 1 << 20

	// separators split a line into candidate tokens.
	separators = " ,;[](){}<>\"'\\|\t\r"
)

// Searcher is the IPv6 search plugin.
type Searcher struct {
	logger logger.Logger
}

var _ plugin.Plugin = (*Searcher)(nil)

// New creates a Searcher. A nil logger disables diagnostics.
func New(log logger.Logger) *Searcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Searcher{logger: log}
}

// Describe returns the plugin descriptor.
func (*Searcher) Describe() (plugin.Descriptor, error) {
	return plugin.Descriptor{
		Purpose: Purpose,
		Author:  Author,
		Options: []plugin.OptionSpec{
			{
				Name:        OptionName,
				TakesValue:  true,
				Description: "Search for files containing the specified IPv6 address",
			},
		},
	}, nil
}

// Evaluate reports whether the file at path contains the address bound to
// --ipv6-addr.
func (s *Searcher) Evaluate(path string, opts []plugin.BoundOption) plugin.Verdict {
	if len(opts) != 1 || opts[0].Name != OptionName {
		return plugin.Errorf(plugin.CodeInvalidOptions, "expected exactly one --%s option", OptionName)
	}

	address := opts[0].Value

	if !IsValidIPv6(address) {
		return plugin.Errorf(plugin.CodeFailure, "invalid IPv6 address: %q", address)
	}

	f, err := os.Open(path)
	if err != nil {
		return plugin.Errorf(plugin.CodeFailure, "failed to open file: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineLength)

	line := 0
	for scanner.Scan() {
		line++

		if ContainsAddress(scanner.Text(), address) {
			s.logger.Debug("found IPv6 address", "path", path, "line", line)

			return plugin.Match()
		}
	}

	if err := scanner.Err(); err != nil {
		return plugin.Errorf(plugin.CodeFailure, "failed to read file: %v", err)
	}

	return plugin.NoMatch()
}

// IsValidIPv6 reports whether s is an IPv6 literal without a zone.
func IsValidIPv6(s string) bool {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return false
	}

	return addr.Is6() && addr.Zone() == ""
}

// ContainsAddress reports whether line holds a token that is a valid IPv6
// literal spelled exactly as address.
func ContainsAddress(line, address string) bool {
	for _, token := range Tokens(line) {
		if token == address && IsValidIPv6(token) {
			return true
		}
	}

	return false
}

// Tokens splits line on the separator characters, dropping empty tokens.
func Tokens(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
}

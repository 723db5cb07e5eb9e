// Command enumerfix rewrites enumer output so parse errors are built with
// cockroachdb/errors. It runs from the go:generate directives next to each
// enum type.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	errorsImport  = `"github.com/cockroachdb/errors"`
	fmtImport     = `"fmt"`
	generatedPerm = 0o644
)

// ErrUsage is returned when no file is given.
var ErrUsage = errors.New("usage: enumerfix <file>...")

var importBlock = regexp.MustCompile(`import \(\n([\s\S]*?)\n\)`)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "enumerfix: %v\n", err)
		os.Exit(1)
	}
}

// run rewrites every named file in place.
func run(files []string) error {
	if len(files) == 0 {
		return ErrUsage
	}

	for _, name := range files {
		if err := rewriteFile(name); err != nil {
			return err
		}
	}

	return nil
}

func rewriteFile(name string) error {
	//nolint:gosec // G304: path comes from the go:generate directive
	src, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}

	if err := os.WriteFile(name, rewrite(src), generatedPerm); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}

	return nil
}

// rewrite swaps fmt.Errorf for errors.Newf and fixes up the imports. fmt is
// kept when String still formats out-of-range values with it.
func rewrite(src []byte) []byte {
	out := strings.ReplaceAll(string(src), "fmt.Errorf", "errors.Newf")

	if usesFmt(out) {
		return []byte(appendImport(out, errorsImport))
	}

	return []byte(swapImport(out, fmtImport, errorsImport))
}

func usesFmt(src string) bool {
	for _, fn := range []string{"fmt.Sprintf", "fmt.Stringer", "fmt.Fprintf", "fmt.Printf"} {
		if strings.Contains(src, fn) {
			return true
		}
	}

	return false
}

// appendImport adds path as the last entry of the import block. Files
// without a block or already importing path are returned as is.
func appendImport(src, path string) string {
	m := importBlock.FindStringSubmatchIndex(src)
	if m == nil {
		return src
	}

	imports := src[m[2]:m[3]]
	if strings.Contains(imports, path) {
		return src
	}

	return src[:m[3]] + "\n\t" + path + src[m[3]:]
}

func swapImport(src, from, to string) string {
	single := "import " + from
	if strings.Contains(src, single) {
		return strings.Replace(src, single, "import "+to, 1)
	}

	return strings.Replace(src, "\t"+from, "\t"+to, 1)
}

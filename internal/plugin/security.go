package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

const maxPanicMessageLen = 200

var (
	// ErrOutsidePluginDir is returned when a plugin candidate resolves, after
	// following symlinks, to a file outside the plugin directory.
	ErrOutsidePluginDir = errors.New("plugin resolves outside the plugin directory")

	// ErrUnsafePath is returned for exec plugin paths containing shell
	// metacharacters.
	ErrUnsafePath = errors.New("unsafe characters in plugin path")
)

// shellMetachars are rejected in exec plugin paths even though plugins are
// started without a shell.
const shellMetachars = ";|&$`\"'<>()"

// panicPathPattern matches absolute paths in panic values.
var panicPathPattern = regexp.MustCompile(`(?:/[\w.-]+)+`)

// ValidatePath checks that the plugin candidate at path stays inside dir once
// symlinks of both are resolved. A symlink in the plugin directory pointing to
// a library elsewhere on disk is rejected.
func ValidatePath(path, dir string) error {
	if path == "" {
		return errors.New("plugin path is empty")
	}

	realDir, err := canonical(dir)
	if err != nil {
		return errors.Wrapf(err, "plugin directory %s", dir)
	}

	realPath, err := canonical(path)
	if err != nil {
		return errors.Wrapf(err, "plugin %s", path)
	}

	rel, err := filepath.Rel(realDir, realPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Wrapf(ErrOutsidePluginDir, "%s -> %s", path, realPath)
	}

	return nil
}

// canonical returns the absolute path with every symlink resolved.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve absolute path")
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(err, "failed to evaluate symlinks")
	}

	return resolved, nil
}

// ValidateMetachars rejects exec plugin paths containing shell metacharacters.
func ValidateMetachars(path string) error {
	if i := strings.IndexAny(path, shellMetachars); i >= 0 {
		return errors.Wrapf(ErrUnsafePath, "%q at offset %d", path[i], i)
	}

	return nil
}

// panicMessage renders a recovered panic value for diagnostics, with file
// paths masked and the length capped.
func panicMessage(r any) string {
	msg := panicPathPattern.ReplaceAllString(fmt.Sprint(r), "[path]")

	if len(msg) > maxPanicMessageLen {
		msg = msg[:maxPanicMessageLen] + "..."
	}

	return msg
}

// expandHome replaces a leading "~" with the user's home directory. Paths
// of the form "~user" are returned unchanged.
func expandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~")
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != filepath.Separator) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	return filepath.Join(home, rest), nil
}

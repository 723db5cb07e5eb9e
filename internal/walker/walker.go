// Package walker lists the regular files under a scan root.
package walker

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/filescan/pkg/logger"
)

var (
	// ErrNotDirectory is returned when the scan root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidPattern is returned for malformed include or exclude globs.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Stats counts what a walk produced and skipped.
type Stats struct {
	// Files is the number of regular files yielded.
	Files int

	// Bytes is the total size of the yielded files.
	Bytes int64

	// Excluded is the number of entries filtered out by include/exclude globs.
	Excluded int

	// Errors is the number of entries that could not be read or stat'ed.
	Errors int
}

// Walker produces the regular files under a root directory.
type Walker struct {
	root           string
	include        []string
	exclude        []string
	followSymlinks bool
	logger         logger.Logger
	stats          Stats
}

// Option configures a Walker.
type Option func(*Walker)

// WithInclude restricts the walk to files whose slash-separated path relative
// to the root matches one of patterns.
func WithInclude(patterns ...string) Option {
	return func(w *Walker) {
		w.include = append(w.include, patterns...)
	}
}

// WithExclude skips files and directories whose relative path matches one of
// patterns.
func WithExclude(patterns ...string) Option {
	return func(w *Walker) {
		w.exclude = append(w.exclude, patterns...)
	}
}

// WithFollowSymlinks makes the walker descend into symlinked directories.
// Symlinks to regular files are always followed.
func WithFollowSymlinks(follow bool) Option {
	return func(w *Walker) {
		w.followSymlinks = follow
	}
}

// WithLogger sets the logger that receives skipped-entry diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(w *Walker) {
		if log != nil {
			w.logger = log
		}
	}
}

// New creates a walker for root. It fails when root is not an existing
// directory or a pattern is malformed.
func New(root string, opts ...Option) (*Walker, error) {
	w := &Walker{
		root:   root,
		logger: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(w)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "scan root %s", root)
	}

	if !info.IsDir() {
		return nil, errors.Wrapf(ErrNotDirectory, "scan root %s", root)
	}

	if err := ValidatePatterns(w.include); err != nil {
		return nil, errors.Wrap(err, "include")
	}

	if err := ValidatePatterns(w.exclude); err != nil {
		return nil, errors.Wrap(err, "exclude")
	}

	return w, nil
}

// ValidatePatterns checks that every pattern is a valid doublestar glob.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Wrapf(ErrInvalidPattern, "%q", p)
		}
	}

	return nil
}

// Stats returns the counters of the walk so far.
func (w *Walker) Stats() Stats {
	return w.stats
}

// Files returns the regular files under the root, depth first, in lexical
// order within each directory. Unreadable entries are logged and skipped.
// The sequence stops early when ctx is cancelled.
func (w *Walker) Files(ctx context.Context) iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]bool)

		if resolved, err := filepath.EvalSymlinks(w.root); err == nil {
			visited[resolved] = true
		}

		w.walkDir(ctx, w.root, visited, yield)
	}
}

// walkDir returns false when the consumer stopped the iteration.
func (w *Walker) walkDir(
	ctx context.Context,
	dir string,
	visited map[string]bool,
	yield func(string) bool,
) bool {
	if ctx.Err() != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.skip(dir, err)

		// os.ReadDir may return the entries read before the error
		if len(entries) == 0 {
			return true
		}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if !w.visit(ctx, path, entry, visited, yield) {
			return false
		}
	}

	return true
}

func (w *Walker) visit(
	ctx context.Context,
	path string,
	entry fs.DirEntry,
	visited map[string]bool,
	yield func(string) bool,
) bool {
	rel := w.relative(path)

	if w.matchAny(w.exclude, rel) {
		w.stats.Excluded++
		w.logger.Debug("excluded", "path", path)

		return true
	}

	isLink := entry.Type()&fs.ModeSymlink != 0

	// stat follows symlinks
	info, err := os.Stat(path)
	if err != nil {
		w.skip(path, err)

		return true
	}

	switch {
	case info.IsDir():
		if isLink && !w.followSymlinks {
			w.logger.Debug("not following symlinked directory", "path", path)

			return true
		}

		return w.descend(ctx, path, visited, yield)

	case info.Mode().IsRegular():
		if len(w.include) > 0 && !w.matchAny(w.include, rel) {
			w.stats.Excluded++

			return true
		}

		w.stats.Files++
		w.stats.Bytes += info.Size()

		return yield(path)

	default:
		w.logger.Debug("skipping non-regular file", "path", path, "mode", info.Mode().String())

		return true
	}
}

// descend walks a subdirectory once, so symlink cycles terminate.
func (w *Walker) descend(
	ctx context.Context,
	dir string,
	visited map[string]bool,
	yield func(string) bool,
) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.skip(dir, err)

		return true
	}

	if visited[resolved] {
		w.logger.Debug("directory already visited", "path", dir)

		return true
	}

	visited[resolved] = true

	return w.walkDir(ctx, dir, visited, yield)
}

func (w *Walker) skip(path string, err error) {
	w.stats.Errors++
	w.logger.Error("skipping unreadable entry", "path", path, "error", err)
}

func (w *Walker) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}

func (*Walker) matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}

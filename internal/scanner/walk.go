package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// skipDirs are directory names whose subtrees are never visited: dependency
// caches and version-control metadata.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
}

// Options tunes a scan. The zero value scans sequentially with no extra
// excludes and no logging.
type Options struct {
	// Workers is the number of files read and scanned concurrently. Values
	// below 2 scan sequentially.
	Workers int

	// Exclude holds doublestar patterns matched against slash-separated
	// relative paths. A matching directory is skipped with its subtree; a
	// matching file is not visited.
	Exclude []string

	// SkipFiles holds exact slash-separated relative paths of files that
	// are neither counted nor scanned, such as artifacts of an earlier run
	// written into the tree.
	SkipFiles []string

	// Logger receives debug lines for skipped directories and unreadable
	// files. Nil means discard.
	Logger hclog.Logger
}

// fileEntry is one file queued for scanning.
type fileEntry struct {
	path    string
	relPath string

	// regular is false for pipes, sockets, devices and dangling links,
	// which are counted but never opened.
	regular bool
}

// Scan walks root and returns the finalized aggregate result. Only a failure
// to access or enumerate root itself is returned as an error; unreadable
// files count as empty and unreadable subdirectories are skipped.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	if root == "" {
		return nil, errors.New("root path is required")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	// WalkDir does not follow a symlinked root.
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	entries, err := collectFiles(ctx, walkRoot, opts, logger)
	if err != nil {
		return nil, err
	}

	partials, err := scanFiles(ctx, entries, opts.Workers, logger)
	if err != nil {
		return nil, err
	}

	result := NewResult(filepath.Base(absRoot))
	for _, p := range partials {
		result.Merge(p)
	}
	result.Finalize()

	logger.Debug("scan complete", "root", absRoot, "files", result.TotalFiles)
	return result, nil
}

// collectFiles walks root depth-first in lexical order and returns every
// file that is not under a skipped or excluded directory.
func collectFiles(ctx context.Context, root string, opts Options, logger hclog.Logger) ([]fileEntry, error) {
	var entries []fileEntry
	exclude := opts.Exclude
	skipFiles := make(map[string]struct{}, len(opts.SkipFiles))
	for _, rel := range opts.SkipFiles {
		skipFiles[rel] = struct{}{}
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return fmt.Errorf("enumerating scan root: %w", err)
			}
			logger.Debug("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip {
				logger.Trace("skipping directory", "path", relPath)
				return fs.SkipDir
			}
			if matchesAny(exclude, relPath) {
				logger.Debug("excluding directory", "path", relPath)
				return fs.SkipDir
			}
			return nil
		}

		// A symlink to a directory is neither walked nor counted.
		regular := d.Type().IsRegular()
		if d.Type()&fs.ModeSymlink != 0 {
			target, statErr := os.Stat(path)
			if statErr == nil && target.IsDir() {
				return nil
			}
			regular = statErr == nil && target.Mode().IsRegular()
		}
		if _, skip := skipFiles[relPath]; skip {
			logger.Debug("skipping own artifact", "path", relPath)
			return nil
		}
		if matchesAny(exclude, relPath) {
			logger.Debug("excluding file", "path", relPath)
			return nil
		}

		entries = append(entries, fileEntry{path: path, relPath: relPath, regular: regular})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return entries, nil
}

// scanFiles classifies and scans every entry into its own partial result.
// The returned slice is index-aligned with entries, so folding it in order is
// independent of how many workers ran.
func scanFiles(ctx context.Context, entries []fileEntry, workers int, logger hclog.Logger) ([]*Result, error) {
	partials := make([]*Result, len(entries))

	if workers < 2 {
		for i, e := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			partials[i] = scanFile(e, logger)
		}
		return partials, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = scanFile(e, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

// scanFile builds the partial result for a single file.
func scanFile(e fileEntry, logger hclog.Logger) *Result {
	var content string
	if e.regular {
		text, err := readText(e.path)
		if err != nil {
			logger.Debug("treating unreadable file as empty", "path", e.relPath, "error", err)
		}
		content = text
	} else {
		logger.Debug("treating non-regular file as empty", "path", e.relPath)
	}

	partial := NewResult("")
	partial.AddFile(e.relPath, Classify(e.relPath), ScanContent(content))
	return partial
}

func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidateExcludes reports the first malformed exclude pattern.
func ValidateExcludes(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

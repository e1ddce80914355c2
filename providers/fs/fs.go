// Package fs registers files from a directory tree as static resources.
// Files are discovered once at registration time via glob patterns and read
// lazily on each resources/read request, so content stays fresh without
// re-registration.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/beamkit/beam"
)

// maxFileSize caps how much of a file a single read returns.
const maxFileSize = 1 << 20

// Register walks root with the given glob patterns and registers every match
// as a static "file://" resource on reg. The URI path is the file's path
// relative to root, so "docs/readme.md" becomes "file://docs/readme.md".
func Register(reg *beam.ResourceRegistry, root string, patterns []string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("fs: invalid root %q: %w", root, err)
	}
	fsys := os.DirFS(absRoot)

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return fmt.Errorf("fs: bad pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(filepath.Join(absRoot, m))
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)

	for _, rel := range paths {
		uri := "file://" + filepath.ToSlash(rel)
		full := filepath.Join(absRoot, rel)
		mimeType := detectMimeType(rel)
		name := filepath.Base(rel)

		handler := func(ctx context.Context, uri string, params map[string]string) (*beam.ResourceContent, error) {
			text, err := readCapped(full)
			if err != nil {
				return nil, fmt.Errorf("fs: read %s: %w", full, err)
			}
			return &beam.ResourceContent{Text: text}, nil
		}
		if err := reg.Register(uri, name, "File "+rel, mimeType, handler); err != nil {
			return err
		}
	}
	return nil
}

// readCapped reads at most maxFileSize bytes of the file.
func readCapped(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, io.LimitReader(f, maxFileSize)); err != nil {
		return "", err
	}
	return b.String(), nil
}

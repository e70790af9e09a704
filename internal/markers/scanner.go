// Package markers provides scanning of test files for marker directives
// and cross-referencing against the configured marker registry.
package markers

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bebsworthy/testconf/internal/debug"
)

// DirectivePrefix introduces a marker directive in a test file.
// Tests tag themselves with a comment of the form:
//
//	//testconf:marker slow,requires_docker
const DirectivePrefix = "//testconf:marker"

// directiveRe extracts the comma-separated marker list from a directive line
var directiveRe = regexp.MustCompile(`^//testconf:marker\s+([a-zA-Z0-9_,\s]+)$`)

// Usage records a single marker reference in a test file
type Usage struct {
	// File is the slash-separated path relative to the scan root
	File string
	// Line is the 1-based line number of the directive
	Line int
	// Name is the referenced marker name
	Name string
}

// Scanner walks a test suite and collects marker usages
type Scanner struct {
	root     string
	excludes []string
}

// NewScanner creates a scanner rooted at the given directory. Exclude
// patterns follow the configuration's excludeDirs semantics: relative
// doublestar globs matched against directory paths.
func NewScanner(root string, excludeDirs []string) *Scanner {
	excludes := make([]string, 0, len(excludeDirs))
	for _, dir := range excludeDirs {
		excludes = append(excludes, filepath.ToSlash(dir))
	}
	return &Scanner{
		root:     root,
		excludes: excludes,
	}
}

// Scan walks the suite tree and builds an index of marker usages
func (s *Scanner) Scan() (*Index, error) {
	debug.LogSection("Marker Scan")
	debug.Log("Scanning %s with %d exclude patterns", s.root, len(s.excludes))

	idx := newIndex()
	filesScanned := 0

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if s.excluded(rel) {
				debug.Log("Skipping excluded dir: %s", rel)
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}

		filesScanned++
		return s.scanFile(path, rel, idx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	debug.Log("Scanned %d test files, found %d marker usages", filesScanned, len(idx.usages))
	return idx, nil
}

// excluded reports whether a relative directory path matches any
// configured exclusion pattern
func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.excludes {
		// A pattern like notebooks/** should also skip the notebooks
		// dir itself so the walk prunes early.
		base := strings.TrimSuffix(pattern, "/**")
		if matched, err := doublestar.Match(base, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// scanFile extracts marker directives from a single test file
func (s *Scanner) scanFile(path, rel string, idx *Index) error {
	// #nosec G304 - path comes from the directory walk under the scan root
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, DirectivePrefix) {
			continue
		}

		m := directiveRe.FindStringSubmatch(line)
		if m == nil {
			return fmt.Errorf("%s:%d: malformed marker directive %q", rel, lineNo, line)
		}

		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			idx.add(Usage{File: rel, Line: lineNo, Name: name})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", rel, err)
	}

	return nil
}

// Package options provides helpers for composing and checking test-runner
// invocation options.
package options

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// mutuallyExclusive lists flag groups that must not appear together in a
// single invocation
var mutuallyExclusive = [][]string{
	{"--verbose", "--quiet"},
	{"--capture", "--no-capture"},
	{"--failfast", "--keep-going"},
}

// Name returns the flag name of an option, stripping any inline value
func Name(opt string) string {
	if i := strings.IndexByte(opt, '='); i >= 0 {
		return opt[:i]
	}
	return opt
}

// Split parses a shell-style option line into individual options
func Split(line string) ([]string, error) {
	opts, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse options %q: %w", line, err)
	}
	return opts, nil
}

// Join renders options as a single shell-quoted line
func Join(opts []string) string {
	return shellquote.Join(opts...)
}

// Merge prepends the configured default options to user-supplied ones.
// Defaults come first so that runners honoring last-flag-wins let the
// user override them.
func Merge(defaults, extra []string) []string {
	if len(defaults) == 0 && len(extra) == 0 {
		return nil
	}

	merged := make([]string, 0, len(defaults)+len(extra))
	merged = append(merged, defaults...)
	merged = append(merged, extra...)
	return merged
}

// CheckConflicts reports duplicate flags and mutually-exclusive pairs in
// an option list
func CheckConflicts(opts []string) error {
	seen := make(map[string]string, len(opts))
	for _, opt := range opts {
		name := Name(opt)
		if !strings.HasPrefix(name, "-") {
			continue
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("duplicate flag %s (%q and %q)", name, prev, opt)
		}
		seen[name] = opt
	}

	for _, group := range mutuallyExclusive {
		var present []string
		for _, name := range group {
			if _, ok := seen[name]; ok {
				present = append(present, name)
			}
		}
		if len(present) > 1 {
			return fmt.Errorf("conflicting flags: %s", strings.Join(present, " and "))
		}
	}

	return nil
}

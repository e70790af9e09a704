// Package config provides configuration validation utilities
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bebsworthy/testconf/internal/markers"
	"github.com/bebsworthy/testconf/internal/options"
	"github.com/bebsworthy/testconf/pkg/config"
)

// Validator provides enhanced validation for configurations
type Validator struct {
	// CheckDirs indicates whether to verify exclude dirs exist on disk
	CheckDirs bool

	// AllowMissingDirs lists exclusion entries permitted to be absent,
	// e.g. directories pending removal
	AllowMissingDirs []string
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		CheckDirs: true,
	}
}

// Validate performs comprehensive validation on a configuration. The
// root is the project directory exclusion paths are resolved against.
func (v *Validator) Validate(root string, cfg *config.Config) error {
	// Structural validation is already done by config.Validate()
	if err := cfg.Validate(); err != nil {
		return err
	}

	for i, dir := range cfg.ExcludeDirs {
		if err := v.validateExcludeDir(root, dir); err != nil {
			return fmt.Errorf("exclude dir %d (%q): %w", i, dir, err)
		}
	}

	if err := options.CheckConflicts(cfg.DefaultOptions); err != nil {
		return fmt.Errorf("default options: %w", err)
	}

	return nil
}

// ValidateSuite cross-references the scanned marker usages against the
// registry. Tests referencing undeclared markers fail validation.
func (v *Validator) ValidateSuite(cfg *config.Config, idx *markers.Index) error {
	undeclared := idx.Undeclared(cfg)
	if len(undeclared) == 0 {
		return nil
	}

	refs := make([]string, 0, len(undeclared))
	for _, u := range undeclared {
		refs = append(refs, fmt.Sprintf("%s:%d: %s", u.File, u.Line, u.Name))
	}
	return fmt.Errorf("undeclared markers in use:\n  %s", strings.Join(refs, "\n  "))
}

// Warnings reports suite conditions that do not fail validation:
// deprecated markers still in use and declared markers never referenced.
func (v *Validator) Warnings(cfg *config.Config, idx *markers.Index) []string {
	var warnings []string

	for _, u := range idx.Deprecated(cfg) {
		warnings = append(warnings,
			fmt.Sprintf("%s:%d references deprecated marker %q", u.File, u.Line, u.Name))
	}

	for _, name := range idx.Unused(cfg) {
		if m := cfg.FindMarker(name); m != nil && m.Deprecated {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("marker %q is declared but never used", name))
	}

	return warnings
}

// validateExcludeDir checks that an exclusion entry matches something on
// disk, unless it is explicitly allowed to be absent
func (v *Validator) validateExcludeDir(root, dir string) error {
	if !v.CheckDirs {
		return nil
	}

	if v.isAllowedMissing(dir) {
		return nil
	}

	pattern := filepath.ToSlash(dir)

	// Plain paths are cheaper to stat than to glob
	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			return fmt.Errorf("path does not exist under %s", root)
		}
		return nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("pattern matches nothing under %s", root)
	}

	return nil
}

// isAllowedMissing checks if an exclusion entry is in the allow-missing list
func (v *Validator) isAllowedMissing(dir string) bool {
	for _, allowed := range v.AllowMissingDirs {
		if allowed == dir {
			return true
		}
	}
	return false
}

// SuggestFixes provides suggestions for common configuration errors
func (v *Validator) SuggestFixes(err error) []string {
	errStr := err.Error()
	suggestions := []string{}

	if strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "matches nothing") {
		suggestions = append(suggestions,
			"Remove the exclusion if the directory is gone for good",
			"Add the entry to the allow-missing list if its removal is still pending",
		)
	}

	if strings.Contains(errStr, "undeclared markers") {
		suggestions = append(suggestions,
			"Declare the marker in the markers section with a description",
			"Fix the directive if the marker name is a typo",
		)
	}

	if strings.Contains(errStr, "duplicate flag") || strings.Contains(errStr, "conflicting flags") {
		suggestions = append(suggestions,
			"Keep a single entry per flag in defaultOptions",
			"Pick one side of mutually-exclusive flags (e.g. --verbose vs --quiet)",
		)
	}

	if strings.Contains(errStr, "description is required") {
		suggestions = append(suggestions,
			"Every marker needs a human-readable description",
		)
	}

	if strings.Contains(errStr, "newer than supported version") {
		suggestions = append(suggestions,
			fmt.Sprintf("Upgrade testconf, or set the config version to %s", CurrentSchemaVersion),
		)
	}

	return suggestions
}

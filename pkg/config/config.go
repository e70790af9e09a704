// Package config provides the core configuration types and validation logic for testconf.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config represents the main configuration structure for testconf
type Config struct {
	Version        string    `json:"version"`
	ExcludeDirs    []string  `json:"excludeDirs,omitempty"`
	DefaultOptions []string  `json:"defaultOptions,omitempty"`
	Markers        []*Marker `json:"markers"`
}

// Marker defines a named tag that tests reference to declare
// infrastructure requirements or runtime characteristics
type Marker struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// markerNameRe restricts marker names to identifier-shaped strings,
// since tests reference them verbatim in directives
var markerNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate performs validation on the Config
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if len(c.Markers) == 0 && len(c.ExcludeDirs) == 0 && len(c.DefaultOptions) == 0 {
		return fmt.Errorf("at least one marker, exclude dir, or default option is required")
	}

	for i, dir := range c.ExcludeDirs {
		if err := validateExcludeDir(dir); err != nil {
			return fmt.Errorf("exclude dir %d (%q): %w", i, dir, err)
		}
	}

	for i, opt := range c.DefaultOptions {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("default option %d is empty", i)
		}
	}

	seen := make(map[string]bool, len(c.Markers))
	for i, m := range c.Markers {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("marker %d: %w", i, err)
		}
		if seen[m.Name] {
			return fmt.Errorf("marker %d: duplicate marker name %q", i, m.Name)
		}
		seen[m.Name] = true
	}

	return nil
}

// Validate performs validation on the Marker
func (m *Marker) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("marker name is required")
	}

	if !markerNameRe.MatchString(m.Name) {
		return fmt.Errorf("invalid marker name %q: must be identifier-shaped", m.Name)
	}

	if strings.TrimSpace(m.Description) == "" {
		return fmt.Errorf("marker %q: description is required", m.Name)
	}

	return nil
}

// validateExcludeDir checks that an exclusion entry is a valid relative
// path pattern the discovery walk can match against
func validateExcludeDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("path is required")
	}

	if filepath.IsAbs(dir) {
		return fmt.Errorf("absolute paths are not allowed")
	}

	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return fmt.Errorf("directory traversal is not allowed")
		}
	}

	if !doublestar.ValidatePattern(filepath.ToSlash(dir)) {
		return fmt.Errorf("invalid glob pattern")
	}

	return nil
}

// FindMarker returns the marker with the given name, or nil if not declared
func (c *Config) FindMarker(name string) *Marker {
	for _, m := range c.Markers {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MarkerNames returns the declared marker names in registry order
func (c *Config) MarkerNames() []string {
	names := make([]string, 0, len(c.Markers))
	for _, m := range c.Markers {
		names = append(names, m.Name)
	}
	return names
}

// stripComments removes full-line // comments so config authors can
// annotate entries. Inline comments are not supported; a line is either
// a comment or content.
func stripComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}

// LoadConfig loads a configuration from JSON data
func LoadConfig(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(stripComments(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// SaveConfig serializes a configuration to JSON
func SaveConfig(config *Config) ([]byte, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	return data, nil
}

// Clone creates a deep copy of the Config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := &Config{
		Version: c.Version,
	}

	if c.ExcludeDirs != nil {
		clone.ExcludeDirs = make([]string, len(c.ExcludeDirs))
		copy(clone.ExcludeDirs, c.ExcludeDirs)
	}

	if c.DefaultOptions != nil {
		clone.DefaultOptions = make([]string, len(c.DefaultOptions))
		copy(clone.DefaultOptions, c.DefaultOptions)
	}

	if c.Markers != nil {
		clone.Markers = make([]*Marker, len(c.Markers))
		for i, m := range c.Markers {
			if m != nil {
				clone.Markers[i] = m.Clone()
			}
		}
	}

	return clone
}

// Clone creates a deep copy of the Marker
func (m *Marker) Clone() *Marker {
	if m == nil {
		return nil
	}

	return &Marker{
		Name:        m.Name,
		Description: m.Description,
		Deprecated:  m.Deprecated,
	}
}

// Package config provides schema versioning for testconf configurations
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bebsworthy/testconf/internal/debug"
	pkgconfig "github.com/bebsworthy/testconf/pkg/config"
)

// CurrentSchemaVersion is the current configuration schema version
const CurrentSchemaVersion = "1.0"

// MigrationFunc migrates a configuration from one version to the next
type MigrationFunc func(cfg *pkgconfig.Config) (*pkgconfig.Config, error)

// SchemaVersioner handles configuration schema versioning and migration
type SchemaVersioner struct {
	// Map of "from->to" version transition to migration function
	migrations map[string]MigrationFunc
}

// NewSchemaVersioner creates a new schema versioner
func NewSchemaVersioner() *SchemaVersioner {
	return &SchemaVersioner{
		migrations: make(map[string]MigrationFunc),
	}
}

// RegisterMigration registers a migration function for a version transition
func (sv *SchemaVersioner) RegisterMigration(fromVersion, toVersion string, fn MigrationFunc) {
	sv.migrations[fromVersion+"->"+toVersion] = fn
}

// ValidateVersion checks if a configuration version is supported
func (sv *SchemaVersioner) ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("configuration version is required")
	}

	major, minor, err := parseVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	currentMajor, currentMinor, _ := parseVersion(CurrentSchemaVersion)

	if major > currentMajor || (major == currentMajor && minor > currentMinor) {
		return fmt.Errorf("configuration version %s is newer than supported version %s", version, CurrentSchemaVersion)
	}

	return nil
}

// MigrateConfig migrates a configuration to the current schema version
func (sv *SchemaVersioner) MigrateConfig(cfg *pkgconfig.Config) (*pkgconfig.Config, error) {
	if cfg.Version == CurrentSchemaVersion {
		return cfg, nil
	}

	debug.LogSection("Schema Migration")
	debug.Log("Migrating config from %s to %s", cfg.Version, CurrentSchemaVersion)

	result := cfg
	for _, step := range migrationPath(cfg.Version, CurrentSchemaVersion) {
		fn, exists := sv.migrations[step.from+"->"+step.to]
		if !exists {
			debug.Log("No migration registered for %s to %s, bumping version", step.from, step.to)
			result.Version = step.to
			continue
		}

		migrated, err := fn(result)
		if err != nil {
			return nil, fmt.Errorf("migration from %s to %s failed: %w", step.from, step.to, err)
		}
		migrated.Version = step.to
		result = migrated
	}

	return result, nil
}

type migrationStep struct {
	from, to string
}

// migrationPath builds the linear chain of version transitions between
// two schema versions
func migrationPath(from, to string) []migrationStep {
	fromMajor, fromMinor, err := parseVersion(from)
	if err != nil {
		return nil
	}
	toMajor, toMinor, err := parseVersion(to)
	if err != nil {
		return nil
	}

	var steps []migrationStep
	major, minor := fromMajor, fromMinor
	prev := from

	for major < toMajor || (major == toMajor && minor < toMinor) {
		if minor < 9 {
			minor++
		} else {
			major++
			minor = 0
		}
		next := fmt.Sprintf("%d.%d", major, minor)
		steps = append(steps, migrationStep{from: prev, to: next})
		prev = next
	}

	return steps
}

// parseVersion parses a version string into major and minor components
func parseVersion(version string) (int, int, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("version must be in format X.Y")
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid major version: %w", err)
	}

	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minor version: %w", err)
	}

	return major, minor, nil
}

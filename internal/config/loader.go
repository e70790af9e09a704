// Package config provides configuration loading and management for testconf.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bebsworthy/testconf/internal/debug"
	"github.com/bebsworthy/testconf/pkg/config"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = ".testconf.json"

	// ConfigEnvVar is the environment variable to specify custom config path
	ConfigEnvVar = "TESTCONF_CONFIG"
)

// Loader handles locating and loading configuration files
type Loader struct {
	// SearchPaths contains the paths to search for configuration files
	SearchPaths []string

	versioner *SchemaVersioner
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		SearchPaths: getDefaultSearchPaths(),
		versioner:   NewSchemaVersioner(),
	}
}

// Load attempts to load configuration from various sources
func (l *Loader) Load() (*config.Config, error) {
	path, err := l.FindConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := l.loadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigPath locates the configuration file without loading it.
// The environment variable override wins over the search paths.
func (l *Loader) FindConfigPath() (string, error) {
	debug.LogSection("Configuration Loading")

	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		debug.Log("Using config from environment variable %s: %s", ConfigEnvVar, envPath)
		return envPath, nil
	}

	debug.Log("Searching for config in default paths: %v", l.SearchPaths)
	for _, searchPath := range l.SearchPaths {
		configPath := filepath.Join(searchPath, ConfigFileName)
		debug.Log("Checking path: %s", configPath)
		if _, err := os.Stat(configPath); err == nil {
			debug.Log("Found config at: %s", configPath)
			return configPath, nil
		}
	}

	return "", fmt.Errorf("no configuration file found in search paths: %v", l.SearchPaths)
}

// LoadFromPath loads configuration from a specific file path
func (l *Loader) LoadFromPath(path string) (*config.Config, error) {
	return l.loadFromPath(path)
}

// loadFromPath loads and validates configuration from a file
func (l *Loader) loadFromPath(path string) (*config.Config, error) {
	debug.Log("Loading config from file: %s", path)

	// #nosec G304 - path is validated by caller (LoadFromPath checks file existence)
	file, err := os.Open(path)
	if err != nil {
		debug.LogError(err, "opening config file")
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Best effort cleanup

	data, err := io.ReadAll(file)
	if err != nil {
		debug.LogError(err, "reading config file")
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	debug.Log("Config file size: %d bytes", len(data))
	cfg, err := config.LoadConfig(data)
	if err != nil {
		debug.LogError(err, "parsing config")
		return nil, err
	}

	if err := l.versioner.ValidateVersion(cfg.Version); err != nil {
		debug.LogError(err, "checking schema version")
		return nil, err
	}

	cfg, err = l.versioner.MigrateConfig(cfg)
	if err != nil {
		debug.LogError(err, "migrating config")
		return nil, err
	}

	debug.LogConfig(path, len(cfg.Markers), len(cfg.ExcludeDirs), len(cfg.DefaultOptions))

	return cfg, nil
}

// getDefaultSearchPaths returns the default paths to search for configuration
func getDefaultSearchPaths() []string {
	paths := []string{}

	// Current working directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)

		// Walk up the directory tree to find root of project
		dir := cwd
		for {
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}

			// Check for common project root indicators
			if _, err := os.Stat(filepath.Join(parent, ".git")); err == nil {
				paths = append(paths, parent)
				break
			}
			if _, err := os.Stat(filepath.Join(parent, "go.mod")); err == nil {
				paths = append(paths, parent)
				break
			}
			if _, err := os.Stat(filepath.Join(parent, "package.json")); err == nil {
				paths = append(paths, parent)
				break
			}

			dir = parent
		}
	}

	// Home directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}

	return paths
}

// ValidateConfigFile validates a configuration file without the schema
// version handling a full load performs
func ValidateConfigFile(path string) error {
	// #nosec G304 - path is provided by user for validation purposes
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	_, err = config.LoadConfig(data)
	return err
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bebsworthy/testconf/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Version:        "1.0",
		ExcludeDirs:    []string{"vendor", "notebooks"},
		DefaultOptions: []string{"--verbose", "--slowest=10"},
		Markers: []*config.Marker{
			{Name: "slow", Description: "tests that are considered slow"},
		},
	}
}

func writeConfig(t *testing.T, dir, name string, cfg *config.Config) string {
	t.Helper()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	writeConfig(t, tempDir, ConfigFileName, testConfig())

	loader := &Loader{
		SearchPaths: []string{tempDir},
		versioner:   NewSchemaVersioner(),
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if len(cfg.Markers) != 1 {
		t.Errorf("Expected 1 marker, got %d", len(cfg.Markers))
	}
	if len(cfg.ExcludeDirs) != 2 {
		t.Errorf("Expected 2 exclude dirs, got %d", len(cfg.ExcludeDirs))
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	tempDir := t.TempDir()
	path := writeConfig(t, tempDir, "custom.json", testConfig())

	t.Setenv(ConfigEnvVar, path)

	loader := &Loader{
		SearchPaths: []string{t.TempDir()}, // empty dir, env var must win
		versioner:   NewSchemaVersioner(),
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Failed to load config from env path: %v", err)
	}
	if len(cfg.DefaultOptions) != 2 {
		t.Errorf("Expected 2 default options, got %d", len(cfg.DefaultOptions))
	}
}

func TestLoader_NotFound(t *testing.T) {
	loader := &Loader{
		SearchPaths: []string{t.TempDir()},
		versioner:   NewSchemaVersioner(),
	}

	_, err := loader.Load()
	if err == nil {
		t.Fatal("Expected error when no config exists")
	}
	if !strings.Contains(err.Error(), "no configuration file found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoader_LoadFromPath_InvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	loader := NewLoader()
	if _, err := loader.LoadFromPath(path); err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
}

func TestLoader_FutureSchemaVersion(t *testing.T) {
	cfg := testConfig()
	cfg.Version = "99.0"

	tempDir := t.TempDir()
	path := writeConfig(t, tempDir, ConfigFileName, cfg)

	loader := NewLoader()
	_, err := loader.LoadFromPath(path)
	if err == nil {
		t.Fatal("Expected error for future schema version")
	}
	if !strings.Contains(err.Error(), "newer than supported version") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoader_MigratesOldVersion(t *testing.T) {
	cfg := testConfig()
	cfg.Version = "0.9"

	tempDir := t.TempDir()
	path := writeConfig(t, tempDir, ConfigFileName, cfg)

	loader := NewLoader()
	loaded, err := loader.LoadFromPath(path)
	if err != nil {
		t.Fatalf("Failed to load old-version config: %v", err)
	}
	if loaded.Version != CurrentSchemaVersion {
		t.Errorf("Expected version %s after migration, got %s", CurrentSchemaVersion, loaded.Version)
	}
}

func TestValidateConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	path := writeConfig(t, tempDir, ConfigFileName, testConfig())

	if err := ValidateConfigFile(path); err != nil {
		t.Errorf("ValidateConfigFile() failed on valid config: %v", err)
	}

	badPath := filepath.Join(tempDir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"version": ""}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := ValidateConfigFile(badPath); err == nil {
		t.Error("ValidateConfigFile() succeeded on invalid config")
	}
}

func TestSchemaVersioner_RegisteredMigration(t *testing.T) {
	sv := NewSchemaVersioner()
	sv.RegisterMigration("0.9", "1.0", func(cfg *config.Config) (*config.Config, error) {
		out := cfg.Clone()
		out.DefaultOptions = append(out.DefaultOptions, "--trace=native")
		return out, nil
	})

	cfg := testConfig()
	cfg.Version = "0.9"

	migrated, err := sv.MigrateConfig(cfg)
	if err != nil {
		t.Fatalf("MigrateConfig() failed: %v", err)
	}
	if migrated.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", migrated.Version)
	}
	if migrated.DefaultOptions[len(migrated.DefaultOptions)-1] != "--trace=native" {
		t.Error("Registered migration was not applied")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bebsworthy/testconf/internal/markers"
	"github.com/bebsworthy/testconf/pkg/config"
)

func validatorTestRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"vendor", "notebooks", "pkg/core"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755); err != nil {
			t.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}
	return root
}

func TestValidator_Validate(t *testing.T) {
	root := validatorTestRoot(t)

	tests := []struct {
		name    string
		cfg     *config.Config
		setup   func(v *Validator)
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			cfg: &config.Config{
				Version:        "1.0",
				ExcludeDirs:    []string{"vendor", "notebooks"},
				DefaultOptions: []string{"--verbose", "--slowest=10"},
				Markers: []*config.Marker{
					{Name: "slow", Description: "tests that are considered slow"},
				},
			},
		},
		{
			name: "missing exclude dir",
			cfg: &config.Config{
				Version:     "1.0",
				ExcludeDirs: []string{"gone"},
			},
			wantErr: true,
			errMsg:  "path does not exist",
		},
		{
			name: "missing dir explicitly allowed",
			cfg: &config.Config{
				Version:     "1.0",
				ExcludeDirs: []string{"gone"},
			},
			setup: func(v *Validator) {
				v.AllowMissingDirs = []string{"gone"}
			},
		},
		{
			name: "missing dir with checks disabled",
			cfg: &config.Config{
				Version:     "1.0",
				ExcludeDirs: []string{"gone"},
			},
			setup: func(v *Validator) {
				v.CheckDirs = false
			},
		},
		{
			name: "glob exclude matches",
			cfg: &config.Config{
				Version:     "1.0",
				ExcludeDirs: []string{"pkg/*"},
			},
		},
		{
			name: "glob exclude matches nothing",
			cfg: &config.Config{
				Version:     "1.0",
				ExcludeDirs: []string{"missing/**"},
			},
			wantErr: true,
			errMsg:  "matches nothing",
		},
		{
			name: "conflicting default options",
			cfg: &config.Config{
				Version:        "1.0",
				DefaultOptions: []string{"--verbose", "--quiet"},
			},
			wantErr: true,
			errMsg:  "conflicting flags",
		},
		{
			name: "duplicate default options",
			cfg: &config.Config{
				Version:        "1.0",
				DefaultOptions: []string{"--slowest=10", "--slowest=20"},
			},
			wantErr: true,
			errMsg:  "duplicate flag --slowest",
		},
		{
			name: "structural error surfaces",
			cfg: &config.Config{
				Version: "1.0",
				Markers: []*config.Marker{{Name: "slow"}},
			},
			wantErr: true,
			errMsg:  "description is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			if tt.setup != nil {
				tt.setup(v)
			}

			err := v.Validate(root, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func scanSuite(t *testing.T, root string, excludes []string) *markers.Index {
	t.Helper()
	idx, err := markers.NewScanner(root, excludes).Scan()
	if err != nil {
		t.Fatalf("Failed to scan suite: %v", err)
	}
	return idx
}

func TestValidator_ValidateSuite(t *testing.T) {
	root := t.TempDir()
	testFile := filepath.Join(root, "suite_test.go")
	content := `package suite

//testconf:marker slow
//testconf:marker mystery
`
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg := &config.Config{
		Version: "1.0",
		Markers: []*config.Marker{
			{Name: "slow", Description: "tests that are considered slow"},
		},
	}

	v := NewValidator()
	err := v.ValidateSuite(cfg, scanSuite(t, root, nil))
	if err == nil {
		t.Fatal("ValidateSuite() succeeded with an undeclared marker in use")
	}
	if !strings.Contains(err.Error(), "suite_test.go:4: mystery") {
		t.Errorf("ValidateSuite() error = %q, missing usage location", err.Error())
	}

	// Declare the marker and the suite becomes valid
	cfg.Markers = append(cfg.Markers, &config.Marker{Name: "mystery", Description: "mystery tests"})
	if err := v.ValidateSuite(cfg, scanSuite(t, root, nil)); err != nil {
		t.Errorf("ValidateSuite() failed after declaring the marker: %v", err)
	}
}

func TestValidator_Warnings(t *testing.T) {
	root := t.TempDir()
	testFile := filepath.Join(root, "suite_test.go")
	content := `package suite

//testconf:marker requires_aws
`
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	cfg := &config.Config{
		Version: "1.0",
		Markers: []*config.Marker{
			{Name: "slow", Description: "tests that are considered slow"},
			{Name: "requires_aws", Description: "needs AWS credentials", Deprecated: true},
			{Name: "no_container", Description: "runs outside the container", Deprecated: true},
		},
	}

	v := NewValidator()
	warnings := v.Warnings(cfg, scanSuite(t, root, nil))

	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "deprecated marker \"requires_aws\"") {
		t.Errorf("Missing deprecated-in-use warning: %v", warnings)
	}
	// slow is declared and unused; no_container is unused but deprecated,
	// which is the desired end state and not warned about
	if !strings.Contains(warnings[1], "marker \"slow\" is declared but never used") {
		t.Errorf("Missing unused-marker warning: %v", warnings)
	}
}

func TestValidator_SuggestFixes(t *testing.T) {
	v := NewValidator()

	root := validatorTestRoot(t)
	err := v.Validate(root, &config.Config{
		Version:     "1.0",
		ExcludeDirs: []string{"gone"},
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	suggestions := v.SuggestFixes(err)
	if len(suggestions) == 0 {
		t.Fatal("Expected suggestions for missing exclude dir")
	}
	found := false
	for _, s := range suggestions {
		if strings.Contains(s, "allow-missing") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected allow-missing suggestion, got %v", suggestions)
	}
}

// Package main provides the validate command for testconf
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testconf/internal/config"
	"github.com/bebsworthy/testconf/internal/markers"
)

var (
	validateSkipSuite    bool
	validateAllowMissing []string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and its use across the suite",
	Long: `Validate the test-runner configuration.

Beyond the structural checks applied on every load, validate verifies:
- every excluded directory exists under the project root
- the default options carry no duplicate or conflicting flags
- every marker referenced by a test is declared in the registry
- deprecated markers still in use are reported as warnings

Examples:
  # Validate the project configuration
  testconf validate

  # Skip the suite scan, checking the file alone
  testconf validate --skip-suite

  # Tolerate an exclusion whose directory is already gone
  testconf validate --allow-missing notebooks`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSkipSuite, "skip-suite", false, "Skip scanning the suite for marker usage")
	validateCmd.Flags().StringSliceVar(&validateAllowMissing, "allow-missing", nil, "Exclusion entries allowed to be absent")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating testconf configuration...")

	cfg, path, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	root := projectRoot(path)

	validator := config.NewValidator()
	validator.AllowMissingDirs = validateAllowMissing

	if err := validator.Validate(root, cfg); err != nil {
		return reportValidationFailure(validator, err)
	}

	if !validateSkipSuite {
		idx, err := markers.NewScanner(root, cfg.ExcludeDirs).Scan()
		if err != nil {
			return fmt.Errorf("failed to scan suite: %w", err)
		}

		if err := validator.ValidateSuite(cfg, idx); err != nil {
			return reportValidationFailure(validator, err)
		}

		for _, warning := range validator.Warnings(cfg, idx) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
	}

	fmt.Println("\nConfiguration is valid.")

	fmt.Printf("\nConfiguration Summary:\n")
	fmt.Printf("   Path: %s\n", path)
	fmt.Printf("   Version: %s\n", cfg.Version)
	fmt.Printf("   Exclude dirs: %d\n", len(cfg.ExcludeDirs))
	fmt.Printf("   Default options: %d\n", len(cfg.DefaultOptions))
	fmt.Printf("   Markers: %d declared\n", len(cfg.Markers))

	return nil
}

// reportValidationFailure prints the error with remediation hints and
// returns a terse error for the exit path
func reportValidationFailure(validator *config.Validator, err error) error {
	fmt.Fprintf(os.Stderr, "\nConfiguration validation failed:\n")
	fmt.Fprintf(os.Stderr, "   %v\n", err)

	suggestions := validator.SuggestFixes(err)
	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\nSuggestions:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(os.Stderr, "   - %s\n", suggestion)
		}
	}

	return fmt.Errorf("configuration is invalid")
}

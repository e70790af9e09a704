// Package main provides the init command for testconf
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testconf/internal/wizard"
)

var (
	initOutputPath string
	initForceFlag  bool
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a test-runner configuration for your project",
	Long: `Create a .testconf.json for your project through an interactive wizard.

The wizard seeds the configuration from the built-in defaults:
- directories commonly excluded from test discovery
- the standard default options (verbose output, native tracebacks,
  no capture display, recent-first ordering, slowest-test reporting)
- the standard marker registry (slow, superslow, infrastructure markers)

When stdin is not a terminal the defaults are written as-is, which is
what you want in scripted setups.

Examples:
  # Run the interactive wizard
  testconf init

  # Write the configuration to a specific location
  testconf init --output subproject/.testconf.json

  # Overwrite an existing configuration
  testconf init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initOutputPath, "output", "", "Output path for configuration file")
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "Force overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	w, err := wizard.NewInitWizard()
	if err != nil {
		return fmt.Errorf("failed to create wizard: %w", err)
	}

	return w.Run(initOutputPath, initForceFlag)
}

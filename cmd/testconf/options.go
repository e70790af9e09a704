// Package main provides the options command for testconf
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testconf/internal/options"
)

var optionsLineFlag bool

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options [extra options...]",
	Short: "Print the composed invocation options",
	Long: `Print the options a test run should be invoked with: the
configured defaults followed by any extra options given as arguments.
Defaults come first so runners honoring last-flag-wins let the extras
override them.

The configured defaults are checked for duplicate and conflicting
flags before printing. Extras are passed through untouched, since
overriding a default is exactly what they are for.

Examples:
  # Show the configured defaults
  testconf options

  # Compose a run's options on one shell-quoted line
  runner $(testconf options --line) ./...

  # Extras override the defaults
  testconf options --line -- --quiet`,
	RunE: runOptions,
}

func init() {
	optionsCmd.Flags().BoolVar(&optionsLineFlag, "line", false, "Print the options as a single shell-quoted line")
	// Extra options start with dashes; keep cobra from eating them
	optionsCmd.Flags().SetInterspersed(false)
}

func runOptions(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := options.CheckConflicts(cfg.DefaultOptions); err != nil {
		return fmt.Errorf("default options are invalid: %w", err)
	}

	merged := options.Merge(cfg.DefaultOptions, args)

	if optionsLineFlag {
		fmt.Println(options.Join(merged))
		return nil
	}

	for _, opt := range merged {
		fmt.Println(opt)
	}
	return nil
}

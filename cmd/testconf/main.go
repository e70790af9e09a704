// Package main is the entry point for the testconf CLI tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testconf/internal/config"
	"github.com/bebsworthy/testconf/internal/debug"
	pkgconfig "github.com/bebsworthy/testconf/pkg/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	debugFlag  bool
	configPath string
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testconf",
		Short: "Test-runner configuration for your project",
		Long: `Testconf owns a project's test-runner configuration file
(.testconf.json): the directories excluded from test discovery, the
default options applied to every test run, and the registry of markers
tests use to declare infrastructure requirements.

The test runner itself stays out of scope; testconf keeps the
configuration it consumes coherent.

GETTING STARTED:
  1. Create a configuration for your project:
     $ testconf init

  2. Check the configuration against the suite:
     $ testconf validate

COMMON USAGE PATTERNS:
  • CI gate:
    $ testconf validate || exit 1

  • Compose the invocation options for a run:
    $ runner $(testconf options --line) ./...

  • Audit marker usage across the suite:
    $ testconf markers --check`,
		Version: Version,
		Example: `  # Initial setup
  testconf init

  # Daily usage
  testconf validate
  testconf markers --check

  # Use a specific config file
  testconf --config ./custom.json validate`,
	}

	// Global flags
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	// Disable the default completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	cmd.AddCommand(initCmd)
	cmd.AddCommand(validateCmd)
	cmd.AddCommand(markersCmd)
	cmd.AddCommand(optionsCmd)

	return cmd
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func main() {
	// Parse global flags early to enable debug logging
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--debug" {
			debug.Enable()
			break
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration honoring the --config flag, and
// returns it along with the path it was loaded from
func loadConfig() (*pkgconfig.Config, string, error) {
	loader := config.NewLoader()

	path := configPath
	if path == "" {
		found, err := loader.FindConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg, err := loader.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// projectRoot returns the directory exclusion paths are resolved
// against: the directory holding the configuration file
func projectRoot(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

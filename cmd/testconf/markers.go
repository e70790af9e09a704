// Package main provides the markers command for testconf
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testconf/internal/markers"
)

var (
	markersCheckFlag bool
	markersWithFlag  string
)

// markersCmd represents the markers command
var markersCmd = &cobra.Command{
	Use:   "markers",
	Short: "List the marker registry and audit its use",
	Long: `List the declared markers with their descriptions.

With --check the suite is scanned for marker directives and each
declared marker is reported with the files referencing it, alongside
undeclared and deprecated usages.

With --with a single marker is queried: the files tagged with it are
printed one per line, which composes well with the runner's own
selection flags.

Examples:
  # Show the registry
  testconf markers

  # Audit marker usage across the suite
  testconf markers --check

  # List the files tagged slow
  testconf markers --with slow`,
	RunE: runMarkers,
}

func init() {
	markersCmd.Flags().BoolVar(&markersCheckFlag, "check", false, "Scan the suite and audit marker usage")
	markersCmd.Flags().StringVar(&markersWithFlag, "with", "", "Print the files tagged with the given marker")
}

func runMarkers(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if markersWithFlag == "" && !markersCheckFlag {
		for _, m := range cfg.Markers {
			suffix := ""
			if m.Deprecated {
				suffix = " (deprecated)"
			}
			fmt.Printf("%s: %s%s\n", m.Name, m.Description, suffix)
		}
		return nil
	}

	root := projectRoot(path)
	idx, err := markers.NewScanner(root, cfg.ExcludeDirs).Scan()
	if err != nil {
		return fmt.Errorf("failed to scan suite: %w", err)
	}

	if markersWithFlag != "" {
		if cfg.FindMarker(markersWithFlag) == nil {
			return fmt.Errorf("marker %q is not declared", markersWithFlag)
		}
		for _, file := range idx.FilesWith(markersWithFlag) {
			fmt.Println(file)
		}
		return nil
	}

	for _, m := range cfg.Markers {
		files := idx.FilesWith(m.Name)
		fmt.Printf("%s: %d file(s)\n", m.Name, len(files))
		for _, file := range files {
			fmt.Printf("   %s\n", file)
		}
	}

	if undeclared := idx.Undeclared(cfg); len(undeclared) > 0 {
		fmt.Println("\nUndeclared markers:")
		for _, u := range undeclared {
			fmt.Printf("   %s:%d: %s\n", u.File, u.Line, u.Name)
		}
		return fmt.Errorf("%d undeclared marker usage(s)", len(undeclared))
	}

	return nil
}

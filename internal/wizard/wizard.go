// Package wizard provides the interactive configuration wizard for testconf
package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/bebsworthy/testconf/internal/config"
	"github.com/bebsworthy/testconf/internal/debug"
	"github.com/bebsworthy/testconf/internal/options"
	pkgconfig "github.com/bebsworthy/testconf/pkg/config"
)

// InitWizard drives the interactive setup of a new configuration file
type InitWizard struct {
	defaults *pkgconfig.Config

	// Interactive controls whether prompts are shown. When stdin is not
	// a terminal the wizard writes the defaults verbatim.
	Interactive bool
}

// NewInitWizard creates a new configuration wizard seeded from the
// built-in defaults
func NewInitWizard() (*InitWizard, error) {
	defaults, err := config.NewDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return &InitWizard{
		defaults:    defaults,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}, nil
}

// Run runs the wizard and writes the resulting configuration file
func (w *InitWizard) Run(outputPath string, force bool) error {
	debug.LogSection("Configuration Wizard")

	path, err := w.determineOutputPath(outputPath)
	if err != nil {
		return err
	}

	if !force {
		overwrite, err := w.checkExistingConfig(path)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Configuration wizard canceled.")
			return nil
		}
	}

	cfg := w.defaults.Clone()

	if w.Interactive {
		if err := w.promptExcludeDirs(cfg); err != nil {
			return err
		}
		if err := w.promptMarkers(cfg); err != nil {
			return err
		}
		if err := w.promptDefaultOptions(cfg); err != nil {
			return err
		}
	} else {
		debug.Log("Not a terminal, writing defaults without prompting")
	}

	if err := w.validateAndSave(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

// determineOutputPath resolves the target configuration file path
func (w *InitWizard) determineOutputPath(outputPath string) (string, error) {
	if outputPath != "" {
		return outputPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, config.ConfigFileName), nil
}

// checkExistingConfig asks before overwriting an existing file
func (w *InitWizard) checkExistingConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}

	if !w.Interactive {
		return false, fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return overwrite, nil
}

// promptExcludeDirs lets the user pick and extend the discovery exclusions
func (w *InitWizard) promptExcludeDirs(cfg *pkgconfig.Config) error {
	selected := []string{}
	prompt := &survey.MultiSelect{
		Message: "Directories to exclude from test discovery:",
		Options: w.defaults.ExcludeDirs,
		Default: w.defaults.ExcludeDirs,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	extra := ""
	input := &survey.Input{
		Message: "Additional directories to exclude (comma separated, empty for none):",
	}
	if err := survey.AskOne(input, &extra); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	for _, dir := range strings.Split(extra, ",") {
		dir = strings.TrimSpace(dir)
		if dir != "" {
			selected = append(selected, dir)
		}
	}

	cfg.ExcludeDirs = selected
	return nil
}

// promptMarkers lets the user pick the marker registry entries.
// Deprecated defaults are offered but not preselected.
func (w *InitWizard) promptMarkers(cfg *pkgconfig.Config) error {
	names := make([]string, 0, len(w.defaults.Markers))
	preselected := make([]string, 0, len(w.defaults.Markers))
	for _, m := range w.defaults.Markers {
		names = append(names, m.Name)
		if !m.Deprecated {
			preselected = append(preselected, m.Name)
		}
	}

	selected := []string{}
	prompt := &survey.MultiSelect{
		Message: "Markers to declare:",
		Options: names,
		Default: preselected,
		Description: func(value string, index int) string {
			return w.defaults.Markers[index].Description
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	markers := make([]*pkgconfig.Marker, 0, len(selected))
	for _, name := range selected {
		if m := w.defaults.FindMarker(name); m != nil {
			markers = append(markers, m.Clone())
		}
	}
	cfg.Markers = markers
	return nil
}

// promptDefaultOptions lets the user edit the default invocation options
func (w *InitWizard) promptDefaultOptions(cfg *pkgconfig.Config) error {
	line := ""
	input := &survey.Input{
		Message: "Default options passed to every test run:",
		Default: options.Join(w.defaults.DefaultOptions),
	}
	if err := survey.AskOne(input, &line); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	opts, err := options.Split(line)
	if err != nil {
		return err
	}
	cfg.DefaultOptions = opts
	return nil
}

// validateAndSave validates the assembled configuration and writes it
func (w *InitWizard) validateAndSave(cfg *pkgconfig.Config, path string) error {
	validator := config.NewValidator()
	// A fresh project may not have the excluded dirs yet
	validator.CheckDirs = false

	if err := validator.Validate(filepath.Dir(path), cfg); err != nil {
		return fmt.Errorf("assembled configuration is invalid: %w", err)
	}

	data, err := pkgconfig.SaveConfig(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	debug.Log("Wrote configuration to %s (%d bytes)", path, len(data))
	return nil
}

// Package config provides the default configuration template for testconf
package config

import (
	_ "embed"
	"fmt"

	"github.com/bebsworthy/testconf/pkg/config"
)

// Embedded default configuration file
//
//go:embed defaults/default.json
var defaultConfigJSON string

// NewDefaultConfig returns the built-in default configuration: the
// standard exclusions, runner options, and marker registry a fresh
// project starts from. The deprecated markers are carried for suites
// still referencing them and are reported by the validator.
func NewDefaultConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig([]byte(defaultConfigJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return cfg, nil
}

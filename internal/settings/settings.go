// Package settings loads the engine's YAML configuration: the five
// threat-model toggles plus a couple of CLI defaults.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Emmyhack/invar/internal/threatmodel"
)

// Settings is the on-disk engine configuration.
type Settings struct {
	StrictMode            bool   `yaml:"strict_mode"`
	ReParseVerification   bool   `yaml:"re_parse_verification"`
	TamperDetection       bool   `yaml:"tamper_detection"`
	DSLSandboxing         bool   `yaml:"dsl_sandboxing"`
	IsolationVerification bool   `yaml:"isolation_verification"`
	DefaultChain          string `yaml:"default_chain"`
	OutputDir             string `yaml:"output_dir"`
}

// Default matches threatmodel.DefaultConfig with CLI-oriented defaults
// for the two ambient fields.
func Default() Settings {
	tc := threatmodel.DefaultConfig()
	return Settings{
		StrictMode:            tc.StrictMode,
		ReParseVerification:   tc.ReParseVerification,
		TamperDetection:       tc.TamperDetectionEnabled,
		DSLSandboxing:         tc.DSLSandboxingEnabled,
		IsolationVerification: tc.IsolationVerification,
		DefaultChain:          "evm",
		OutputDir:             "./invar-out",
	}
}

// Load reads and parses a YAML settings file, filling in Default()
// values for any field the file omits by starting from the default and
// unmarshalling on top of it.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

// ThreatModelConfig projects Settings onto the subset threatmodel cares
// about.
func (s Settings) ThreatModelConfig() threatmodel.Config {
	return threatmodel.Config{
		StrictMode:             s.StrictMode,
		ReParseVerification:    s.ReParseVerification,
		TamperDetectionEnabled: s.TamperDetection,
		DSLSandboxingEnabled:   s.DSLSandboxing,
		IsolationVerification:  s.IsolationVerification,
	}
}

// Save writes s to path as YAML, for `invar init` to scaffold a config.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

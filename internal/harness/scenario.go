package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultRunID is used when a scenario does not name one.
const DefaultRunID = "test-run-default"

// Scenario defines a rule application test case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the text the rules are applied to.
	Input string `yaml:"input"`

	// Rules is an inline raw rule tree, decoded as YAML.
	Rules any `yaml:"rules,omitempty"`

	// RulesFile is a rule file path, relative to the scenario file.
	RulesFile string `yaml:"rules_file,omitempty"`

	// Mode is the decoding mode for RulesFile. Empty means auto.
	Mode string `yaml:"mode,omitempty"`

	// Verbosity is clamped to 0, 1 or 2.
	Verbosity int `yaml:"verbosity,omitempty"`

	// RunID is an optional fixed run ID. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// Expect holds the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected scenario outcome.
type Expect struct {
	// Output is the expected transformed text. Nil skips the check.
	Output *string `yaml:"output,omitempty"`

	// Log is the exact expected log. Nil skips the check.
	Log []string `yaml:"log,omitempty"`

	// Error is a substring the load or run error must contain.
	// Empty means the scenario must succeed.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
// A relative rules_file is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.RulesFile != "" && !filepath.IsAbs(scenario.RulesFile) {
		scenario.RulesFile = filepath.Join(filepath.Dir(path), scenario.RulesFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Rules == nil && s.RulesFile == "" {
		return fmt.Errorf("one of rules or rules_file is required")
	}
	if s.Rules != nil && s.RulesFile != "" {
		return fmt.Errorf("rules and rules_file are mutually exclusive")
	}
	if s.Mode != "" && s.RulesFile == "" {
		return fmt.Errorf("mode requires rules_file")
	}
	if s.Expect.Output == nil && s.Expect.Log == nil && s.Expect.Error == "" {
		return fmt.Errorf("expect must set output, log or error")
	}
	return nil
}

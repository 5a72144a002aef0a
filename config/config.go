// Package config provides configuration loading and management for ralphex.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ralphex configuration.
type Config struct {
	Specs    SpecsConfig    `yaml:"specs"`
	Output   OutputConfig   `yaml:"output"`
	Template TemplateConfig `yaml:"template"`
}

// SpecsConfig configures where specification bundles are found.
type SpecsConfig struct {
	// Dir is the directory holding NNN-* spec directories.
	Dir string `yaml:"dir"`
}

// OutputConfig configures the Ralph project files written by an export.
type OutputConfig struct {
	// NewFeaturesDir is where the source documents are copied to.
	NewFeaturesDir string `yaml:"new_features_dir"`
	// FixPlanFile is the fix-plan checklist written to the project root.
	FixPlanFile string `yaml:"fix_plan_file"`
	// PromptFile is the prompt file whose Current Focus line is updated.
	PromptFile string `yaml:"prompt_file"`
	// ScenariosDir is where per-feature scenario documents are written,
	// relative to NewFeaturesDir.
	ScenariosDir string `yaml:"scenarios_dir"`
}

// TemplateConfig configures template overrides.
type TemplateConfig struct {
	// FixPlan is a path to a fix-plan template file (empty = built-in).
	FixPlan string `yaml:"fix_plan"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Specs: SpecsConfig{
			Dir: "docs/specs",
		},
		Output: OutputConfig{
			NewFeaturesDir: "specs/new-features",
			FixPlanFile:    "@fix_plan.md",
			PromptFile:     "PROMPT.md",
			ScenariosDir:   "scenarios",
		},
		Template: TemplateConfig{
			FixPlan: "",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Specs.Dir == "" {
		return fmt.Errorf("specs.dir is required")
	}
	if c.Output.NewFeaturesDir == "" {
		return fmt.Errorf("output.new_features_dir is required")
	}
	if c.Output.FixPlanFile == "" {
		return fmt.Errorf("output.fix_plan_file is required")
	}
	if c.Output.PromptFile == "" {
		return fmt.Errorf("output.prompt_file is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Specs.Dir != "" {
		c.Specs.Dir = other.Specs.Dir
	}

	if other.Output.NewFeaturesDir != "" {
		c.Output.NewFeaturesDir = other.Output.NewFeaturesDir
	}
	if other.Output.FixPlanFile != "" {
		c.Output.FixPlanFile = other.Output.FixPlanFile
	}
	if other.Output.PromptFile != "" {
		c.Output.PromptFile = other.Output.PromptFile
	}
	if other.Output.ScenariosDir != "" {
		c.Output.ScenariosDir = other.Output.ScenariosDir
	}

	if other.Template.FixPlan != "" {
		c.Template.FixPlan = other.Template.FixPlan
	}
}

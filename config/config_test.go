package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Specs.Dir != "docs/specs" {
		t.Errorf("expected default specs dir docs/specs, got %s", cfg.Specs.Dir)
	}
	if cfg.Output.NewFeaturesDir != "specs/new-features" {
		t.Errorf("expected default new-features dir specs/new-features, got %s", cfg.Output.NewFeaturesDir)
	}
	if cfg.Output.FixPlanFile != "@fix_plan.md" {
		t.Errorf("expected default fix plan file @fix_plan.md, got %s", cfg.Output.FixPlanFile)
	}
	if cfg.Output.PromptFile != "PROMPT.md" {
		t.Errorf("expected default prompt file PROMPT.md, got %s", cfg.Output.PromptFile)
	}
	if cfg.Output.ScenariosDir != "scenarios" {
		t.Errorf("expected default scenarios dir scenarios, got %s", cfg.Output.ScenariosDir)
	}
	if cfg.Template.FixPlan != "" {
		t.Errorf("expected no template override by default, got %s", cfg.Template.FixPlan)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing specs dir",
			modify:  func(c *Config) { c.Specs.Dir = "" },
			wantErr: true,
		},
		{
			name:    "missing new features dir",
			modify:  func(c *Config) { c.Output.NewFeaturesDir = "" },
			wantErr: true,
		},
		{
			name:    "missing fix plan file",
			modify:  func(c *Config) { c.Output.FixPlanFile = "" },
			wantErr: true,
		},
		{
			name:    "missing prompt file",
			modify:  func(c *Config) { c.Output.PromptFile = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ralphex.yaml")
	content := `specs:
  dir: my/specs
output:
  fix_plan_file: PLAN.md
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Specs.Dir != "my/specs" {
		t.Errorf("Specs.Dir = %q, want %q", cfg.Specs.Dir, "my/specs")
	}
	if cfg.Output.FixPlanFile != "PLAN.md" {
		t.Errorf("FixPlanFile = %q, want %q", cfg.Output.FixPlanFile, "PLAN.md")
	}
	// Unset fields keep defaults.
	if cfg.Output.PromptFile != "PROMPT.md" {
		t.Errorf("PromptFile = %q, want default", cfg.Output.PromptFile)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ralphex.yaml")
	if err := os.WriteFile(path, []byte("specs: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Specs.Dir = "elsewhere"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Specs.Dir != "elsewhere" {
		t.Errorf("Specs.Dir = %q, want %q", loaded.Specs.Dir, "elsewhere")
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Specs:    SpecsConfig{Dir: "override/specs"},
		Template: TemplateConfig{FixPlan: "tmpl.md"},
	})

	if base.Specs.Dir != "override/specs" {
		t.Errorf("Specs.Dir = %q, want override", base.Specs.Dir)
	}
	if base.Template.FixPlan != "tmpl.md" {
		t.Errorf("Template.FixPlan = %q, want tmpl.md", base.Template.FixPlan)
	}
	// Zero values in the overlay leave the base untouched.
	if base.Output.FixPlanFile != "@fix_plan.md" {
		t.Errorf("FixPlanFile = %q, want default retained", base.Output.FixPlanFile)
	}

	base.Merge(nil)
	if base.Specs.Dir != "override/specs" {
		t.Error("Merge(nil) should be a no-op")
	}
}

func TestLoaderLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("specs:\n  dir: from/file\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Specs.Dir != "from/file" {
		t.Errorf("Specs.Dir = %q, want %q", cfg.Specs.Dir, "from/file")
	}
}

func TestLoaderLoadFile_Missing(t *testing.T) {
	if _, err := NewLoader(nil).LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Rules["loops"] {
		t.Error("expected loops enabled by default")
	}
	if cfg.Rules["instrument"] {
		t.Error("expected instrument disabled by default")
	}
	if cfg.Jobs != 0 {
		t.Errorf("expected jobs 0, got %d", cfg.Jobs)
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
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown rule name",
			modify:  func(c *Config) { c.Rules["no-such-rule"] = true },
			wantErr: true,
		},
		{
			name:    "invalid ignore pattern",
			modify:  func(c *Config) { c.Ignore = []string{"src/[broken"} },
			wantErr: true,
		},
		{
			name:    "valid ignore pattern",
			modify:  func(c *Config) { c.Ignore = []string{"generated/**/*.rs"} },
			wantErr: false,
		},
		{
			name:    "negative jobs",
			modify:  func(c *Config) { c.Jobs = -1 },
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

func TestSetRule(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetRule("loops", false); err != nil {
		t.Fatalf("SetRule() error = %v", err)
	}
	if cfg.Rules["loops"] {
		t.Error("expected loops disabled after SetRule")
	}

	if err := cfg.SetRule("bogus", true); err == nil {
		t.Error("expected error for unknown rule name")
	}
}

func TestActiveRules(t *testing.T) {
	cfg := DefaultConfig()
	base := len(cfg.ActiveRules())

	if err := cfg.SetRule("instrument", true); err != nil {
		t.Fatalf("SetRule() error = %v", err)
	}
	if got := len(cfg.ActiveRules()); got != base+1 {
		t.Errorf("expected %d active rules after enabling instrument, got %d", base+1, got)
	}

	for _, r := range cfg.ActiveRules() {
		if !cfg.Rules[r.Name()] {
			t.Errorf("rule %s active but not enabled", r.Name())
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".codestyle.yaml")

	content := `
rules:
  loops: false
  instrument: true
ignore:
  - "generated/**"
  - "vendor/**/*.rs"
jobs: 4
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Rules["loops"] {
		t.Error("expected loops disabled")
	}
	if !cfg.Rules["instrument"] {
		t.Error("expected instrument enabled")
	}
	if len(cfg.Ignore) != 2 {
		t.Errorf("expected 2 ignore patterns, got %d", len(cfg.Ignore))
	}
	if cfg.Jobs != 4 {
		t.Errorf("expected jobs 4, got %d", cfg.Jobs)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".codestyle.yaml")

	content := "rulez:\n  loops: false\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for unknown top-level key")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Rules:  map[string]bool{"loops": false},
		Ignore: []string{"target/**"},
	}

	base.Merge(override)

	if base.Rules["loops"] {
		t.Error("expected loops disabled after merge")
	}
	// Other rules keep their defaults since override didn't set them
	if !base.Rules["impl-follows-type"] {
		t.Error("expected impl-follows-type to remain enabled")
	}
	if len(base.Ignore) != 1 || base.Ignore[0] != "target/**" {
		t.Errorf("expected merged ignore [target/**], got %v", base.Ignore)
	}
}

func TestLoaderFindsParentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".codestyle.yaml")
	if err := os.WriteFile(configPath, []byte("jobs: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	loader := NewLoader(nil)
	cfg, err := loader.Load(nested, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 2 {
		t.Errorf("expected jobs 2 from parent config, got %d", cfg.Jobs)
	}
}

func TestLoaderExplicitPathMissing(t *testing.T) {
	loader := NewLoader(nil)
	if _, err := loader.Load(t.TempDir(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", ".codestyle.yaml")

	cfg := DefaultConfig()
	cfg.Jobs = 3

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Jobs != 3 {
		t.Errorf("expected jobs 3, got %d", loaded.Jobs)
	}
}

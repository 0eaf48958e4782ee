package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromFile_MissingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	config, err := loadConfigFromFile(configPath)
	if err == nil {
		t.Fatal("loadConfigFromFile should return error for missing file")
	}
	if config != nil {
		t.Fatal("loadConfigFromFile should return nil config for missing file")
	}
}

func TestLoadConfigFromFile_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	validYAML := `source_language: "en"
keep_region_languages: ["zh", "pt"]
list_count: 3
optional_placeholders: [2]
require_complete: true
commands:
  resgen: ["resgen", "{{.input}}", "{{.output}}"]
`
	if err := os.WriteFile(configPath, []byte(validYAML), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := loadConfigFromFile(configPath)
	if err != nil {
		t.Fatalf("loadConfigFromFile should succeed for valid file, got error: %v", err)
	}
	if len(config.KeepRegionLanguages) != 2 || config.KeepRegionLanguages[1] != "pt" {
		t.Fatalf("unexpected keep_region_languages: %v", config.KeepRegionLanguages)
	}
	if config.ExpectedListCount() != 3 {
		t.Fatalf("expected list_count 3, got %d", config.ExpectedListCount())
	}
	if !config.IsRequireComplete() {
		t.Fatal("expected require_complete to be true")
	}
	if len(config.Commands.Resgen) != 3 || config.Commands.Link != nil {
		t.Fatalf("unexpected commands: %+v", config.Commands)
	}
}

func TestLoadConfigFromFile_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	invalidYAML := "source_language: [unclosed\n"
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	config, err := loadConfigFromFile(configPath)
	if err == nil {
		t.Fatal("loadConfigFromFile should return error for invalid YAML")
	}
	if config != nil {
		t.Fatal("loadConfigFromFile should return nil config for invalid YAML")
	}
}

func TestConfig_Validate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:    "no source language",
			modify:  func(c *Config) { c.SourceLanguage = "" },
			wantErr: true,
			errMsg:  "source_language is required",
		},
		{
			name:    "negative list count",
			modify:  func(c *Config) { c.ListCount = &negative },
			wantErr: true,
			errMsg:  "list_count must not be negative",
		},
		{
			name:    "negative optional placeholder",
			modify:  func(c *Config) { c.OptionalPlaceholders = []int{1, -2} },
			wantErr: true,
			errMsg:  "optional_placeholders contains negative index -2",
		},
		{
			name:    "empty resgen command",
			modify:  func(c *Config) { c.Commands.Resgen = []string{} },
			wantErr: true,
			errMsg:  "commands.resgen has empty command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() expected error, got nil")
				}
				if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Fatalf("Validate() expected error message '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestMergeConfigs(t *testing.T) {
	two := 2
	baseConfig := &Config{
		SourceLanguage:      "en",
		KeepRegionLanguages: []string{"zh"},
		PoFilePattern:       "po/{{.locale}}.po",
		ListCount:           &two,
		Commands: Commands{
			Resgen: []string{"resgen", "{{.input}}"},
			Link:   []string{"al", "{{.output}}"},
		},
	}
	repoConfig := &Config{
		KeepRegionLanguages: []string{"zh", "pt"},
		PoFilePattern:       "l10n/{{.locale}}/messages.po",
		Commands: Commands{
			Resgen: []string{"resgen.exe", "{{.input}}"},
		},
	}

	merged := mergeConfigs(baseConfig, repoConfig)

	if merged.SourceLanguage != "en" {
		t.Fatalf("expected SourceLanguage 'en', got '%s'", merged.SourceLanguage)
	}
	if merged.PoFilePattern != "l10n/{{.locale}}/messages.po" {
		t.Fatalf("expected overridden PoFilePattern, got '%s'", merged.PoFilePattern)
	}
	if len(merged.KeepRegionLanguages) != 2 {
		t.Fatalf("expected 2 keep-region languages, got %v", merged.KeepRegionLanguages)
	}
	if merged.ExpectedListCount() != 2 {
		t.Fatalf("expected list count to be preserved, got %d", merged.ExpectedListCount())
	}
	if merged.Commands.Resgen[0] != "resgen.exe" {
		t.Fatalf("expected resgen to be overridden, got %v", merged.Commands.Resgen)
	}
	if merged.Commands.Link[0] != "al" {
		t.Fatalf("expected link command to be preserved, got %v", merged.Commands.Link)
	}
	if baseConfig.PoFilePattern != "po/{{.locale}}.po" {
		t.Fatal("mergeConfigs must not modify base")
	}
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	if err := os.WriteFile(filepath.Join(home, UserConfigFileName),
		[]byte("source_language: fr\nlist_count: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFileName),
		[]byte("list_count: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("", root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SourceLanguage != "fr" {
		t.Errorf("expected source_language from home config, got %q", cfg.SourceLanguage)
	}
	if cfg.ExpectedListCount() != 5 {
		t.Errorf("expected repo config to override list_count, got %d", cfg.ExpectedListCount())
	}
	if len(cfg.ExcludeProjectSuffixes) != 3 {
		t.Errorf("expected default exclude suffixes, got %v", cfg.ExcludeProjectSuffixes)
	}

	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(explicit, []byte("list_count: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(explicit, root)
	if err != nil {
		t.Fatalf("LoadConfig with explicit file failed: %v", err)
	}
	if cfg.SourceLanguage != "en" || cfg.ExpectedListCount() != 7 {
		t.Errorf("explicit config should replace home and repo files, got %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(root, "missing.yaml"), root); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

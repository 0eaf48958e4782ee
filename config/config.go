// Package config provides configuration structures and loading for fw-po-helper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the configuration file in the project root.
const ConfigFileName = "fw-po-helper.yaml"

// UserConfigFileName is the name of the configuration file in the home directory.
const UserConfigFileName = ".fw-po-helper.yaml"

// Config holds the complete configuration.
type Config struct {
	SourceLanguage         string   `yaml:"source_language"`
	KeepRegionLanguages    []string `yaml:"keep_region_languages"`
	ExcludeProjectSuffixes []string `yaml:"exclude_project_suffixes"`
	ListCount              *int     `yaml:"list_count"`
	OptionalPlaceholders   []int    `yaml:"optional_placeholders"`
	PoFilePattern          string   `yaml:"po_file_pattern"`
	RequireComplete        *bool    `yaml:"require_complete"`
	Commands               Commands `yaml:"commands"`
}

// Commands holds external command templates used to build localized
// resources. Arguments use {{.input}}, {{.output}}, {{.locale}} and
// {{.name}} placeholders.
type Commands struct {
	Resgen []string `yaml:"resgen"`
	Link   []string `yaml:"link"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SourceLanguage:         "en",
		KeepRegionLanguages:    []string{"zh"},
		ExcludeProjectSuffixes: []string{"Tests", "Test", "TestUtils"},
		PoFilePattern:          "po/{{.locale}}.po",
	}
}

// ExpectedListCount returns the configured list count, 0 when unset.
func (c *Config) ExpectedListCount() int {
	if c.ListCount == nil {
		return 0
	}
	return *c.ListCount
}

// IsRequireComplete reports whether missing localized resources are errors.
func (c *Config) IsRequireComplete() bool {
	return c.RequireComplete != nil && *c.RequireComplete
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.SourceLanguage == "" {
		return fmt.Errorf("source_language is required")
	}
	if c.ListCount != nil && *c.ListCount < 0 {
		return fmt.Errorf("list_count must not be negative")
	}
	for _, idx := range c.OptionalPlaceholders {
		if idx < 0 {
			return fmt.Errorf("optional_placeholders contains negative index %d", idx)
		}
	}
	if c.PoFilePattern == "" {
		return fmt.Errorf("po_file_pattern is required")
	}
	if c.Commands.Resgen != nil && len(c.Commands.Resgen) == 0 {
		return fmt.Errorf("commands.resgen has empty command")
	}
	if c.Commands.Link != nil && len(c.Commands.Link) == 0 {
		return fmt.Errorf("commands.link has empty command")
	}
	return nil
}

// loadConfigFromFile loads configuration from a single YAML file.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfigs overlays non-empty fields of override onto base.
func mergeConfigs(base, override *Config) *Config {
	merged := *base
	if override.SourceLanguage != "" {
		merged.SourceLanguage = override.SourceLanguage
	}
	if override.KeepRegionLanguages != nil {
		merged.KeepRegionLanguages = override.KeepRegionLanguages
	}
	if override.ExcludeProjectSuffixes != nil {
		merged.ExcludeProjectSuffixes = override.ExcludeProjectSuffixes
	}
	if override.ListCount != nil {
		merged.ListCount = override.ListCount
	}
	if override.OptionalPlaceholders != nil {
		merged.OptionalPlaceholders = override.OptionalPlaceholders
	}
	if override.PoFilePattern != "" {
		merged.PoFilePattern = override.PoFilePattern
	}
	if override.RequireComplete != nil {
		merged.RequireComplete = override.RequireComplete
	}
	if override.Commands.Resgen != nil {
		merged.Commands.Resgen = override.Commands.Resgen
	}
	if override.Commands.Link != nil {
		merged.Commands.Link = override.Commands.Link
	}
	return &merged
}

// LoadConfig returns the effective configuration. When configFile is set,
// only that file is loaded on top of the defaults. Otherwise the user file
// in $HOME and then the project file in projectRoot are applied, each
// being optional.
func LoadConfig(configFile, projectRoot string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		fileCfg, err := loadConfigFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configFile, err)
		}
		log.Debugf("loaded config from %s", configFile)
		cfg = mergeConfigs(cfg, fileCfg)
		return cfg, cfg.Validate()
	}

	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserConfigFileName))
	}
	if projectRoot != "" {
		candidates = append(candidates, filepath.Join(projectRoot, ConfigFileName))
	}
	for _, path := range candidates {
		fileCfg, err := loadConfigFromFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		log.Debugf("loaded config from %s", path)
		cfg = mergeConfigs(cfg, fileCfg)
	}
	return cfg, cfg.Validate()
}

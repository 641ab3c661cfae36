// Package config provides configuration loading and structs for the kotoba server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kotoba/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	LogFormat   string            `yaml:"log_format"`
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Tenant      TenantConfig      `yaml:"tenant"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Search      SearchConfig      `yaml:"search"`
	Import      ImportConfig      `yaml:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
}

// StorageConfig holds the keyword dictionary location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// TenantConfig is the tenant and language used when a request names none.
type TenantConfig struct {
	TenantID   string `yaml:"tenant_id"`
	LanguageID string `yaml:"language_id"`
}

// Context parses the configured ids, falling back to the platform defaults.
func (t TenantConfig) Context() (models.TenantContext, error) {
	return models.ParseTenantContext(t.TenantID, t.LanguageID, models.DefaultTenantContext())
}

// InterpreterConfig tunes pattern generation, ranking and caching.
type InterpreterConfig struct {
	Strategy       string `yaml:"strategy"`         // anchored | substring
	MaxMatches     int    `yaml:"max_matches"`      // default and maximum: 10
	MaxTokens      int    `yaml:"max_tokens"`       // default: 16
	MaxPatterns    int    `yaml:"max_patterns"`     // default: 2048
	MinTokenLength int    `yaml:"min_token_length"` // default: 1
	CacheSize      int    `yaml:"cache_size"`       // 0 disables the lookup cache
}

// SearchConfig holds request-level settings.
type SearchConfig struct {
	DefaultScope  string `yaml:"default_scope"`
	MinTermLength int    `yaml:"min_term_length"`
}

// ImportConfig lists the catalog files that feed the keyword dictionary.
type ImportConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
	Scope       string   `yaml:"scope"`
}

// RecursiveOrDefault returns whether to walk directories recursively; defaults to true when unset.
func (c *ImportConfig) RecursiveOrDefault() bool {
	if c.Recursive != nil {
		return *c.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Import.Directories {
		cfg.Import.Directories[i] = expandPath(cfg.Import.Directories[i], configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MaxMatchesLimit caps interpreter.max_matches; a pattern never carries more keywords.
const MaxMatchesLimit = 10

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Interpreter.Strategy) {
	case "", "anchored", "substring":
	default:
		return fmt.Errorf("invalid interpreter.strategy %q", c.Interpreter.Strategy)
	}
	if _, err := c.Tenant.Context(); err != nil {
		return fmt.Errorf("invalid tenant config: %w", err)
	}
	if c.Interpreter.MaxMatches < 0 || c.Interpreter.MaxTokens < 0 || c.Interpreter.MaxPatterns < 0 {
		return fmt.Errorf("interpreter limits must not be negative")
	}
	if c.Interpreter.MaxMatches > MaxMatchesLimit {
		return fmt.Errorf("interpreter.max_matches must not exceed %d", MaxMatchesLimit)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// "~/" and other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	path = strings.TrimPrefix(path, "~/")
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

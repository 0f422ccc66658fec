package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"text", "json"}
	validConfigFormats = []string{"", "hcl", "yaml"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspaceRoot string
	// ConfigFormat forces a loader ("hcl" or "yaml"). Empty detects it.
	ConfigFormat string

	LogFormat string
	LogLevel  string
	// MatchCacheSize bounds the affected-file match cache. Zero uses the
	// detector default.
	MatchCacheSize int
}

// NewConfig validates cfg and resolves the workspace root to an absolute
// path.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspaceRoot == "" {
		return nil, errors.New("WorkspaceRoot is a required configuration field and cannot be empty")
	}
	root, err := filepath.Abs(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace root %q: %w", cfg.WorkspaceRoot, err)
	}
	cfg.WorkspaceRoot = root

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if !slices.Contains(validConfigFormats, cfg.ConfigFormat) {
		return nil, fmt.Errorf("invalid config format %q: must be 'hcl' or 'yaml'", cfg.ConfigFormat)
	}
	if cfg.MatchCacheSize < 0 {
		return nil, errors.New("MatchCacheSize cannot be negative")
	}
	return &cfg, nil
}

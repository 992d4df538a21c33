// Package config loads cmdtree configuration from .cmdtree/config.yaml
// with environment variable overrides, and can watch the file for
// changes so manager settings flip between insertions without a restart.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the per-workspace configuration directory.
const ConfigDirName = ".cmdtree"

// ConfigFileName is the configuration file inside ConfigDirName.
const ConfigFileName = "config.yaml"

// Config holds all cmdtree configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Tree configures the dispatch tree manager settings.
	Tree TreeConfig `yaml:"tree"`

	// Logging controls the categorized debug logs.
	Logging LoggingConfig `yaml:"logging"`

	// Repl configures the interactive shell.
	Repl ReplConfig `yaml:"repl"`
}

// TreeConfig mirrors the manager settings recognized by the tree core.
type TreeConfig struct {
	// LiberalFlagParsing allows flags after the last literal and after
	// every component that follows it, instead of only at the command
	// tail.
	LiberalFlagParsing bool `yaml:"liberal_flag_parsing"`

	// EnforceIntermediaryPermissions makes a mid-path executor's
	// permission override the aggregated child permissions.
	EnforceIntermediaryPermissions bool `yaml:"enforce_intermediary_permissions"`
}

// LoggingConfig controls the categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// ReplConfig configures the interactive shell.
type ReplConfig struct {
	Prompt      string `yaml:"prompt"`
	HistorySize int    `yaml:"history_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:    "cmdtree",
		Version: "1.0.0",
		Logging: LoggingConfig{
			Level: "debug",
		},
		Repl: ReplConfig{
			Prompt:      "> ",
			HistorySize: 200,
		},
	}
}

// Path returns the configuration file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ConfigDirName, ConfigFileName)
}

// Load reads the workspace configuration, falling back to defaults when
// the file does not exist, then applies environment overrides.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(workspace))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file; defaults plus env overrides apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to the workspace, creating the directory
// if needed.
func Save(workspace string, cfg *Config) error {
	dir := filepath.Join(workspace, ConfigDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(Path(workspace), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets CMDTREE_* environment variables override file
// values, so hosts can flip settings without editing the file.
func applyEnvOverrides(cfg *Config) {
	if v, ok := boolEnv("CMDTREE_LIBERAL_FLAG_PARSING"); ok {
		cfg.Tree.LiberalFlagParsing = v
	}
	if v, ok := boolEnv("CMDTREE_ENFORCE_INTERMEDIARY_PERMISSIONS"); ok {
		cfg.Tree.EnforceIntermediaryPermissions = v
	}
	if v, ok := boolEnv("CMDTREE_DEBUG"); ok {
		cfg.Logging.DebugMode = v
	}
	if v := os.Getenv("CMDTREE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func boolEnv(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Package config handles global nagmodel configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// Config represents the global nagmodel configuration.
type Config struct {
	// Store selects the definition backend: "yaml" (default) or "sqlite".
	Store string `toml:"store"`

	// Snapshot is the YAML snapshot file read by the yaml store.
	// Relative paths are resolved against the config file's directory.
	Snapshot string `toml:"snapshot"`

	// Database is the SQLite file used by the sqlite store and by import.
	Database string `toml:"database"`

	// AuditLog is the JSONL file receiving every persisted change.
	// Empty disables the audit log.
	AuditLog string `toml:"audit_log"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered code blocks.
	CodeTheme string `toml:"code_theme"`
}

// StoreKind returns the normalized store backend name.
func (c *Config) StoreKind() string {
	kind := strings.ToLower(strings.TrimSpace(c.Store))
	if kind == "" {
		return StoreYAML
	}
	return kind
}

// Validate checks field values that cannot be checked by decoding.
func (c *Config) Validate() error {
	switch c.StoreKind() {
	case StoreYAML, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (expected %s or %s)", c.Store, StoreYAML, StoreSQLite)
	}
	return nil
}

// LoadPath loads the configuration at path, returning a default config
// when the file doesn't exist.
func LoadPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// ResolvePath resolves a path value from the config file. Relative values
// are taken relative to the config file's directory; empty stays empty.
func ResolvePath(configPath, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, filepath.FromSlash(value[2:]))
		}
	}
	if isAbsolutePath(value) {
		return filepath.Clean(filepath.FromSlash(value))
	}
	return filepath.Join(filepath.Dir(configPath), filepath.FromSlash(value))
}

func isAbsolutePath(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	// Treat slash-rooted config values as absolute on every OS.
	return strings.HasPrefix(filepath.ToSlash(p), "/")
}

// DefaultPath returns the default config file path.
// Checks ~/.config/nagmodel/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "nagmodel", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "nagmodel", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# nagmodel configuration

# Definition backend: "yaml" reads a snapshot file, "sqlite" a database
# built with "nagmodel import".
# store = "yaml"

# Paths are relative to this file unless absolute.
# snapshot = "objects.yaml"
# database = "objects.db"

# Every saved change is appended here as JSON lines. Empty disables it.
# audit_log = "audit.jsonl"

# log_level = "info"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefaultAt creates a default config file at path if it doesn't exist.
func CreateDefaultAt(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

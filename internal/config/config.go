// Package config handles configuration and prompt profiles for chatbot.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration. The API key is never stored here.
type Config struct {
	Model string `json:"model"`
	// BaseURL points the client at an OpenAI-compatible endpoint. Empty means api.openai.com.
	BaseURL        string `json:"base_url,omitempty"`
	DefaultProfile string `json:"default_profile"`
	// RequestTimeout is the per-turn timeout in seconds. Zero leaves the client default.
	RequestTimeout  int            `json:"request_timeout,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	ExportDir       string         `json:"export_dir,omitempty"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogLevel        string         `json:"log_level,omitempty"`
	Telemetry       bool           `json:"telemetry"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// EnvHome overrides the configuration directory
const EnvHome = "CHATBOT_HOME"

// EnvAPIKey is read when no key was entered interactively
const EnvAPIKey = "OPENAI_API_KEY"

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:           "gpt-3.5-turbo",
		DefaultProfile:  string(ProfileTravel),
		CopyToClipboard: false,
		ExportDir:       ".",
		TUITheme:        "tokyonight",
		LogLevel:        "info",
		Telemetry:       false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return filepath.Abs(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatbot"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogDir returns the directory for log, trace and metric files
func GetLogDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SettableKeys lists the keys accepted by Set, in display order
func SettableKeys() []string {
	return []string{
		"model",
		"base_url",
		"default_profile",
		"request_timeout",
		"copy_to_clipboard",
		"export_dir",
		"tui_theme",
		"log_level",
		"telemetry",
		"markdown.style",
	}
}

// Set assigns a single configuration value from its string form
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "model":
		if value == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.Model = value
	case "base_url":
		c.BaseURL = value
	case "default_profile":
		id, err := ParseProfileID(value)
		if err != nil {
			return err
		}
		c.DefaultProfile = string(id)
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative number of seconds")
		}
		c.RequestTimeout = n
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false")
		}
		c.CopyToClipboard = b
	case "export_dir":
		c.ExportDir = value
	case "tui_theme":
		c.TUITheme = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("log_level must be one of debug, info, warn, error")
		}
	case "telemetry":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("telemetry must be true or false")
		}
		c.Telemetry = b
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key '%s'", key)
	}

	return nil
}

// APIKeyFromEnv returns the API key from the environment, if any
func APIKeyFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the application configuration
type Config struct {
	// CacheRoot is where per-document text/render caches and metadata live
	CacheRoot string `json:"cache_root"`
	// Renderer overrides terminal image backend selection: "wezterm" or "chafa"
	Renderer     string `json:"renderer,omitempty"`
	SidebarWidth int    `json:"sidebar_width"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheRoot:    "~/.cache/pdq",
		Renderer:     "",
		SidebarWidth: 48,
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdq"), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save saves configuration to the default config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// GetCacheRoot returns the cache root with ~ expanded
func (c *Config) GetCacheRoot() (string, error) {
	return ExpandPath(c.CacheRoot)
}

// RendererOverride resolves the backend override. The PDQ_RENDERER
// environment variable wins over the config file.
func (c *Config) RendererOverride() string {
	if v := os.Getenv("PDQ_RENDERER"); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(c.Renderer)
}

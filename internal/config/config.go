package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig
	Panel      PanelConfig
	Search     SearchConfig
	Session    SessionConfig
	Appearance AppearanceConfig
	Log        LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// PanelConfig describes the result panel surface. Reserved slots hold
// navigation controls and never show candidates.
type PanelConfig struct {
	Size     int
	Reserved int
}

// SearchConfig holds candidate matching settings.
type SearchConfig struct {
	Threshold float64
}

// SessionConfig bounds the lifetime of per-actor search sessions.
type SessionConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// AppearanceConfig controls how entity icons are looked up. An empty
// RemoteURL keeps lookups local.
type AppearanceConfig struct {
	RemoteURL string `mapstructure:"remote_url"`
	Timeout   time.Duration
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	File       string
	Level      string
	Production bool
}

// Usable returns the number of slots available to candidates.
func (p PanelConfig) Usable() int {
	return p.Size - p.Reserved
}

// Load reads configuration from file and env. Env var overrides use prefix FRIENDSEARCH_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FRIENDSEARCH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "friendsearch"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FRIENDSEARCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "friendsearch", "friendsearch.db"))
	v.SetDefault("panel.size", 27)
	v.SetDefault("panel.reserved", 2)
	v.SetDefault("search.threshold", 0.3)
	v.SetDefault("session.ttl", 10*time.Minute)
	v.SetDefault("session.cleanup", time.Minute)
	v.SetDefault("appearance.remote_url", "")
	v.SetDefault("appearance.timeout", 3*time.Second)
	v.SetDefault("appearance.cache_ttl", 30*time.Minute)
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "friendsearch", "friendsearch.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.production", false)
}

// Validate rejects settings the search panel cannot work with.
func (c Config) Validate() error {
	if c.Panel.Size <= 0 {
		return fmt.Errorf("panel.size must be positive, got %d", c.Panel.Size)
	}
	if c.Panel.Reserved < 0 || c.Panel.Reserved >= c.Panel.Size {
		return fmt.Errorf("panel.reserved must be in [0,%d), got %d", c.Panel.Size, c.Panel.Reserved)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be in [0,1], got %v", c.Search.Threshold)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("FRIENDSEARCH_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "friendsearch", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("panel.size", cfg.Panel.Size)
	v.Set("panel.reserved", cfg.Panel.Reserved)
	v.Set("search.threshold", cfg.Search.Threshold)
	v.Set("session.ttl", cfg.Session.TTL.String())
	v.Set("session.cleanup", cfg.Session.Cleanup.String())
	v.Set("appearance.remote_url", cfg.Appearance.RemoteURL)
	v.Set("appearance.timeout", cfg.Appearance.Timeout.String())
	v.Set("appearance.cache_ttl", cfg.Appearance.CacheTTL.String())
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.production", cfg.Log.Production)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

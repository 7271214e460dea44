package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// StoreConfig selects where tasks live
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // local or remote
	Path    string `yaml:"path" mapstructure:"path"`       // SQLite file or postgres:// URL for local
	URL     string `yaml:"url" mapstructure:"url"`         // ironfocus-server base URL for remote
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// Config holds user preferences
type Config struct {
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" mapstructure:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" mapstructure:"log_console"` // Enable console logging
}

// Dir returns ~/.ironfocus
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ironfocus"
	}
	return filepath.Join(home, ".ironfocus")
}

// DefaultPath returns ~/.ironfocus/config.yaml
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Store: StoreConfig{
			Backend: BackendLocal,
			Path:    filepath.Join(dir, "tasks.db"),
			URL:     "http://localhost:8080",
		},
		LogLevel:   "INFO",
		LogFile:    filepath.Join(dir, "logs", "ironfocus.log"),
		LogConsole: false,
	}
}

func newViper(path string, env bool) *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Every key needs a default so IRONFOCUS_* env vars reach Unmarshal.
	v.SetDefault("store.backend", def.Store.Backend)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("store.url", def.Store.URL)
	v.SetDefault("store.api_key", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_console", def.LogConsole)

	if env {
		v.SetEnvPrefix("IRONFOCUS")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return v
}

// Load loads config from ~/.ironfocus/config.yaml
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the YAML file at path over the defaults and applies
// IRONFOCUS_* environment overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

// LoadFileFrom is LoadFrom without the environment overrides. Use it for
// anything that is written back to disk.
func LoadFileFrom(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, env bool) (*Config, error) {
	v := newViper(path, env)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	return cfg, nil
}

// Update applies fn to the config file at ~/.ironfocus/config.yaml
func Update(fn func(*Config)) error {
	return UpdateFile(DefaultPath(), fn)
}

// UpdateFile loads the file at path without environment overrides, applies
// fn and writes it back, so values that only came from IRONFOCUS_* are
// never persisted.
func UpdateFile(path string, fn func(*Config)) error {
	cfg, err := LoadFileFrom(path)
	if err != nil {
		return err
	}
	fn(cfg)
	return cfg.SaveTo(path)
}

// Validate checks the store selection
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendLocal:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the local backend")
		}
	case BackendRemote:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want %s or %s)", c.Store.Backend, BackendLocal, BackendRemote)
	}
	return nil
}

// Save saves config to ~/.ironfocus/config.yaml
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the config as YAML to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// May hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

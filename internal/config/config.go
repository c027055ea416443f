package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	appName    = "todo"
	configFile = "config.toml"

	// DefaultPriority is the priority given to tasks added without one.
	DefaultPriority = 1
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Tasks   TasksConfig   `toml:"tasks"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where tasks are persisted
type StorageConfig struct {
	Backend string `toml:"backend" env:"TODO_BACKEND"`
	// Path is left empty to use the backend's default file in the
	// working directory.
	Path string `toml:"path,omitempty" env:"TODO_FILE"`
}

// TasksConfig holds defaults applied when tasks are added or queried
type TasksConfig struct {
	DefaultPriority int  `toml:"default_priority" env:"TODO_DEFAULT_PRIORITY"`
	DedupeQuery     bool `toml:"dedupe_query" env:"TODO_DEDUPE_QUERY"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `toml:"level" env:"TODO_LOG_LEVEL"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "file",
		},
		Tasks: TasksConfig{
			DefaultPriority: DefaultPriority,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Path returns the standard config file location
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName, configFile), nil
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path. Environment variables
// override values from the file.
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// No config file, keep defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// Expand home directory in paths
	if cfg.Storage.Path != "" {
		cfg.Storage.Path = expandPath(cfg.Storage.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently
func (c *Config) Validate() error {
	if c.Tasks.DefaultPriority < 0 {
		return fmt.Errorf("tasks.default_priority must not be negative, got %d", c.Tasks.DefaultPriority)
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() (string, error) {
	configPath, err := Path()
	if err != nil {
		return "", err
	}
	return configPath, c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}

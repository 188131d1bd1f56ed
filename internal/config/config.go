package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// Memory backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultMemoryFile is the transcript file name used when none is configured
const DefaultMemoryFile = "chatbot_memory.json"

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. Manually set via SetConfigDir, 2. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		// Default to ./config in current working directory
		cwd, err := os.Getwd()
		if err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Memory  MemoryConfig  `yaml:"memory"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// BotConfig bot identity
type BotConfig struct {
	Name string `yaml:"name"`
}

// MemoryConfig memory storage configuration
type MemoryConfig struct {
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	FlushEvery int    `yaml:"flush_every"`
}

// CatalogConfig response catalog configuration
type CatalogConfig struct {
	// Path of a YAML catalog replacing the built-in one. Empty means built-in.
	Path string `yaml:"path"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level   string `yaml:"level"`
	MaxDays int    `yaml:"max_days"`
	Console bool   `yaml:"console"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Name: "ChatBot",
		},
		Memory: MemoryConfig{
			Backend:    BackendJSON,
			Path:       DefaultMemoryFile,
			FlushEvery: 5,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
		Log: LogConfig{
			Level:   "info",
			MaxDays: 7,
			Console: false,
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// LogDir returns the log directory path
func LogDir() string {
	dir := GetConfigDir()
	if dir == "" {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from file, creating a default one on first run
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config
	cfg := DefaultConfig() // Use default values as base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Serialize config
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Add header comment
	content := "# ChatBot Configuration File\n# memory.backend: json | sqlite\n\n" + string(data)

	// Write file
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Name) == "" {
		return fmt.Errorf("config error: bot.name cannot be empty")
	}

	switch strings.ToLower(strings.TrimSpace(c.Memory.Backend)) {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config error: memory.backend must be %q or %q, got %q",
			BackendJSON, BackendSQLite, c.Memory.Backend)
	}
	if strings.TrimSpace(c.Memory.Path) == "" {
		return fmt.Errorf("config error: memory.path cannot be empty")
	}
	if c.Memory.FlushEvery <= 0 {
		return fmt.Errorf("config error: memory.flush_every must be greater than 0")
	}

	if c.Log.MaxDays < 0 {
		return fmt.Errorf("config error: log.max_days cannot be negative")
	}

	return nil
}

// MemoryBackend returns the normalized backend name
func (c *Config) MemoryBackend() string {
	return strings.ToLower(strings.TrimSpace(c.Memory.Backend))
}

// MemoryPath resolves the memory file path.
// Relative paths are taken as-is, i.e. relative to the working directory,
// like the transcript file always has been.
func (c *Config) MemoryPath() string {
	return filepath.Clean(c.Memory.Path)
}

// CatalogPath resolves the custom catalog path, or "" for the built-in catalog.
// Relative paths are looked up in the config directory.
func (c *Config) CatalogPath() string {
	p := strings.TrimSpace(c.Catalog.Path)
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	dir, err := ConfigDir()
	if err != nil {
		return p
	}
	return filepath.Join(dir, p)
}

// String returns string representation of config
func (c *Config) String() string {
	catalog := c.Catalog.Path
	if catalog == "" {
		catalog = "(built-in)"
	}

	return fmt.Sprintf(`ChatBot Configuration:
  Bot:
    Name: %s
  Memory:
    Backend: %s
    Path: %s
    Flush Every: %d
  Catalog:
    Path: %s
  Log:
    Level: %s
    Max Days: %d
    Console: %v`,
		c.Bot.Name,
		c.Memory.Backend,
		c.Memory.Path,
		c.Memory.FlushEvery,
		catalog,
		c.Log.Level,
		c.Log.MaxDays,
		c.Log.Console,
	)
}

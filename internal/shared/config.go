package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Autosave AutosaveConfig `toml:"autosave"`
	Log      LogConfig      `toml:"log"`
}

// StorageConfig locates the flat files holding the catalog and the play queue.
type StorageConfig struct {
	CatalogPath string `toml:"catalog_path"`
	QueuePath   string `toml:"queue_path"`
}

// DatabaseConfig contains settings for the snapshot archive database.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AutosaveConfig controls background persistence of the library.
type AutosaveConfig struct {
	Enabled         bool `toml:"enabled"`
	IntervalSeconds int  `toml:"interval_seconds"`
}

// Interval returns the minimum spacing between two autosaves.
func (a AutosaveConfig) Interval() time.Duration {
	return time.Duration(a.IntervalSeconds) * time.Second
}

// LogConfig contains logger settings. An empty File logs to stderr.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports configuration values the application cannot run with.
func (c *Config) Validate() error {
	if c.Storage.CatalogPath == "" {
		return fmt.Errorf("%w: storage.catalog_path is empty", ErrInvalidConfig)
	}
	if c.Storage.QueuePath == "" {
		return fmt.Errorf("%w: storage.queue_path is empty", ErrInvalidConfig)
	}
	if c.Storage.CatalogPath == c.Storage.QueuePath {
		return fmt.Errorf("%w: catalog and queue cannot share a file", ErrInvalidConfig)
	}
	if c.Autosave.IntervalSeconds < 0 {
		return fmt.Errorf("%w: autosave.interval_seconds must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

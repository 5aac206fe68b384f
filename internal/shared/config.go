package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	AudioStation AudioStationConfig `toml:"audiostation"`
	Import       ImportConfig       `toml:"import"`
	Database     DatabaseConfig     `toml:"database"`
}

// AudioStationConfig contains Synology AudioStation connection settings.
type AudioStationConfig struct {
	Host             string `toml:"host"`
	Username         string `toml:"username"`
	Password         string `toml:"password"`
	DeviceName       string `toml:"device_name"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	AllowInsecureTLS bool   `toml:"allow_insecure_tls"`
}

// ImportConfig contains reconciliation defaults.
type ImportConfig struct {
	Threshold int `toml:"threshold"`
	PageSize  int `toml:"page_size"`
	Workers   int `toml:"workers"` // 0 means one per available CPU
}

// DatabaseConfig contains database connection settings for run history.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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

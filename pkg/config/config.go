// Package config loads the server configuration from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPort is the well-known listener port.
const DefaultPort = 4005

// Config is the application configuration.
type Config struct {
	// Port is the TCP port to bind; 0 asks the OS for an ephemeral
	// port, which only makes sense together with PortFile.
	Port int `json:"port"`

	// PortFile, when set, receives the decimal bound port number at
	// startup so clients can discover an ephemeral port.
	PortFile string `json:"portFile,omitempty"`

	Log *LogConfig `json:"log,omitempty"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // debug, info, warn, error
	File   string `json:"file,omitempty"`   // log file path (empty = console only)
	Prefix string `json:"prefix,omitempty"` // log line prefix
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port: DefaultPort,
		Log:  &LogConfig{Level: "info", Prefix: "[swank] "},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

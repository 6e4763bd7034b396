// File: config.go
// Title: Daemon Configuration
// Description: Defines the scpid configuration structure and loading from
//              TOML or YAML files, selected by file extension. Missing files
//              fall back to built-in defaults so the daemon can start with
//              no configuration at all.
// Version: v0.1.0
// Created: 2025-08-26

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the complete scpid configuration
type Config struct {
	General    GeneralConfig    `toml:"general" yaml:"general"`
	Instrument InstrumentConfig `toml:"instrument" yaml:"instrument"`
	Server     ServerConfig     `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// InstrumentConfig holds instrument identity and interpreter settings
type InstrumentConfig struct {
	Manufacturer string `toml:"manufacturer" yaml:"manufacturer"`
	Model        string `toml:"model" yaml:"model"`
	SerialNumber string `toml:"serial_number" yaml:"serial_number"`
	Firmware     string `toml:"firmware" yaml:"firmware"`

	// ErrorQueueDepth bounds the SCPI error queue (entries beyond the
	// bound overwrite the newest entry with a queue-overflow error)
	ErrorQueueDepth int `toml:"error_queue_depth" yaml:"error_queue_depth"`
}

// ServerConfig holds the line-transport listener settings
type ServerConfig struct {
	TCP       TCPConfig       `toml:"tcp" yaml:"tcp"`
	WebSocket WebSocketConfig `toml:"websocket" yaml:"websocket"`
}

// TCPConfig configures the raw TCP line transport
type TCPConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Address string `toml:"address" yaml:"address"`
}

// WebSocketConfig configures the WebSocket line transport
type WebSocketConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Address string `toml:"address" yaml:"address"`
	Path    string `toml:"path" yaml:"path"`
}

// Default returns the built-in default configuration
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Instrument: InstrumentConfig{
			Manufacturer:    "stonerlab",
			Model:           "goscpi",
			SerialNumber:    "0",
			Firmware:        "0.1.0",
			ErrorQueueDepth: 32,
		},
		Server: ServerConfig{
			TCP: TCPConfig{
				Enabled: true,
				Address: "127.0.0.1:5025",
			},
			WebSocket: WebSocketConfig{
				Enabled: false,
				Address: "127.0.0.1:5026",
				Path:    "/scpi",
			},
		},
	}
}

// Load reads a configuration file, merging it over the defaults.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the given file if the path is non-empty and the file
// exists; otherwise it returns the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Instrument.ErrorQueueDepth <= 0 {
		return fmt.Errorf("instrument.error_queue_depth must be positive, got %d", c.Instrument.ErrorQueueDepth)
	}
	if c.Server.TCP.Enabled && c.Server.TCP.Address == "" {
		return fmt.Errorf("server.tcp.address must be set when the TCP transport is enabled")
	}
	if c.Server.WebSocket.Enabled {
		if c.Server.WebSocket.Address == "" {
			return fmt.Errorf("server.websocket.address must be set when the WebSocket transport is enabled")
		}
		if !strings.HasPrefix(c.Server.WebSocket.Path, "/") {
			return fmt.Errorf("server.websocket.path must start with /, got %q", c.Server.WebSocket.Path)
		}
	}
	return nil
}

// Package config holds the server configuration and loads it from defaults,
// an optional TOML or YAML file, and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultPort       = "8080"
	DefaultRootFolder = "."
	DefaultLogLevel   = "info"
)

// LogLevelEnv is the environment variable that overrides the log level.
const LogLevelEnv = "LOG_LEVEL"

// Config is the server configuration. It is not modified after startup.
type Config struct {
	// Port is the TCP port to listen on. It is not validated.
	Port string
	// RootFolder is the directory pages are served from.
	RootFolder string
	// LogLevel is a level name understood by logging.ParseLevel.
	LogLevel string
	// MaxConnections caps concurrently served connections. Zero means no limit.
	MaxConnections int
	// ReadTimeout bounds the request read. Zero means no timeout.
	ReadTimeout time.Duration
	// WriteTimeout bounds the response write. Zero means no timeout.
	WriteTimeout time.Duration
}

// fileConfig mirrors the keys accepted in a config file. Pointers tell an
// absent key apart from a zero value.
type fileConfig struct {
	Port           *string `toml:"port" yaml:"port"`
	RootFolder     *string `toml:"root_folder" yaml:"root_folder"`
	LogLevel       *string `toml:"log_level" yaml:"log_level"`
	MaxConnections *int    `toml:"max_connections" yaml:"max_connections"`
	ReadTimeout    *string `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   *string `toml:"write_timeout" yaml:"write_timeout"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		Port:       DefaultPort,
		RootFolder: DefaultRootFolder,
		LogLevel:   DefaultLogLevel,
	}
}

// LoadFile returns Default() overlaid with the settings in path. The format
// is chosen by extension: .toml, .yaml or .yml.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config file extension %q", ext)
	}

	if err := fc.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.RootFolder != nil {
		cfg.RootFolder = *fc.RootFolder
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.MaxConnections != nil {
		cfg.MaxConnections = *fc.MaxConnections
	}
	if fc.ReadTimeout != nil {
		d, err := time.ParseDuration(*fc.ReadTimeout)
		if err != nil {
			return fmt.Errorf("read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if fc.WriteTimeout != nil {
		d, err := time.ParseDuration(*fc.WriteTimeout)
		if err != nil {
			return fmt.Errorf("write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}
	return nil
}

// ApplyEnv overrides settings from the environment through getenv,
// typically os.Getenv. Only LOG_LEVEL is consulted.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if lvl := getenv(LogLevelEnv); lvl != "" {
		c.LogLevel = lvl
	}
}

// Validate rejects negative limits and timeouts. Neither the port range nor
// the existence of the root folder is checked.
func (c Config) Validate() error {
	if c.MaxConnections < 0 {
		return fmt.Errorf("max connections must not be negative, got %d", c.MaxConnections)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("read timeout must not be negative, got %s", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("write timeout must not be negative, got %s", c.WriteTimeout)
	}
	return nil
}

// Addr returns the listen address, always on localhost.
func (c Config) Addr() string {
	return "localhost:" + c.Port
}

// Package config loads the adapter's YAML configuration file.
package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Config is the full configuration consumed by the CLI and services.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// DatabaseConfig identifies the engine connection. The driver must be
// registered with database/sql by the embedding program.
type DatabaseConfig struct {
	// DriverName is the registered database/sql driver name.
	DriverName string `yaml:"driver"`

	// DSN is the full data source name / connection string.
	DSN string `yaml:"dsn"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// ServerConfig configures the HTTP schema-inspection service.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SnapshotConfig configures the object-store snapshot backend.
type SnapshotConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{DriverName: "sqlanywhere"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML configuration file, applying defaults for anything
// the file leaves unset.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = os.Getenv("SQLANY_DSN")
	}
	return cfg, nil
}

// Package config provides configuration management for the duckframe CLI.
package config

import "github.com/leapstack-labs/duckframe/pkg/core"

// EngineConfig selects and configures the SQL engine.
type EngineConfig struct {
	Type     string            `koanf:"type"`
	Database string            `koanf:"database"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Schema   string            `koanf:"schema"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// Core converts the CLI engine section to the engine connection config.
func (e *EngineConfig) Core() core.EngineConfig {
	return core.EngineConfig{
		Type:     e.Type,
		Path:     e.Database,
		Database: e.Database,
		Host:     e.Host,
		Port:     e.Port,
		Username: e.User,
		Password: e.Password,
		Schema:   e.Schema,
		Options:  e.Options,
		Params:   e.Params,
	}
}

// Config holds all CLI configuration options.
type Config struct {
	Engine      *EngineConfig `koanf:"engine"`
	AppName     string        `koanf:"app_name"`
	HistoryPath string        `koanf:"history_path"`
	Output      string        `koanf:"output"`
	Verbose     bool          `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultEngine      = "duckdb"
	DefaultDatabase    = ":memory:"
	DefaultAppName     = "duckframe"
	DefaultHistoryFile = ".duckframe/history.db"
	DefaultOutput      = "table"
)

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Engine:      &EngineConfig{Type: DefaultEngine, Database: DefaultDatabase},
		AppName:     DefaultAppName,
		HistoryPath: DefaultHistoryFile,
		Output:      DefaultOutput,
	}
}

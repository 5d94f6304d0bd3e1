// Package config loads binmcp settings from an optional JSON file and
// BINMCP_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/japaniel/binmcp/pkg/dictionary"
)

// Transports accepted in Config.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the complete binmcp configuration.
type Config struct {
	// DataDir holds the database, the downloaded archive and logs.
	DataDir   string        `json:"data_dir" mapstructure:"data_dir"`
	Database  string        `json:"database" mapstructure:"database"`
	Transport string        `json:"transport" mapstructure:"transport"`
	Source    SourceConfig  `json:"source" mapstructure:"source"`
	HTTP      HTTPConfig    `json:"http" mapstructure:"http"`
	Logging   LoggingConfig `json:"logging" mapstructure:"logging"`
	Ingest    IngestConfig  `json:"ingest" mapstructure:"ingest"`
}

// SourceConfig says where the BÍN export comes from.
type SourceConfig struct {
	URL  string `json:"url" mapstructure:"url"`
	Path string `json:"path" mapstructure:"path"`
	// AutoImport builds the database on serve when it is missing.
	AutoImport bool `json:"auto_import" mapstructure:"auto_import"`
}

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
}

// LoggingConfig configures pkg/logger.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// IngestConfig tunes the import.
type IngestConfig struct {
	Workers   int `json:"workers" mapstructure:"workers"`
	BatchSize int `json:"batch_size" mapstructure:"batch_size"`
	// FlushInterval commits a partial batch after this long. Zero flushes by size only.
	FlushInterval time.Duration `json:"flush_interval" mapstructure:"flush_interval"`
}

// DefaultConfig returns the built-in settings. Paths are left empty and
// filled in from DataDir by Load.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportStdio,
		Source: SourceConfig{
			URL:        dictionary.DefaultURL,
			AutoImport: true,
		},
		HTTP: HTTPConfig{
			Addr:     "127.0.0.1:8080",
			Endpoint: "/mcp",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Ingest: IngestConfig{
			Workers:       4,
			BatchSize:     5000,
			FlushInterval: 2 * time.Second,
		},
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q (want %s or %s)", c.Transport, TransportStdio, TransportHTTP)
	}
	if c.Transport == TransportHTTP {
		if c.HTTP.Addr == "" {
			return fmt.Errorf("http.addr is required for the http transport")
		}
		if !strings.HasPrefix(c.HTTP.Endpoint, "/") {
			return fmt.Errorf("http.endpoint must start with /: %q", c.HTTP.Endpoint)
		}
	}
	if c.Database == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be positive, got %d", c.Ingest.Workers)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("ingest.batch_size must be positive, got %d", c.Ingest.BatchSize)
	}
	if c.Ingest.FlushInterval < 0 {
		return fmt.Errorf("ingest.flush_interval must not be negative, got %s", c.Ingest.FlushInterval)
	}
	return nil
}

// DefaultDataDir returns ~/.binmcp.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".binmcp"), nil
}

func (c *Config) fillPaths() error {
	if c.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return err
		}
		c.DataDir = dir
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.DataDir, "bin.db")
	}
	if c.Source.Path == "" {
		c.Source.Path = filepath.Join(c.DataDir, "SHsnid.csv.zip")
	}
	return nil
}

// bindDefaults registers every key so that environment variables override
// them even when the key is absent from the file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("source.url", cfg.Source.URL)
	v.SetDefault("source.path", cfg.Source.Path)
	v.SetDefault("source.auto_import", cfg.Source.AutoImport)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.endpoint", cfg.HTTP.Endpoint)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
	v.SetDefault("ingest.workers", cfg.Ingest.Workers)
	v.SetDefault("ingest.batch_size", cfg.Ingest.BatchSize)
	v.SetDefault("ingest.flush_interval", cfg.Ingest.FlushInterval)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewLoader(filepath.Join(dir, "nonexistent.json")).Load()
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "/mcp", cfg.HTTP.Endpoint)
	assert.True(t, cfg.Source.AutoImport)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 5000, cfg.Ingest.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Ingest.FlushInterval)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "bin.db"), cfg.Database)
	assert.Equal(t, filepath.Join(cfg.DataDir, "SHsnid.csv.zip"), cfg.Source.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")

	testConfig := `{
		"data_dir": "` + dir + `",
		"transport": "http",
		"http": {"addr": ":9000"},
		"logging": {"level": "debug", "pretty": true},
		"ingest": {"workers": 8, "flush_interval": "500ms"}
	}`
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "/mcp", cfg.HTTP.Endpoint)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, 8, cfg.Ingest.Workers)
	assert.Equal(t, 5000, cfg.Ingest.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.FlushInterval)
	assert.Equal(t, filepath.Join(dir, "bin.db"), cfg.Database)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"transport": "stdio"}`), 0644))

	t.Setenv("BINMCP_TRANSPORT", "http")
	t.Setenv("BINMCP_DATABASE", filepath.Join(dir, "other.db"))
	t.Setenv("BINMCP_SOURCE_AUTO_IMPORT", "false")
	t.Setenv("BINMCP_INGEST_BATCH_SIZE", "250")
	t.Setenv("BINMCP_INGEST_FLUSH_INTERVAL", "0s")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, filepath.Join(dir, "other.db"), cfg.Database)
	assert.False(t, cfg.Source.AutoImport)
	assert.Equal(t, 250, cfg.Ingest.BatchSize)
	assert.Zero(t, cfg.Ingest.FlushInterval)
}

func TestLoadInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{not json`), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Database = "/tmp/bin.db"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown transport", func(c *Config) { c.Transport = "grpc" }},
		{"http without addr", func(c *Config) { c.Transport = TransportHTTP; c.HTTP.Addr = "" }},
		{"relative endpoint", func(c *Config) { c.Transport = TransportHTTP; c.HTTP.Endpoint = "mcp" }},
		{"empty database", func(c *Config) { c.Database = "" }},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }},
		{"negative batch size", func(c *Config) { c.Ingest.BatchSize = -1 }},
		{"negative flush interval", func(c *Config) { c.Ingest.FlushInterval = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "/path/to/config.json", NewLoader("/path/to/config.json").GetConfigPath())

	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".binmcp", "config.json"), NewLoader("").GetConfigPath())
}

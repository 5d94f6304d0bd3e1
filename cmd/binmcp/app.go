package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/japaniel/binmcp/pkg/config"
	"github.com/japaniel/binmcp/pkg/db"
	"github.com/japaniel/binmcp/pkg/dictionary"
	"github.com/japaniel/binmcp/pkg/ingest"
	"github.com/japaniel/binmcp/pkg/logger"
)

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("database") {
		cfg.Database, _ = flags.GetString("database")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("transport"); f != nil && f.Changed {
		cfg.Transport = f.Value.String()
	}
	if f := flags.Lookup("http-addr"); f != nil && f.Changed {
		cfg.HTTP.Addr = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes to the command's stderr so stdout stays free for MCP.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Pretty:  cfg.Logging.Pretty,
		Console: cmd.ErrOrStderr(),
	})
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// buildDatabase imports the BÍN export into cfg.Database. source is a local
// file or an http(s) URL; empty means the configured source. The database is
// built next to the target and renamed into place when complete, so a running
// server never sees a partial import.
func buildDatabase(ctx context.Context, cfg *config.Config, source string, log zerolog.Logger) (ingest.Stats, error) {
	var stats ingest.Stats
	importID := uuid.NewString()
	log = log.With().Str("import_id", importID).Logger()

	archive := source
	if source == "" || isURL(source) {
		url := source
		if url == "" {
			url = cfg.Source.URL
		}
		archive = cfg.Source.Path
		log.Info().Str("url", url).Str("path", archive).Msg("ensuring BÍN export")
		if err := os.MkdirAll(filepath.Dir(archive), 0755); err != nil {
			return stats, fmt.Errorf("create source directory: %w", err)
		}
		fetch := dictionary.EnsureDictionary
		if isURL(source) {
			// An explicit URL always fetches a fresh copy.
			fetch = dictionary.Download
		}
		if err := fetch(ctx, url, archive); err != nil {
			return stats, fmt.Errorf("fetch BÍN export: %w", err)
		}
		if source == "" {
			source = url
		}
	}

	r, err := dictionary.Open(archive)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", archive, err)
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return stats, fmt.Errorf("create database directory: %w", err)
	}
	tmpPath := cfg.Database + ".importing"
	os.Remove(tmpPath)
	conn, err := db.OpenWritable(tmpPath)
	if err != nil {
		return stats, fmt.Errorf("open database: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	ig := ingest.NewIngester(conn)
	ig.Workers = cfg.Ingest.Workers
	ig.BatchSize = cfg.Ingest.BatchSize
	ig.FlushInterval = cfg.Ingest.FlushInterval
	ig.Logger = &log
	ig.OnProgress = func(n int) {
		log.Debug().Int("lines", n).Msg("import progress")
	}

	start := time.Now()
	log.Info().Str("source", archive).Str("database", cfg.Database).Msg("importing BÍN")
	stats, err = ig.Import(ctx, r)
	if err != nil {
		conn.Close()
		return stats, fmt.Errorf("import: %w", err)
	}
	if stats.Imported == 0 {
		conn.Close()
		return stats, fmt.Errorf("import: %s contains no forms", archive)
	}

	meta := map[string]string{
		db.MetaImportID:   importID,
		db.MetaSource:     source,
		db.MetaImportedAt: time.Now().UTC().Format(time.RFC3339),
		db.MetaFormCount:  strconv.FormatInt(stats.Imported, 10),
	}
	for k, v := range meta {
		if err := db.SetMeta(ctx, conn, k, v); err != nil {
			conn.Close()
			return stats, fmt.Errorf("record import metadata: %w", err)
		}
	}
	if err := conn.Close(); err != nil {
		return stats, fmt.Errorf("close database: %w", err)
	}
	if err := os.Rename(tmpPath, cfg.Database); err != nil {
		return stats, fmt.Errorf("install database: %w", err)
	}
	committed = true

	log.Info().
		Int64("forms", stats.Imported).
		Int64("skipped", stats.Skipped).
		Dur("took", time.Since(start)).
		Msg("import complete")
	return stats, nil
}

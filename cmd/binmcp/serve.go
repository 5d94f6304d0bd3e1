package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/japaniel/binmcp/pkg/bin"
	"github.com/japaniel/binmcp/pkg/config"
	"github.com/japaniel/binmcp/pkg/tools"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lexicon over MCP (stdio or streamable HTTP)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("transport", "", "MCP transport: stdio or http (default from config: stdio)")
	cmd.Flags().String("http-addr", "", "Listen address for the http transport")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lg, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer lg.Close()
	log := lg.Logger

	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) && cfg.Source.AutoImport {
		log.Info().Str("database", cfg.Database).Msg("lexicon database missing, importing")
		if _, err := buildDatabase(ctx, cfg, "", log); err != nil {
			log.Error().Err(err).Msg("auto import failed")
			return err
		}
	}

	lex, err := bin.Open(ctx, cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("cannot open lexicon")
		return fmt.Errorf("%w (run `binmcp import` first)", err)
	}
	defer lex.Close()
	if info, err := lex.ImportInfo(ctx); err == nil {
		log.Info().
			Str("database", cfg.Database).
			Str("import_id", info.ID).
			Str("source", info.Source).
			Str("imported_at", info.ImportedAt).
			Msg("lexicon opened")
	}

	s, err := tools.NewServer(lex, version, log)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case config.TransportHTTP:
		err = tools.ServeHTTP(ctx, s, cfg.HTTP.Addr, cfg.HTTP.Endpoint, log)
	default:
		err = tools.ServeStdio(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	}
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("server stopped")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

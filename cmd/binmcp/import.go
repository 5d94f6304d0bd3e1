package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build the lexicon database from a BÍN export",
		Long: "Import reads a BÍN export in Sigrúnarsnið (ord;bin_id;ofl;hluti;bmynd;mark), either a\n" +
			".csv file or the published .zip archive, and replaces the lexicon database. Without\n" +
			"--source the configured archive is used, downloading it first when missing.",
		Args: cobra.NoArgs,
		RunE: runImport,
	}
	cmd.Flags().String("source", "", "BÍN export to import: a local .csv/.zip file or an http(s) URL")
	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
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

	source, _ := cmd.Flags().GetString("source")
	stats, err := buildDatabase(ctx, cfg, source, lg.Logger)
	if err != nil {
		lg.Error().Err(err).Msg("import failed")
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d forms into %s (%d lines skipped)\n", stats.Imported, cfg.Database, stats.Skipped)
	return nil
}

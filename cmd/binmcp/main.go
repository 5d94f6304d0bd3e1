// Command binmcp serves the BÍN Icelandic lexicon to MCP clients and manages
// the local database it reads from.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "binmcp",
		Short: "Icelandic morphology (BÍN) over the Model Context Protocol",
		Long: "binmcp exposes the BÍN lexicon (Beygingarlýsing íslensks nútímamáls) as the MCP tools\n" +
			"lookup_word, get_variant and get_lemma. Without a subcommand it runs serve.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.PersistentFlags().String("config", "", "Path to config file (default: ~/.binmcp/config.json)")
	root.PersistentFlags().String("database", "", "Path to the lexicon database (default: <data_dir>/bin.db)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	addServeFlags(root)

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("binmcp version %s\n", version))

	root.AddCommand(newServeCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newLookupCmd())
	root.AddCommand(newVariantCmd())
	root.AddCommand(newLemmaCmd())
	return root
}

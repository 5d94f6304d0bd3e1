package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/japaniel/binmcp/pkg/bin"
	"github.com/japaniel/binmcp/pkg/tools"
)

// The query commands run the same adapter as the MCP tools and print the
// tool result as JSON.

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup WORD",
		Short: "Print every BÍN reading of a word form (lookup_word)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atStart, _ := cmd.Flags().GetBool("sentence-start")
			return withAdapter(cmd, func(a *tools.Adapter) (any, error) {
				return a.LookupWord(cmd.Context(), args[0], atStart)
			})
		},
	}
	cmd.Flags().Bool("sentence-start", false, "Also try the lower-case form of a capitalised word")
	return cmd
}

func newVariantCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "variant WORD CLASS [TAG...]",
		Short:   "Print the forms of a word with the given tags (get_variant)",
		Example: "  binmcp variant hestur kk ÞGF FT\n  binmcp variant fallegur lo EVB KVK",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdapter(cmd, func(a *tools.Adapter) (any, error) {
				return a.GetVariant(cmd.Context(), args[0], args[1], args[2:])
			})
		},
	}
}

func newLemmaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lemma WORD",
		Short: "Print the lemmas and word classes of a word form (get_lemma)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdapter(cmd, func(a *tools.Adapter) (any, error) {
				return a.GetLemma(cmd.Context(), args[0])
			})
		},
	}
}

func withAdapter(cmd *cobra.Command, query func(*tools.Adapter) (any, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lex, err := bin.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer lex.Close()

	res, err := query(tools.NewAdapter(lex))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

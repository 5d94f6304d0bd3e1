package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// Server identity reported in the MCP handshake.
const (
	ServerName         = "icelandic-morphology"
	ServerInstructions = "Icelandic word inflection lookups using BinPackage (BÍN)"
)

// Tool names.
const (
	ToolLookupWord = "lookup_word"
	ToolGetVariant = "get_variant"
	ToolGetLemma   = "get_lemma"
)

// Definitions returns the three tool definitions.
func Definitions() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolLookupWord,
			mcp.WithDescription("Look up an Icelandic word form and return all matching entries from BÍN. "+
				"This finds all possible interpretations of a word form, including its lemma(s), "+
				"word class(es) and grammatical tags. Returns found, search_key (the key actually "+
				"used, which may differ if z->s replacement occurred) and entries, each with lemma, "+
				"word_class, domain, inflection_form and grammatical_tag."),
			mcp.WithString("word",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description(`The Icelandic word form to look up (e.g. "hestur", "færi", "hestana")`),
			),
			mcp.WithBoolean("at_sentence_start",
				mcp.DefaultBool(false),
				mcp.Description("If true, also check lowercase forms when the word is capitalized (useful for words at the start of sentences)"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(false),
		),
		mcp.NewTool(ToolGetVariant,
			mcp.WithDescription("Get a specific grammatical variant of an Icelandic word. "+
				"This converts a word to a different case, number, person, tense, etc., "+
				`for example "hestur" to dative plural or "fallegur" to superlative. `+
				"Returns variants, each with inflection_form, grammatical_tag and lemma."),
			mcp.WithString("word",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description(`The base word to convert (e.g. "hestur", "fallegur", "fara")`),
			),
			mcp.WithString("word_class",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description(`The word class to disambiguate the word. Common values: "kk" (masculine noun), `+
					`"kvk" (feminine noun), "hk" (neuter noun), "no" (any noun), "so" (verb), "lo" (adjective)`),
			),
			mcp.WithArray("target_form",
				mcp.Required(),
				mcp.Items(map[string]any{"type": "string"}),
				mcp.Description(`List of grammatical feature tags to request, e.g. ["ÞGF"] dative, `+
					`["ÞGF", "FT"] dative plural, ["NF", "FT", "gr"] nominative plural with definite article, `+
					`["nogr"] indefinite form, ["EVB", "KVK"] superlative weak feminine, `+
					`["FH", "NT", "3P"] indicative present 3rd person`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(false),
		),
		mcp.NewTool(ToolGetLemma,
			mcp.WithDescription("Find the lemma(s) and word class(es) for an Icelandic word form. "+
				"Given any inflected form, this returns all possible base forms and their word classes "+
				"as lemmas, each with lemma and word_class."),
			mcp.WithString("word",
				mcp.Required(),
				mcp.MinLength(1),
				mcp.Description(`The word form to analyze (e.g. "hestana", "laga", "færi")`),
			),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithOpenWorldHintAnnotation(false),
		),
	}
}

// NewServer builds an MCP server exposing lex. Calls are logged to log at
// debug level, failures at warn.
func NewServer(lex Lexicon, version string, log zerolog.Logger) (*server.MCPServer, error) {
	defs := Definitions()
	validator, err := newSchemaValidator(defs)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(ServerInstructions),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(LoggingMiddleware(log)),
		server.WithToolHandlerMiddleware(validator.Middleware),
	)

	a := NewAdapter(lex)
	handlers := map[string]server.ToolHandlerFunc{
		ToolLookupWord: a.handleLookupWord,
		ToolGetVariant: a.handleGetVariant,
		ToolGetLemma:   a.handleGetLemma,
	}
	for _, tool := range defs {
		s.AddTool(tool, handlers[tool.Name])
	}
	return s, nil
}

func (a *Adapter) handleLookupWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := a.LookupWord(ctx, word, req.GetBool("at_sentence_start", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(res)
}

func (a *Adapter) handleGetVariant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	wordClass, err := req.RequireString("word_class")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetForm, err := req.RequireStringSlice("target_form")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := a.GetVariant(ctx, word, wordClass, targetForm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(res)
}

func (a *Adapter) handleGetLemma(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := a.GetLemma(ctx, word)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return structuredResult(res)
}

// structuredResult returns v as structured content with its JSON encoding as
// the text fallback.
func structuredResult(v any) (*mcp.CallToolResult, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultStructured(v, string(text)), nil
}

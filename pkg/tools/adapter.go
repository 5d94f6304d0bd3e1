// Package tools exposes a BÍN lexicon as the MCP tools lookup_word,
// get_variant and get_lemma.
package tools

import (
	"context"

	"github.com/japaniel/binmcp/pkg/bin"
)

// Lexicon is the query surface the tools need. *bin.Lexicon implements it.
type Lexicon interface {
	Lookup(ctx context.Context, word string, atSentenceStart bool) (string, []bin.Entry, error)
	LookupVariants(ctx context.Context, word, wordClass string, inflection []string) ([]bin.Entry, error)
	LookupLemmasAndCats(ctx context.Context, word string) ([]bin.LemmaCat, error)
}

var _ Lexicon = (*bin.Lexicon)(nil)

// Adapter forwards tool calls to one shared Lexicon and reshapes the results.
// Lexicon errors are returned unchanged.
type Adapter struct {
	lex Lexicon
}

// NewAdapter returns an Adapter over lex.
func NewAdapter(lex Lexicon) *Adapter {
	return &Adapter{lex: lex}
}

// LookupWord returns every reading of word. No match is reported with
// Found == false, not an error.
func (a *Adapter) LookupWord(ctx context.Context, word string, atSentenceStart bool) (LookupWordResult, error) {
	key, entries, err := a.lex.Lookup(ctx, word, atSentenceStart)
	if err != nil {
		return LookupWordResult{}, err
	}
	return LookupWordResult{
		Found:     len(entries) > 0,
		SearchKey: key,
		Entries:   EntriesToRecords(entries),
	}, nil
}

// GetVariant returns the forms of word with the target inflection. Tags are
// passed through in the order given.
func (a *Adapter) GetVariant(ctx context.Context, word, wordClass string, targetForm []string) (VariantResult, error) {
	variants, err := a.lex.LookupVariants(ctx, word, wordClass, targetForm)
	if err != nil {
		return VariantResult{}, err
	}
	return VariantResult{Variants: VariantsToRecords(variants)}, nil
}

// GetLemma returns the (lemma, word class) pairs word can be a form of.
func (a *Adapter) GetLemma(ctx context.Context, word string) (LemmaResult, error) {
	lemmas, err := a.lex.LookupLemmasAndCats(ctx, word)
	if err != nil {
		return LemmaResult{}, err
	}
	return LemmaResult{Lemmas: LemmasToRecords(lemmas)}, nil
}

package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/binmcp/pkg/bin"
	"github.com/japaniel/binmcp/pkg/bin/bintest"
)

func TestLookupWordFound(t *testing.T) {
	a := NewAdapter(bintest.Open(t))

	res, err := a.LookupWord(context.Background(), "hestur", false)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "hestur", res.SearchKey)
	require.NotEmpty(t, res.Entries)
	assert.Equal(t, "kk", res.Entries[0].WordClass)
}

func TestLookupWordNotFound(t *testing.T) {
	a := NewAdapter(bintest.Open(t))

	for _, word := range []string{"xyznotaword", "  ", "\xff\xfe", "hest\x80ur"} {
		res, err := a.LookupWord(context.Background(), word, false)
		require.NoError(t, err, word)
		assert.False(t, res.Found, word)
		assert.NotNil(t, res.Entries, word)
		assert.Empty(t, res.Entries, word)
	}
}

func TestLookupWordSearchKey(t *testing.T) {
	a := NewAdapter(bintest.Open(t))
	ctx := context.Background()

	for _, atStart := range []bool{false, true} {
		res, err := a.LookupWord(ctx, "Hestur", atStart)
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, "hestur", res.SearchKey)
	}

	// Decomposed input is matched against the composed forms.
	res, err := a.LookupWord(ctx, "lo\u0308g", false)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "lög", res.SearchKey)

	res, err = a.LookupWord(ctx, "verzlun", false)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "verslun", res.SearchKey)
	assert.Len(t, res.Entries, 3)
}

func inflectionForms(res VariantResult) []string {
	var out []string
	for _, v := range res.Variants {
		out = append(out, v.InflectionForm)
	}
	return out
}

func TestGetVariant(t *testing.T) {
	a := NewAdapter(bintest.Open(t))
	ctx := context.Background()

	res, err := a.GetVariant(ctx, "hestur", "kk", []string{"ÞGF", "ET"})
	require.NoError(t, err)
	assert.Contains(t, inflectionForms(res), "hesti")
	assert.Equal(t, VariantRecord{InflectionForm: "hesti", GrammaticalTag: "ÞGFET", Lemma: "hestur"}, res.Variants[0])

	res, err = a.GetVariant(ctx, "hestur", "kk", []string{"NF", "FT"})
	require.NoError(t, err)
	assert.Contains(t, inflectionForms(res), "hestar")

	// Tag order does not matter.
	res, err = a.GetVariant(ctx, "hestur", "kk", []string{"FT", "NF"})
	require.NoError(t, err)
	assert.Contains(t, inflectionForms(res), "hestar")

	res, err = a.GetVariant(ctx, "hestur", "so", []string{"NH"})
	require.NoError(t, err)
	assert.NotNil(t, res.Variants)
	assert.Empty(t, res.Variants)
}

func TestGetVariantPropagatesLexiconErrors(t *testing.T) {
	a := NewAdapter(bintest.Open(t))
	ctx := context.Background()

	_, err := a.GetVariant(ctx, "hestur", "xx", []string{"ÞGF"})
	assert.ErrorIs(t, err, bin.ErrUnknownWordClass)

	_, err = a.GetVariant(ctx, "hestur", "kk", []string{"BOGUS"})
	assert.ErrorIs(t, err, bin.ErrUnknownTag)
}

func TestGetLemma(t *testing.T) {
	a := NewAdapter(bintest.Open(t))
	ctx := context.Background()

	res, err := a.GetLemma(ctx, "hestana")
	require.NoError(t, err)
	assert.Contains(t, res.Lemmas, LemmaRecord{Lemma: "hestur", WordClass: "kk"})

	res, err = a.GetLemma(ctx, "Hestana")
	require.NoError(t, err)
	assert.Equal(t, []LemmaRecord{{Lemma: "hestur", WordClass: "kk"}}, res.Lemmas)

	res, err = a.GetLemma(ctx, "laga")
	require.NoError(t, err)
	assert.Greater(t, len(res.Lemmas), 1)
	var verb, noun bool
	for _, l := range res.Lemmas {
		switch l.WordClass {
		case "so":
			verb = true
		case "hk", "kk":
			noun = true
		}
	}
	assert.True(t, verb, "expected a verb reading of laga: %v", res.Lemmas)
	assert.True(t, noun, "expected a noun reading of laga: %v", res.Lemmas)
}

func TestIdempotence(t *testing.T) {
	a := NewAdapter(bintest.Open(t))
	ctx := context.Background()

	w1, err := a.LookupWord(ctx, "laga", false)
	require.NoError(t, err)
	w2, err := a.LookupWord(ctx, "laga", false)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)

	v1, err := a.GetVariant(ctx, "laga", "so", []string{"FH", "NT", "3P"})
	require.NoError(t, err)
	v2, err := a.GetVariant(ctx, "laga", "so", []string{"FH", "NT", "3P"})
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	l1, err := a.GetLemma(ctx, "laga")
	require.NoError(t, err)
	l2, err := a.GetLemma(ctx, "laga")
	require.NoError(t, err)
	assert.Equal(t, l1, l2)
}

// stubLexicon returns fixed results and records the arguments it saw.
type stubLexicon struct {
	key      string
	entries  []bin.Entry
	lemmas   []bin.LemmaCat
	err      error
	gotClass string
	gotTags  []string
}

func (s *stubLexicon) Lookup(ctx context.Context, word string, atSentenceStart bool) (string, []bin.Entry, error) {
	return s.key, s.entries, s.err
}

func (s *stubLexicon) LookupVariants(ctx context.Context, word, wordClass string, inflection []string) ([]bin.Entry, error) {
	s.gotClass = wordClass
	s.gotTags = inflection
	return s.entries, s.err
}

func (s *stubLexicon) LookupLemmasAndCats(ctx context.Context, word string) ([]bin.LemmaCat, error) {
	return s.lemmas, s.err
}

func TestAdapterPassesThrough(t *testing.T) {
	stub := &stubLexicon{
		key: "laga",
		entries: []bin.Entry{
			{Ord: "lög", Ofl: "hk", Hluti: "alm", Bmynd: "laga", Mark: "EFFT"},
			{Ord: "lag", Ofl: "hk", Hluti: "alm", Bmynd: "laga", Mark: "EFFT"},
		},
		lemmas: []bin.LemmaCat{{Ord: "lög", Ofl: "hk"}, {Ord: "lag", Ofl: "hk"}},
	}
	a := NewAdapter(stub)
	ctx := context.Background()

	w, err := a.LookupWord(ctx, "laga", false)
	require.NoError(t, err)
	require.Len(t, w.Entries, 2)
	assert.Equal(t, "lög", w.Entries[0].Lemma, "entries must keep lexicon order")

	_, err = a.GetVariant(ctx, "laga", "hk", []string{"gr", "NF", "FT"})
	require.NoError(t, err)
	assert.Equal(t, "hk", stub.gotClass)
	assert.Equal(t, []string{"gr", "NF", "FT"}, stub.gotTags)

	l, err := a.GetLemma(ctx, "laga")
	require.NoError(t, err)
	assert.Equal(t, []LemmaRecord{{Lemma: "lög", WordClass: "hk"}, {Lemma: "lag", WordClass: "hk"}}, l.Lemmas)
}

func TestAdapterReturnsErrorsUnchanged(t *testing.T) {
	boom := errors.New("lexicon exploded")
	a := NewAdapter(&stubLexicon{err: boom})
	ctx := context.Background()

	_, err := a.LookupWord(ctx, "x", false)
	assert.Same(t, boom, err)
	_, err = a.GetVariant(ctx, "x", "kk", nil)
	assert.Same(t, boom, err)
	_, err = a.GetLemma(ctx, "x")
	assert.Same(t, boom, err)
}

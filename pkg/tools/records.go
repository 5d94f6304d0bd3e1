package tools

import "github.com/japaniel/binmcp/pkg/bin"

// EntryRecord is one reading of a word form as returned by lookup_word.
type EntryRecord struct {
	Lemma          string `json:"lemma"`
	WordClass      string `json:"word_class"`
	Domain         string `json:"domain"`
	InflectionForm string `json:"inflection_form"`
	GrammaticalTag string `json:"grammatical_tag"`
}

// VariantRecord is one inflected form returned by get_variant.
type VariantRecord struct {
	InflectionForm string `json:"inflection_form"`
	GrammaticalTag string `json:"grammatical_tag"`
	Lemma          string `json:"lemma"`
}

// LemmaRecord is one (lemma, word class) reading returned by get_lemma.
type LemmaRecord struct {
	Lemma     string `json:"lemma"`
	WordClass string `json:"word_class"`
}

// LookupWordResult is the lookup_word result.
type LookupWordResult struct {
	Found     bool          `json:"found"`
	SearchKey string        `json:"search_key"`
	Entries   []EntryRecord `json:"entries"`
}

// VariantResult is the get_variant result.
type VariantResult struct {
	Variants []VariantRecord `json:"variants"`
}

// LemmaResult is the get_lemma result.
type LemmaResult struct {
	Lemmas []LemmaRecord `json:"lemmas"`
}

// EntryToRecord maps a lexicon entry to its lookup_word record.
func EntryToRecord(e bin.Entry) EntryRecord {
	return EntryRecord{
		Lemma:          e.Ord,
		WordClass:      e.Ofl,
		Domain:         e.Hluti,
		InflectionForm: e.Bmynd,
		GrammaticalTag: e.Mark,
	}
}

// VariantToRecord maps a lexicon entry to its get_variant record.
func VariantToRecord(e bin.Entry) VariantRecord {
	return VariantRecord{
		InflectionForm: e.Bmynd,
		GrammaticalTag: e.Mark,
		Lemma:          e.Ord,
	}
}

// LemmaToRecord maps a lemma and word class to its get_lemma record.
func LemmaToRecord(lc bin.LemmaCat) LemmaRecord {
	return LemmaRecord{Lemma: lc.Ord, WordClass: lc.Ofl}
}

// EntriesToRecords maps entries in order. It never returns nil, so an empty
// result encodes as [] rather than null.
func EntriesToRecords(entries []bin.Entry) []EntryRecord {
	out := make([]EntryRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryToRecord(e))
	}
	return out
}

// VariantsToRecords maps entries in order and never returns nil.
func VariantsToRecords(entries []bin.Entry) []VariantRecord {
	out := make([]VariantRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, VariantToRecord(e))
	}
	return out
}

// LemmasToRecords maps lemmas in order and never returns nil.
func LemmasToRecords(lemmas []bin.LemmaCat) []LemmaRecord {
	out := make([]LemmaRecord, 0, len(lemmas))
	for _, lc := range lemmas {
		out = append(out, LemmaToRecord(lc))
	}
	return out
}

package bin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Errors returned by LookupVariants when the request cannot be understood.
var (
	ErrUnknownWordClass = errors.New("unknown word class")
	ErrUnknownTag       = errors.New("unknown grammatical tag")
	ErrConflictingTags  = errors.New("conflicting grammatical tags")
)

// WordClasses lists the BÍN word class codes LookupVariants accepts. "no"
// stands for a noun of any gender.
var WordClasses = []string{
	"kk", "kvk", "hk", "no",
	"so", "lo", "ao", "fs", "st", "nhm", "uh",
	"fn", "pfn", "abfn", "afn", "gr", "to", "rt",
}

var nounGenders = map[string]bool{"kk": true, "kvk": true, "hk": true}

func knownWordClass(cat string) bool {
	for _, c := range WordClasses {
		if c == cat {
			return true
		}
	}
	return false
}

func classMatches(ofl, cat string) bool {
	if cat == "no" {
		return nounGenders[ofl]
	}
	return ofl == cat
}

// category groups mutually exclusive tag values.
type category int

const (
	catCase category = iota
	catNumber
	catArticle
	catGender
	catDegree
	catStrength
	catVoice
	catMood
	catTense
	catPerson
	catImpersonal
	catAlternative
)

const (
	articleDefinite   = "gr"
	articleIndefinite = "nogr"
)

var tagCategory = map[string]category{
	"NF": catCase, "ÞF": catCase, "ÞGF": catCase, "EF": catCase,
	"ET": catNumber, "FT": catNumber,
	articleDefinite: catArticle, articleIndefinite: catArticle,
	"KK": catGender, "KVK": catGender, "HK": catGender,
	"FSB": catDegree, "FVB": catDegree, "MST": catDegree, "ESB": catDegree,
	"EVB": catDegree, "FST": catDegree, "EST": catDegree,
	"SB": catStrength, "VB": catStrength,
	"GM": catVoice, "MM": catVoice,
	"FH": catMood, "VH": catMood, "BH": catMood, "NH": catMood,
	"LHNT": catMood, "LHÞT": catMood, "SAGNB": catMood,
	"NT": catTense, "ÞT": catTense,
	"1P": catPerson, "2P": catPerson, "3P": catPerson,
	"OP": catImpersonal,
}

// markTokens holds the known tokens, longest first, for prefix matching of
// run-together marks such as "ÞGFFTgr".
var markTokens = func() []string {
	toks := make([]string, 0, len(tagCategory))
	for t := range tagCategory {
		if t == articleIndefinite {
			continue
		}
		toks = append(toks, t)
	}
	sort.Slice(toks, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(toks[i]), utf8.RuneCountInString(toks[j])
		if li != lj {
			return li > lj
		}
		return toks[i] < toks[j]
	})
	return toks
}()

// features maps each category present in a mark to its value.
type features map[category]string

// parseMark splits a BÍN mark into features. Pieces it does not recognise
// (e.g. "ST" in "GM-BH-ST") are ignored; stored data never fails to parse.
func parseMark(mark string) features {
	f := features{}
	for _, piece := range strings.Split(mark, "-") {
		for piece != "" {
			r, _ := utf8.DecodeRuneInString(piece)
			if unicode.IsDigit(r) && !isPersonToken(piece) {
				f[catAlternative] = piece
				break
			}
			tok := matchToken(piece)
			if tok == "" {
				break
			}
			f[tagCategory[tok]] = tok
			piece = piece[len(tok):]
		}
	}
	if _, ok := f[catCase]; ok {
		if _, ok := f[catArticle]; !ok {
			f[catArticle] = articleIndefinite
		}
	}
	return f
}

func isPersonToken(piece string) bool {
	return strings.HasPrefix(piece, "1P") || strings.HasPrefix(piece, "2P") || strings.HasPrefix(piece, "3P")
}

func matchToken(piece string) string {
	for _, t := range markTokens {
		if strings.HasPrefix(piece, t) {
			return t
		}
	}
	return ""
}

// canonicalTag maps a requested token to its spelling in BÍN marks.
func canonicalTag(tok string) string {
	tok = strings.TrimSpace(tok)
	switch {
	case strings.EqualFold(tok, articleDefinite):
		return articleDefinite
	case strings.EqualFold(tok, articleIndefinite):
		return articleIndefinite
	}
	return strings.ToUpper(tok)
}

// parseRequest validates the requested tokens and groups them by category.
func parseRequest(tokens []string) (features, error) {
	f := features{}
	for _, raw := range tokens {
		tok := canonicalTag(raw)
		c, ok := tagCategory[tok]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, raw)
		}
		if prev, seen := f[c]; seen && prev != tok {
			return nil, fmt.Errorf("%w: %q and %q", ErrConflictingTags, prev, tok)
		}
		f[c] = tok
	}
	return f, nil
}

// with returns the source features overridden by the requested ones.
func (f features) with(requested features) features {
	out := make(features, len(f)+len(requested))
	for c, v := range f {
		out[c] = v
	}
	for c, v := range requested {
		out[c] = v
	}
	return out
}

// satisfies reports whether a candidate form has the desired features.
// Requested categories must be present with the requested value; categories
// carried over from the source form only need to agree when the candidate has
// them. Alternative-form digits are never constrained, and impersonal forms
// only match when asked for.
func (cand features) satisfies(desired, requested features) bool {
	for c, want := range desired {
		if c == catAlternative {
			continue
		}
		got, ok := cand[c]
		if !ok {
			if _, req := requested[c]; req {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	if _, ok := cand[catImpersonal]; ok {
		if _, want := desired[catImpersonal]; !want {
			return false
		}
	}
	return true
}

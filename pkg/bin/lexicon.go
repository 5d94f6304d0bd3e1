// Package bin answers queries against the BÍN lexicon (Beygingarlýsing
// íslensks nútímamáls) stored in SQLite by the ingest package.
//
// The three query primitives mirror those of the Python islenska package:
// Lookup, LookupVariants and LookupLemmasAndCats. A Lexicon is read-only and
// safe for concurrent use.
package bin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/japaniel/binmcp/pkg/db"
)

// ErrNoDatabase is returned by Open when the database file does not exist.
var ErrNoDatabase = errors.New("lexicon database not found")

// ErrEmptyLexicon is returned by Open when the database holds no forms.
var ErrEmptyLexicon = errors.New("lexicon database is empty")

// Lexicon is a read-only handle on an imported BÍN database.
type Lexicon struct {
	conn  db.DBExecutor
	close func() error
}

// Open opens the database at path read-only and checks that it has been imported.
func Open(ctx context.Context, path string) (*Lexicon, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoDatabase, path)
		}
		return nil, err
	}
	conn, err := db.OpenReadOnly(ctx, path)
	if err != nil {
		return nil, err
	}
	n, err := db.CountForms(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("count forms: %w", err)
	}
	if n == 0 {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyLexicon, path)
	}
	return &Lexicon{conn: conn, close: conn.Close}, nil
}

// New wraps an already opened database. The caller keeps ownership of conn.
func New(conn *sql.DB) *Lexicon {
	return &Lexicon{conn: conn, close: func() error { return nil }}
}

// ImportInfo describes the import that produced the database. Fields are
// empty when the importer did not record them.
type ImportInfo struct {
	ID         string
	Source     string
	ImportedAt string
	FormCount  string
}

// ImportInfo reads the provenance recorded by the importer.
func (l *Lexicon) ImportInfo(ctx context.Context) (ImportInfo, error) {
	var info ImportInfo
	for key, dst := range map[string]*string{
		db.MetaImportID:   &info.ID,
		db.MetaSource:     &info.Source,
		db.MetaImportedAt: &info.ImportedAt,
		db.MetaFormCount:  &info.FormCount,
	} {
		v, err := db.GetMeta(ctx, l.conn, key)
		if err != nil {
			return ImportInfo{}, fmt.Errorf("read %s: %w", key, err)
		}
		*dst = v
	}
	return info, nil
}

// Close releases the database opened by Open.
func (l *Lexicon) Close() error {
	return l.close()
}

// Lookup returns every reading of word together with the key that produced
// them. The key differs from word only by normalisation:
//   - surrounding space is trimmed and the text brought to NFC;
//   - a word with upper-case letters that has no readings as written is
//     looked up in lower case, and the key becomes the lower-case form;
//   - with atSentenceStart the lower-case readings are added even when the
//     word matched as written;
//   - when nothing matched and the word contains z, the z spelling is
//     replaced ("verzlun" → "verslun") and looked up instead.
//
// No match is not an error: the result is the key and a nil slice.
func (l *Lexicon) Lookup(ctx context.Context, word string, atSentenceStart bool) (string, []Entry, error) {
	key := normalizeKey(word)
	if key == "" {
		return key, nil, nil
	}
	found, entries, err := l.lookupKey(ctx, key, atSentenceStart)
	if err != nil {
		return key, nil, err
	}
	if len(entries) == 0 && hasZ(key) {
		altKey, altEntries, err := l.lookupKey(ctx, replaceZ(key), atSentenceStart)
		if err != nil {
			return key, nil, err
		}
		if len(altEntries) > 0 {
			return altKey, altEntries, nil
		}
	}
	return found, entries, nil
}

func (l *Lexicon) lookupKey(ctx context.Context, key string, atSentenceStart bool) (string, []Entry, error) {
	entries, err := l.forms(ctx, key)
	if err != nil {
		return key, nil, err
	}
	lower := strings.ToLower(key)
	if lower == key || (len(entries) > 0 && !atSentenceStart) {
		return key, entries, nil
	}
	more, err := l.forms(ctx, lower)
	if err != nil {
		return key, nil, err
	}
	if len(entries) == 0 && len(more) > 0 {
		key = lower
	}
	return key, append(entries, more...), nil
}

func (l *Lexicon) forms(ctx context.Context, key string) ([]Entry, error) {
	forms, err := db.FormsBySurface(ctx, l.conn, key)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", key, err)
	}
	return entriesFromForms(forms), nil
}

// LookupVariants returns forms of word with the requested inflection. cat
// selects the word class ("no" for any noun gender) and inflection lists
// feature tags such as "ÞGF", "FT", "gr", "nogr", "EVB", "3P". Features not
// mentioned keep the value they have in word itself, so ("hestur", "kk",
// ["ÞGF"]) yields "hesti" and ("hestana", "kk", ["NF"]) yields "hestarnir".
//
// Unknown classes and tags are reported with ErrUnknownWordClass,
// ErrUnknownTag and ErrConflictingTags. A word with no matching form yields
// an empty result, not an error.
func (l *Lexicon) LookupVariants(ctx context.Context, word, cat string, inflection []string) ([]Entry, error) {
	cat = strings.TrimSpace(cat)
	if !knownWordClass(cat) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWordClass, cat)
	}
	requested, err := parseRequest(inflection)
	if err != nil {
		return nil, err
	}

	_, sources, err := l.Lookup(ctx, word, false)
	if err != nil {
		return nil, err
	}

	type variantKey struct {
		binID int64
		bmynd string
		mark  string
	}
	seen := make(map[variantKey]bool)
	paradigms := make(map[int64][]Entry)
	var out []Entry

	for _, src := range sources {
		if !classMatches(src.Ofl, cat) {
			continue
		}
		paradigm, ok := paradigms[src.BinID]
		if !ok {
			forms, err := db.FormsByBinID(ctx, l.conn, src.BinID)
			if err != nil {
				return nil, fmt.Errorf("paradigm %d: %w", src.BinID, err)
			}
			paradigm = entriesFromForms(forms)
			paradigms[src.BinID] = paradigm
		}

		desired := parseMark(src.Mark).with(requested)
		for _, cand := range paradigm {
			if !parseMark(cand.Mark).satisfies(desired, requested) {
				continue
			}
			k := variantKey{cand.BinID, cand.Bmynd, cand.Mark}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, cand)
		}
	}
	return out, nil
}

// LookupLemmasAndCats returns the distinct (lemma, word class) pairs word can
// be a form of, in the order BÍN lists them.
func (l *Lexicon) LookupLemmasAndCats(ctx context.Context, word string) ([]LemmaCat, error) {
	_, entries, err := l.Lookup(ctx, word, false)
	if err != nil {
		return nil, err
	}
	seen := make(map[LemmaCat]bool)
	var out []LemmaCat
	for _, e := range entries {
		lc := LemmaCat{Ord: e.Ord, Ofl: e.Ofl}
		if seen[lc] {
			continue
		}
		seen[lc] = true
		out = append(out, lc)
	}
	return out, nil
}

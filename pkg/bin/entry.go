package bin

import "github.com/japaniel/binmcp/pkg/db"

// Entry is one BÍN reading of a word form. Field names follow the BÍN column
// names.
type Entry struct {
	Ord   string // lemma
	BinID int64  // lemma id in BÍN
	Ofl   string // word class, e.g. "kk", "so"
	Hluti string // domain, e.g. "alm", "örn"
	Bmynd string // inflected form
	Mark  string // grammatical tag, e.g. "ÞGFETgr"
}

// LemmaCat is a (lemma, word class) pair.
type LemmaCat struct {
	Ord string
	Ofl string
}

func entryFromForm(f db.Form) Entry {
	return Entry{
		Ord:   f.Ord,
		BinID: f.BinID,
		Ofl:   f.Ofl,
		Hluti: f.Hluti,
		Bmynd: f.Bmynd,
		Mark:  f.Mark,
	}
}

func entriesFromForms(forms []db.Form) []Entry {
	if len(forms) == 0 {
		return nil
	}
	out := make([]Entry, len(forms))
	for i, f := range forms {
		out[i] = entryFromForm(f)
	}
	return out
}

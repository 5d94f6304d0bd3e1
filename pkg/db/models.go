package db

// Form is one inflected form of a BÍN lemma, as stored in the forms table.
type Form struct {
	ID    int64
	Ord   string // lemma
	BinID int64
	Ofl   string // word class
	Hluti string // domain
	Bmynd string // inflected form
	Mark  string // grammatical tag
}

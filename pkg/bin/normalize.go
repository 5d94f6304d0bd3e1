package bin

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeKey trims the word and brings it to Unicode NFC, the form BÍN is
// stored in.
func normalizeKey(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

var zReplacer = strings.NewReplacer(
	"tzt", "st", "Tzt", "St", "TZT", "ST",
	"tz", "s", "Tz", "S", "TZ", "S",
	"z", "s", "Z", "S",
)

// replaceZ rewrites the obsolete z spelling ("verzlun", "íslenzka") to the
// current one ("verslun", "íslenska").
func replaceZ(w string) string {
	return zReplacer.Replace(w)
}

func hasZ(w string) bool {
	return strings.ContainsAny(w, "zZ")
}

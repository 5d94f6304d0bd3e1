// Package bintest builds a small BÍN lexicon for tests.
package bintest

import (
	"context"
	_ "embed"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/binmcp/pkg/bin"
	"github.com/japaniel/binmcp/pkg/db"
	"github.com/japaniel/binmcp/pkg/ingest"
)

// SampleCSV holds a few complete paradigms (hestur, lag, lög, laga, fallegur,
// verslun, Akureyri) in Sigrúnarsnið.
//
//go:embed bin_sample.csv
var SampleCSV string

// Build imports SampleCSV into a new database file under t.TempDir and
// returns its path.
func Build(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bin.db")
	conn, err := db.OpenWritable(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	ig := ingest.NewIngester(conn)
	ig.Workers = 2
	ig.BatchSize = 16
	stats, err := ig.Import(context.Background(), strings.NewReader(SampleCSV))
	if err != nil {
		t.Fatalf("import sample lexicon: %v", err)
	}
	if stats.Skipped != 0 {
		t.Fatalf("sample lexicon has %d malformed lines", stats.Skipped)
	}
	return path
}

// Open returns a read-only Lexicon over the sample data.
func Open(t testing.TB) *bin.Lexicon {
	t.Helper()
	lex, err := bin.Open(context.Background(), Build(t))
	if err != nil {
		t.Fatalf("open lexicon: %v", err)
	}
	t.Cleanup(func() { lex.Close() })
	return lex
}

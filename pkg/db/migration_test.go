package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// TestInitDBCreatesSchema verifies InitDB creates the forms and meta tables
// with the columns the lexicon queries rely on.
func TestInitDBCreatesSchema(t *testing.T) {
	dbConn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	if err := InitDB(dbConn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	// Running twice must be harmless.
	if err := InitDB(dbConn); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}

	var name string
	if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='meta'").Scan(&name); err != nil {
		t.Fatalf("meta table missing: %v", err)
	}

	rows, err := dbConn.Query("PRAGMA table_info(forms)")
	if err != nil {
		t.Fatalf("pragmas: %v", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var colName, ctype string
		var notnull, pk int
		var dfltVal interface{}
		if err := rows.Scan(&cid, &colName, &ctype, &notnull, &dfltVal, &pk); err != nil {
			t.Fatalf("scan col: %v", err)
		}
		cols[colName] = true
	}
	for _, c := range []string{"id", "ord", "bin_id", "ofl", "hluti", "bmynd", "mark"} {
		if !cols[c] {
			t.Fatalf("expected column %s in forms, got %v", c, cols)
		}
	}

	var idx string
	if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_forms_bmynd'").Scan(&idx); err != nil {
		t.Fatalf("bmynd index missing: %v", err)
	}
}

func TestOpenReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.db")
	rw, err := OpenWritable(path)
	if err != nil {
		t.Fatalf("open writable: %v", err)
	}
	ctx := context.Background()
	if err := InsertForm(ctx, rw, Form{ID: 1, Ord: "hestur", BinID: 1, Ofl: "kk", Hluti: "alm", Bmynd: "hestur", Mark: "NFET"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rw.Close()

	ro, err := OpenReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer ro.Close()

	got, err := FormsBySurface(ctx, ro, "hestur")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one form, got %d (%v)", len(got), err)
	}
	if err := InsertForm(ctx, ro, Form{ID: 2, Bmynd: "hest"}); err == nil {
		t.Fatalf("expected write to read-only database to fail")
	}
}

func TestOpenReadOnlyMissingFile(t *testing.T) {
	if _, err := OpenReadOnly(context.Background(), filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatalf("expected error opening missing database")
	}
}

func TestOpenPathWithURIDelimiters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data?v=1#x%20y")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "bin.db")
	rw, err := OpenWritable(path)
	if err != nil {
		t.Fatalf("open writable: %v", err)
	}
	ctx := context.Background()
	if err := InsertForm(ctx, rw, Form{ID: 1, Ord: "hestur", BinID: 1, Ofl: "kk", Hluti: "alm", Bmynd: "hestur", Mark: "NFET"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rw.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database at %s: %v", path, err)
	}
	ro, err := OpenReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer ro.Close()
	if n, err := CountForms(ctx, ro); err != nil || n != 1 {
		t.Fatalf("expected one form, got %d (%v)", n, err)
	}
}

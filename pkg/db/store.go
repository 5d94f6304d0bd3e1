package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const formColumns = `id, ord, bin_id, ofl, hluti, bmynd, mark`

// Meta keys written by the importer.
const (
	MetaSource     = "source"
	MetaImportedAt = "imported_at"
	MetaFormCount  = "form_count"
	MetaImportID   = "import_id"
)

// InsertForm stores f, replacing any row with the same id.
func InsertForm(ctx context.Context, db DBExecutor, f Form) error {
	if f.ID <= 0 {
		return fmt.Errorf("form id must be positive")
	}
	if strings.TrimSpace(f.Bmynd) == "" {
		return fmt.Errorf("form must be non-empty")
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO forms (`+formColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.Ord, f.BinID, f.Ofl, f.Hluti, f.Bmynd, f.Mark)
	if err != nil {
		return fmt.Errorf("insert form %d: %w", f.ID, err)
	}
	return nil
}

// ClearForms removes every stored form.
func ClearForms(ctx context.Context, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `DELETE FROM forms`)
	return err
}

// FormsBySurface returns the rows whose inflected form equals bmynd, in file order.
func FormsBySurface(ctx context.Context, db DBExecutor, bmynd string) ([]Form, error) {
	return queryForms(ctx, db, `SELECT `+formColumns+` FROM forms WHERE bmynd = ? ORDER BY id`, bmynd)
}

// FormsByBinID returns the whole paradigm of one lemma, in file order.
func FormsByBinID(ctx context.Context, db DBExecutor, binID int64) ([]Form, error) {
	return queryForms(ctx, db, `SELECT `+formColumns+` FROM forms WHERE bin_id = ? ORDER BY id`, binID)
}

// CountForms returns the number of stored forms.
func CountForms(ctx context.Context, db DBExecutor) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM forms`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetMeta upserts a provenance value.
func SetMeta(ctx context.Context, db DBExecutor, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// GetMeta returns the value stored under key, or "" when unset.
func GetMeta(ctx context.Context, db DBExecutor, key string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func queryForms(ctx context.Context, db DBExecutor, query string, args ...interface{}) ([]Form, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Form
	for rows.Next() {
		var f Form
		if err := rows.Scan(&f.ID, &f.Ord, &f.BinID, &f.Ofl, &f.Hluti, &f.Bmynd, &f.Mark); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

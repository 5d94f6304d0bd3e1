package ingest

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/japaniel/binmcp/pkg/db"
	"github.com/japaniel/binmcp/pkg/dictionary"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Stats summarises one import.
type Stats struct {
	Lines    int   // non-empty lines read
	Imported int64 // forms committed
	Skipped  int64 // malformed lines
}

// Ingester loads a BÍN CSV export into the forms table.
type Ingester struct {
	DB        *sql.DB
	BatchSize int
	Workers   int
	// FlushInterval commits a partial batch after this long. Zero flushes by size only.
	FlushInterval time.Duration
	// Reset clears the forms table before importing.
	Reset bool
	// Logger receives warnings about skipped lines. nil means no logging.
	Logger *zerolog.Logger
	// OnProgress is called every ProgressEvery lines with the number of lines read.
	OnProgress    func(lines int)
	ProgressEvery int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:            conn,
		BatchSize:     5000,
		Workers:       4,
		FlushInterval: 2 * time.Second,
		Reset:         true,
		ProgressEvery: 100000,
	}
}

// Import reads Sigrúnarsnið lines from r and stores them. Each row keeps its
// line number as id, so lookups return forms in file order no matter which
// worker parsed them.
func (ig *Ingester) Import(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats

	if ig.Reset {
		if err := db.ClearForms(ctx, ig.DB); err != nil {
			return stats, fmt.Errorf("clear forms: %w", err)
		}
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*4)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*4)
	}
	bw := NewBatchWriter(ig.DB, ig.BatchSize, ig.FlushInterval)
	bw.OnError = fail

	wp.Start(ctx)

	var skipped atomic.Int64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0

Loop:
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++

		id := int64(lineNo)
		job := func(ctx context.Context) error {
			row, err := dictionary.ParseLine(line)
			if err != nil {
				skipped.Add(1)
				if ig.Logger != nil {
					ig.Logger.Warn().Int64("line", id).Err(err).Msg("skipping line")
				}
				return nil
			}
			form := toForm(id, row)
			if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
				return db.InsertForm(ctx, tx, form)
			}); err != nil {
				fail(err)
				return err
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if ctx.Err() == nil {
				fail(fmt.Errorf("submit line %d: %w", lineNo, err))
			}
			break Loop
		}

		if ig.OnProgress != nil && ig.ProgressEvery > 0 && stats.Lines%ig.ProgressEvery == 0 {
			ig.OnProgress(stats.Lines)
		}
	}
	if err := scanner.Err(); err != nil {
		fail(fmt.Errorf("read line %d: %w", lineNo+1, err))
	}

	// Workers finish every queued line before the writer is closed.
	wp.Close()
	if err := bw.Close(); err != nil && !errors.Is(err, ErrBatchWriterClosed) {
		fail(err)
	}

	stats.Imported = bw.Committed()
	stats.Skipped = skipped.Load()
	if ig.OnProgress != nil {
		ig.OnProgress(stats.Lines)
	}

	if firstErr != nil {
		return stats, firstErr
	}
	if err := parent.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func toForm(id int64, r dictionary.Row) db.Form {
	return db.Form{
		ID:    id,
		Ord:   r.Ord,
		BinID: r.BinID,
		Ofl:   r.Ofl,
		Hluti: r.Hluti,
		Bmynd: r.Bmynd,
		Mark:  r.Mark,
	}
}

// Package journal keeps a SQLite log of completed renders.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/fbmandel/internal/view"
)

var ErrClosed = errors.New("journal: closed")

const schema = `
CREATE TABLE IF NOT EXISTS renders (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    at            INTEGER NOT NULL,
    elapsed_us    INTEGER NOT NULL,
    workers       INTEGER NOT NULL,
    rows_drawn    INTEGER NOT NULL,
    cancelled     INTEGER NOT NULL DEFAULT 0,
    scaling       REAL NOT NULL,
    x_offset      REAL NOT NULL,
    y_offset      REAL NOT NULL,
    colour_offset INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renders_at ON renders(at);
`

// Entry is one render and the view it drew.
type Entry struct {
	ID        int64
	At        time.Time
	Elapsed   time.Duration
	Workers   int
	Rows      int
	Cancelled bool
	View      view.State
}

type Journal struct {
	db   *sql.DB
	path string
}

func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(1000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db, path: path}, nil
}

func (j *Journal) Path() string { return j.path }

func (j *Journal) Record(ctx context.Context, e Entry) error {
	if j.db == nil {
		return ErrClosed
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	cancelled := 0
	if e.Cancelled {
		cancelled = 1
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO renders (at, elapsed_us, workers, rows_drawn, cancelled, scaling, x_offset, y_offset, colour_offset)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		at.UnixNano(), e.Elapsed.Microseconds(), e.Workers, e.Rows, cancelled,
		e.View.Scaling, e.View.XOffset, e.View.YOffset, e.View.ColourOffset,
	)
	if err != nil {
		return fmt.Errorf("journal: record: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, at, elapsed_us, workers, rows_drawn, cancelled, scaling, x_offset, y_offset, colour_offset
		 FROM renders ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			at        int64
			elapsedUS int64
			cancelled int
		)
		if err := rows.Scan(&e.ID, &at, &elapsedUS, &e.Workers, &e.Rows, &cancelled,
			&e.View.Scaling, &e.View.XOffset, &e.View.YOffset, &e.View.ColourOffset); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.At = time.Unix(0, at)
		e.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		e.Cancelled = cancelled != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// Package sqlite implements the authoritative note archive on SQLite,
// using the pure-Go modernc.org/sqlite driver (no cgo). The schema is a
// single notes table keyed by note id; migration is idempotent and runs
// on every open.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pfranklin/memvault/memory"
	"github.com/pfranklin/memvault/note"
)

// Archive is the SQLite-backed implementation of memory.Archive.
type Archive struct {
	db *sql.DB
}

// Open opens (creating if needed) the notes database at path and runs the
// schema migration. Use ":memory:" for an ephemeral database.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id        TEXT PRIMARY KEY,
			content   TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the underlying database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Insert appends a new note row. A primary key collision maps to
// memory.ErrDuplicateID.
func (a *Archive) Insert(ctx context.Context, n note.Note) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO notes (id, content, timestamp) VALUES (?, ?, ?)",
		n.ID, n.Content, n.Timestamp,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", memory.ErrDuplicateID, n.ID)
		}
		return fmt.Errorf("sqlite: insert note: %w", err)
	}
	return nil
}

// FetchByIDs returns the notes present for ids, re-ordered to match the
// requested id order. Missing ids are omitted, never an error. The id
// list is bound as placeholders, one per id.
func (a *Archive) FetchByIDs(ctx context.Context, ids []string) ([]note.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := a.db.QueryContext(ctx,
		"SELECT id, content, timestamp FROM notes WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch notes: %w", err)
	}
	defer rows.Close()

	found := make(map[string]note.Note, len(ids))
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scan note: %w", err)
		}
		found[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: fetch notes: %w", err)
	}

	// IN gives no ordering guarantee; restore the caller's relevance order.
	notes := make([]note.Note, 0, len(found))
	for _, id := range ids {
		if n, ok := found[id]; ok {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

// List returns every stored note, oldest first.
func (a *Archive) List(ctx context.Context) ([]note.Note, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, content, timestamp FROM notes ORDER BY timestamp, id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.Timestamp); err != nil {
			return nil, fmt.Errorf("sqlite: scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list notes: %w", err)
	}
	return notes, nil
}

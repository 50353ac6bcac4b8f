// Package note defines the unit of memory stored by memvault.
package note

import (
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the timestamp layout persisted with every note.
// Second precision, matching what operators see in the database.
const TimeFormat = "2006-01-02 15:04:05"

// Note is a single stored memory: immutable content with a creation
// timestamp, keyed by an opaque id. The id is the join key between the
// authoritative archive and the semantic index.
type Note struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// New creates a Note with a fresh globally-unique id and the current
// creation time. Ids are never reused; the archive's primary key
// constraint is the only other safeguard.
func New(content string) Note {
	return Note{
		ID:        uuid.New().String(),
		Content:   content,
		Timestamp: time.Now().Format(TimeFormat),
	}
}

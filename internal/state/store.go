// Package state records the statements run by the duckframe CLI and HTTP
// server in a local SQLite database.
package state

import (
	"context"
	"time"
)

// Kind classifies a recorded execution.
type Kind string

// Execution kinds.
const (
	KindSQL   Kind = "sql"
	KindTable Kind = "table"
	KindLoad  Kind = "load"
	KindRead  Kind = "read"
)

// Status is the outcome of a recorded execution.
type Status string

// Execution outcomes.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Entry is one recorded execution.
type Entry struct {
	ID        string
	SessionID string
	Kind      Kind
	Statement string
	RowCount  int64
	Duration  time.Duration
	Status    Status
	Error     string
	CreatedAt time.Time
}

// Store persists execution history.
type Store interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Clear(ctx context.Context) (int64, error)
	Close() error
}

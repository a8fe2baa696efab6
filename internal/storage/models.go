package storage

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound - no row with that key.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists - insert hit a primary-key conflict.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrDuplicateCheckin - the (email, date) ledger invariant was violated.
	ErrDuplicateCheckin = errors.New("duplicate check-in for that day")
)

// User is the stored user record. Habit state is kept as JSON so the engine
// owns its shape; the repo only moves bytes.
type User struct {
	Email           string
	ID              string
	ReminderTime    string
	ActiveHabitJSON *string // nil when no habit is active
	GraduatedJSON   string
	CreatedAt       string
}

// Checkin is one row of the append-only ledger: this user performed their
// task for this habit on this calendar day.
type Checkin struct {
	ID        int64
	Email     string
	Date      string
	HabitName string
	Level     int
	Task      string
}

// Idea is a community habit suggestion on the wall.
type Idea struct {
	ID        string
	Text      string
	Author    string
	Votes     int
	CreatedAt string
}

// querier is satisfied by both *sql.DB and *sql.Tx, so repo operations can
// run standalone or inside a check-in transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

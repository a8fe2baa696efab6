package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			id TEXT NOT NULL,
			reminder_time TEXT NOT NULL DEFAULT '08:00',
			active_habit TEXT,
			graduated_habits TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL
		);`,
		// Append-only check-in ledger. The UNIQUE constraint enforces the
		// one-check-in-per-day invariant at the lowest layer; streak and
		// total-day computations stay reproducible from this table alone.
		`CREATE TABLE IF NOT EXISTS checkins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			date TEXT NOT NULL,
			habit_name TEXT NOT NULL,
			level INTEGER NOT NULL,
			task TEXT NOT NULL,
			UNIQUE(email, date)
		);`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT 'Anonymous',
			votes INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_email_habit_level ON checkins(email, habit_name, level);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

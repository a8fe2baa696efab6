package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// CheckinRepo owns the append-only check-in ledger. Rows are never updated
// or deleted.
type CheckinRepo struct {
	db *sql.DB
}

func NewCheckinRepo(db *sql.DB) *CheckinRepo {
	return &CheckinRepo{db: db}
}

// Append records a check-in. ErrDuplicateCheckin is returned when the user
// already has a row for that date; callers are expected to have checked
// HasCheckedIn first, so hitting the constraint means a concurrent writer
// slipped past them.
func (r *CheckinRepo) Append(ctx context.Context, c Checkin) (int64, error) {
	return appendCheckin(ctx, r.db, c)
}

// AppendTx is Append scoped to a transaction.
func (r *CheckinRepo) AppendTx(ctx context.Context, tx *sql.Tx, c Checkin) (int64, error) {
	return appendCheckin(ctx, tx, c)
}

func appendCheckin(ctx context.Context, q querier, c Checkin) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO checkins (email, date, habit_name, level, task)
		VALUES (?, ?, ?, ?, ?)
	`, c.Email, c.Date, c.HabitName, c.Level, c.Task)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateCheckin
		}
		return 0, fmt.Errorf("checkin append: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("checkin last insert id: %w", err)
	}
	return id, nil
}

// HasCheckedIn reports whether the user already has a ledger row for date,
// regardless of habit.
func (r *CheckinRepo) HasCheckedIn(ctx context.Context, email, date string) (bool, error) {
	return hasCheckedIn(ctx, r.db, email, date)
}

// HasCheckedInTx is HasCheckedIn scoped to a transaction.
func (r *CheckinRepo) HasCheckedInTx(ctx context.Context, tx *sql.Tx, email, date string) (bool, error) {
	return hasCheckedIn(ctx, tx, email, date)
}

func hasCheckedIn(ctx context.Context, q querier, email, date string) (bool, error) {
	row := q.QueryRowContext(ctx, `
		SELECT 1 FROM checkins WHERE email = ? AND date = ? LIMIT 1
	`, email, date)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("checkin exists: %w", err)
	}
	return true, nil
}

// ListDates returns every distinct check-in date for the user, for streak
// computation. Order is not guaranteed; the streak calculator sorts.
func (r *CheckinRepo) ListDates(ctx context.Context, email string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT date FROM checkins WHERE email = ?
	`, email)
	if err != nil {
		return nil, fmt.Errorf("checkin dates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("checkin date scan: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkin dates rows: %w", err)
	}
	return out, nil
}

// CountForLevelTx counts ledger rows for one habit level, scoped to the run
// that started on or after since. A habit restarted under the same name must
// not inherit rows from the earlier climb. The engine derives
// completionsAtLevel from this instead of blindly incrementing, so state
// self-heals after a crash between ledger append and user update.
func (r *CheckinRepo) CountForLevelTx(ctx context.Context, tx *sql.Tx, email, habitName string, level int, since string) (int, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM checkins WHERE email = ? AND habit_name = ? AND level = ? AND date >= ?
	`, email, habitName, level, since)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("checkin level count: %w", err)
	}
	return n, nil
}

// CountForHabitTx counts every ledger row for one habit, the totalDays of a
// graduation snapshot.
func (r *CheckinRepo) CountForHabitTx(ctx context.Context, tx *sql.Tx, email, habitName string) (int, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM checkins WHERE email = ? AND habit_name = ?
	`, email, habitName)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("checkin habit count: %w", err)
	}
	return n, nil
}

// ListFor returns all ledger rows for a user, newest first.
func (r *CheckinRepo) ListFor(ctx context.Context, email string) ([]Checkin, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, date, habit_name, level, task
		FROM checkins
		WHERE email = ?
		ORDER BY date DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("checkin list: %w", err)
	}
	defer rows.Close()

	var out []Checkin
	for rows.Next() {
		var c Checkin
		if err := rows.Scan(&c.ID, &c.Email, &c.Date, &c.HabitName, &c.Level, &c.Task); err != nil {
			return nil, fmt.Errorf("checkin scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkin list rows: %w", err)
	}
	return out, nil
}

// CountFor returns the user's lifetime check-in count.
func (r *CheckinRepo) CountFor(ctx context.Context, email string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkins WHERE email = ?`, email)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("checkin count: %w", err)
	}
	return n, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `email, id, reminder_time, active_habit, graduated_habits, created_at`

// Get returns the user with that email, or nil when none exists.
func (r *UserRepo) Get(ctx context.Context, email string) (*User, error) {
	return getUser(ctx, r.db, email)
}

// GetTx is Get scoped to a transaction.
func (r *UserRepo) GetTx(ctx context.Context, tx *sql.Tx, email string) (*User, error) {
	return getUser(ctx, tx, email)
}

func getUser(ctx context.Context, q querier, email string) (*User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// Insert creates a new user. ErrAlreadyExists is returned when the email is
// already registered.
func (r *UserRepo) Insert(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, id, reminder_time, active_habit, graduated_habits, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Email, u.ID, u.ReminderTime, u.ActiveHabitJSON, u.GraduatedJSON, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

// Update replaces the user's habit state wholesale, keyed by email. Only
// the progression engine calls this.
func (r *UserRepo) Update(ctx context.Context, u *User) error {
	return updateUser(ctx, r.db, u)
}

// UpdateTx is Update scoped to a transaction.
func (r *UserRepo) UpdateTx(ctx context.Context, tx *sql.Tx, u *User) error {
	return updateUser(ctx, tx, u)
}

func updateUser(ctx context.Context, q querier, u *User) error {
	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET reminder_time = ?, active_habit = ?, graduated_habits = ?
		WHERE email = ?
	`, u.ReminderTime, u.ActiveHabitJSON, u.GraduatedJSON, u.Email)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user update rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListWithActiveHabit returns every user currently building a habit, for
// reminder fan-out.
func (r *UserRepo) ListWithActiveHabit(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE active_habit IS NOT NULL
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("user list active: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user list rows: %w", err)
	}
	return out, nil
}

func scanUser(row scanner) (*User, error) {
	var (
		u     User
		habit sql.NullString
	)
	if err := row.Scan(&u.Email, &u.ID, &u.ReminderTime, &habit, &u.GraduatedJSON, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if habit.Valid {
		v := habit.String
		u.ActiveHabitJSON = &v
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

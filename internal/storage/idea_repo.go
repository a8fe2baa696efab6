package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// IdeaRepo stores the community habit-ideas wall.
type IdeaRepo struct {
	db *sql.DB
}

func NewIdeaRepo(db *sql.DB) *IdeaRepo {
	return &IdeaRepo{db: db}
}

func (r *IdeaRepo) Insert(ctx context.Context, i Idea) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ideas (id, text, author, votes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, i.ID, i.Text, i.Author, i.Votes, i.CreatedAt)
	if err != nil {
		return fmt.Errorf("idea insert: %w", err)
	}
	return nil
}

func (r *IdeaRepo) Get(ctx context.Context, id string) (*Idea, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, text, author, votes, created_at FROM ideas WHERE id = ?
	`, id)
	var i Idea
	if err := row.Scan(&i.ID, &i.Text, &i.Author, &i.Votes, &i.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("idea get: %w", err)
	}
	return &i, nil
}

func (r *IdeaRepo) ListAll(ctx context.Context) ([]Idea, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, author, votes, created_at
		FROM ideas
		ORDER BY votes DESC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("idea list: %w", err)
	}
	defer rows.Close()

	var out []Idea
	for rows.Next() {
		var i Idea
		if err := rows.Scan(&i.ID, &i.Text, &i.Author, &i.Votes, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("idea scan: %w", err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("idea rows: %w", err)
	}
	return out, nil
}

// AddVote increments the vote counter atomically and returns the updated
// row, or nil when the idea does not exist.
func (r *IdeaRepo) AddVote(ctx context.Context, id string) (*Idea, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE ideas SET votes = votes + 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("idea vote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("idea vote rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

package habit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/upperspacecase/habitspace/internal/storage"
)

const maxIdeaLength = 200

// ListIdeas returns the community wall, most-voted first.
func (s *Service) ListIdeas(ctx context.Context) ([]storage.Idea, error) {
	ideas, err := s.ideas.ListAll(ctx)
	if err != nil {
		return nil, storageErr("idea list", err)
	}
	return ideas, nil
}

// SubmitIdea posts a habit suggestion to the wall.
func (s *Service) SubmitIdea(ctx context.Context, text string, now time.Time) (*storage.Idea, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, fmt.Errorf("habit text is required")
	}
	if len(t) > maxIdeaLength {
		return nil, fmt.Errorf("keep it short, %d characters max", maxIdeaLength)
	}

	idea := storage.Idea{
		ID:        uuid.NewString(),
		Text:      t,
		Author:    "Anonymous",
		CreatedAt: DayOf(now),
	}
	if err := s.ideas.Insert(ctx, idea); err != nil {
		return nil, storageErr("idea insert", err)
	}
	return &idea, nil
}

// VoteIdea upvotes a wall entry. Returns ErrIdeaNotFound for unknown ids.
func (s *Service) VoteIdea(ctx context.Context, id string) (*storage.Idea, error) {
	idea, err := s.ideas.AddVote(ctx, id)
	if err != nil {
		return nil, storageErr("idea vote", err)
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

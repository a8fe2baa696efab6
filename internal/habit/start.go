package habit

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/upperspacecase/habitspace/internal/storage"
)

// StartInput selects the habit to begin: a catalog template id, or
// "custom" plus a name.
type StartInput struct {
	Email        string
	TemplateID   string
	CustomName   string
	ReminderTime string // HH:MM, CreateUser only; defaults to 08:00
}

var reminderTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func buildActiveHabit(in StartInput, today string) (*ActiveHabit, error) {
	if in.TemplateID != "" && in.TemplateID != "custom" {
		t, err := GetTemplate(in.TemplateID)
		if err != nil {
			return nil, err
		}
		levels := make([]HabitLevel, len(t.Levels))
		copy(levels, t.Levels)
		return &ActiveHabit{
			TemplateID:   t.ID,
			Name:         t.Name,
			Emoji:        t.Emoji,
			CurrentLevel: 1,
			Levels:       levels,
			StartedAt:    today,
		}, nil
	}

	name := strings.TrimSpace(in.CustomName)
	if name == "" {
		return nil, fmt.Errorf("pick a habit template or enter a custom habit")
	}
	return &ActiveHabit{
		TemplateID:   "custom",
		Name:         name,
		Emoji:        CustomEmoji,
		CurrentLevel: 1,
		Levels:       BuildCustomLevels(name),
		StartedAt:    today,
	}, nil
}

// CreateUser registers a new user and starts their first habit. Fails with
// ErrUserExists when the email is taken.
func (s *Service) CreateUser(ctx context.Context, in StartInput, now time.Time) (*User, error) {
	e, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	reminder := in.ReminderTime
	if reminder == "" {
		reminder = "08:00"
	}
	if !reminderTimeRe.MatchString(reminder) {
		return nil, fmt.Errorf("invalid reminder time %q, want HH:MM", reminder)
	}

	today := DayOf(now)
	habit, err := buildActiveHabit(in, today)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:              uuid.NewString(),
		Email:           e,
		ReminderTime:    reminder,
		ActiveHabit:     habit,
		GraduatedHabits: []GraduatedHabit{},
		CreatedAt:       today,
	}
	row, err := rowFromUser(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, row); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, storageErr("user insert", err)
	}

	s.dispatch(Notification{
		Kind:      NotifyWelcome,
		Email:     e,
		HabitName: habit.Name,
		Task:      habit.Levels[0].Task,
		Level:     1,
	})
	return u, nil
}

// StartNextHabit installs a fresh habit after graduation. Fails with
// ErrHabitAlreadyActive while one is still in progress.
func (s *Service) StartNextHabit(ctx context.Context, in StartInput, now time.Time) (*User, error) {
	e, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forUser(e)
	lock.Lock()
	defer lock.Unlock()

	u, err := s.GetUser(ctx, e)
	if err != nil {
		return nil, err
	}
	if u.ActiveHabit != nil {
		return nil, ErrHabitAlreadyActive
	}

	habit, err := buildActiveHabit(in, DayOf(now))
	if err != nil {
		return nil, err
	}
	u.ActiveHabit = habit

	row, err := rowFromUser(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, row); err != nil {
		return nil, storageErr("user update", err)
	}

	s.dispatch(Notification{
		Kind:      NotifyWelcome,
		Email:     e,
		HabitName: habit.Name,
		Task:      habit.Levels[0].Task,
		Level:     1,
	})
	return u, nil
}

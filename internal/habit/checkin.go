package habit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/upperspacecase/habitspace/internal/storage"
)

// CheckinResult is what a successful check-in returns: the user's new
// state, the recomputed streak, and at most one domain event.
type CheckinResult struct {
	User   *User
	Streak int
	Event  Event // nil when the check-in caused no transition
}

// RecordCheckin runs the daily check-in transition for one user.
//
// Preconditions: the user exists, has an active habit, and has not checked
// in today (ErrAlreadyCheckedIn otherwise; that is the idempotency guard,
// a retried request must not count as two days of progress).
//
// The ledger append and the user update commit in one transaction, ledger
// first. completionsAtLevel is re-derived from ledger counts rather than
// incremented, so a store that diverged from the ledger converges on the
// next check-in.
func (s *Service) RecordCheckin(ctx context.Context, email string, now time.Time) (*CheckinResult, error) {
	e, err := NormalizeEmail(email)
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
	if u.ActiveHabit == nil {
		return nil, ErrNoActiveHabit
	}

	today := DayOf(now)
	checked, err := s.checkins.HasCheckedIn(ctx, e, today)
	if err != nil {
		return nil, storageErr("checkin lookup", err)
	}
	if checked {
		return nil, ErrAlreadyCheckedIn
	}

	habit := u.ActiveHabit
	level := habit.CurrentLevel
	levelData := habit.CurrentLevelData()

	var event Event
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.checkins.AppendTx(ctx, tx, storage.Checkin{
			Email:     e,
			Date:      today,
			HabitName: habit.Name,
			Level:     level,
			Task:      levelData.Task,
		})
		if err != nil {
			return err
		}

		count, err := s.checkins.CountForLevelTx(ctx, tx, e, habit.Name, level, habit.StartedAt)
		if err != nil {
			return err
		}
		habit.CompletionsAtLevel = count

		if count >= levelData.DaysRequired {
			if habit.OnFinalLevel() {
				total, err := s.checkins.CountForHabitTx(ctx, tx, e, habit.Name)
				if err != nil {
					return err
				}
				u.GraduatedHabits = append(u.GraduatedHabits, GraduatedHabit{
					Name:        habit.Name,
					Emoji:       habit.Emoji,
					CompletedAt: today,
					TotalDays:   total,
					FinalLevel:  levelData.Task,
				})
				event = Graduated{HabitName: habit.Name, TotalDays: total}
				u.ActiveHabit = nil
			} else {
				next := habit.Levels[level] // rung above the current one
				habit.CurrentLevel = level + 1
				habit.CompletionsAtLevel = 0
				event = LevelUp{NewLevel: level + 1, NewTask: next.Task}
			}
		}

		row, err := rowFromUser(u)
		if err != nil {
			return err
		}
		return s.users.UpdateTx(ctx, tx, row)
	})
	if err != nil {
		// A concurrent writer beating us to the UNIQUE constraint is the
		// same idempotency signal as the precondition check.
		if errors.Is(err, storage.ErrDuplicateCheckin) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, storageErr("checkin transition", err)
	}

	streak, err := s.Streak(ctx, e, today)
	if err != nil {
		return nil, err
	}

	switch ev := event.(type) {
	case LevelUp:
		s.dispatch(Notification{
			Kind:      NotifyLevelUp,
			Email:     e,
			HabitName: u.ActiveHabit.Name,
			Task:      ev.NewTask,
			Level:     ev.NewLevel,
		})
	case Graduated:
		s.dispatch(Notification{
			Kind:      NotifyGraduation,
			Email:     e,
			HabitName: ev.HabitName,
			TotalDays: ev.TotalDays,
		})
	}

	return &CheckinResult{User: u, Streak: streak, Event: event}, nil
}

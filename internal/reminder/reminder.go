// Package reminder fans out the daily task email to every user whose
// reminder hour matches the current hour.
package reminder

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/upperspacecase/habitspace/internal/habit"
)

// AllHours disables the hour filter, sending to every active user.
const AllHours = -1

const maxConcurrentSends = 8

type Sender struct {
	svc      *habit.Service
	notifier habit.Notifier
	log      *zap.Logger
}

func NewSender(svc *habit.Service, notifier habit.Notifier, log *zap.Logger) *Sender {
	return &Sender{svc: svc, notifier: notifier, log: log}
}

// Run sends a reminder to each user with an active habit whose preferred
// reminder hour equals hour (AllHours matches everyone). Individual
// delivery failures are logged and skipped; the fan-out keeps going.
// Returns the number of reminders sent.
func (s *Sender) Run(ctx context.Context, now time.Time, hour int) (int, error) {
	users, err := s.svc.UsersWithActiveHabit(ctx)
	if err != nil {
		return 0, err
	}
	today := habit.DayOf(now)

	var sent atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSends)

	for _, u := range users {
		if hour != AllHours && reminderHour(u.ReminderTime) != hour {
			continue
		}
		g.Go(func() error {
			streak, err := s.svc.Streak(ctx, u.Email, today)
			if err != nil {
				s.log.Warn("reminder streak lookup failed",
					zap.String("email", u.Email), zap.Error(err))
				return nil
			}
			level := u.ActiveHabit.CurrentLevelData()
			n := habit.Notification{
				Kind:      habit.NotifyReminder,
				Email:     u.Email,
				HabitName: u.ActiveHabit.Name,
				Task:      level.Task,
				Level:     level.Level,
				Streak:    streak,
			}
			if err := s.notifier.Send(ctx, n); err != nil {
				s.log.Warn("reminder send failed",
					zap.String("email", u.Email), zap.Error(err))
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(sent.Load()), err
	}
	s.log.Info("reminder run complete",
		zap.Int("hour", hour), zap.Int64("sent", sent.Load()))
	return int(sent.Load()), nil
}

// reminderHour parses the hour out of an "HH:MM" preference. Malformed
// values never match a real hour.
func reminderHour(t string) int {
	hh, _, ok := strings.Cut(t, ":")
	if !ok {
		return -2
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return -2
	}
	return h
}

package habit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/upperspacecase/habitspace/internal/storage"
)

// Service is the sole writer of user habit state. All transitions go
// through it, serialized per user.
type Service struct {
	db       *sql.DB
	users    *storage.UserRepo
	checkins *storage.CheckinRepo
	ideas    *storage.IdeaRepo
	notifier Notifier

	locks userLocks
}

// NewService wires the engine over an open database. notifier may be nil,
// in which case transitions complete silently.
func NewService(db *sql.DB, notifier Notifier) *Service {
	return &Service{
		db:       db,
		users:    storage.NewUserRepo(db),
		checkins: storage.NewCheckinRepo(db),
		ideas:    storage.NewIdeaRepo(db),
		notifier: notifier,
	}
}

func (s *Service) UserRepo() *storage.UserRepo       { return s.users }
func (s *Service) CheckinRepo() *storage.CheckinRepo { return s.checkins }
func (s *Service) IdeaRepo() *storage.IdeaRepo       { return s.ideas }

// userLocks hands out one mutex per user so concurrent check-ins for the
// same user cannot both observe "not yet checked in today". Different
// users proceed in parallel.
type userLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *userLocks) forUser(email string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	lock, ok := l.m[email]
	if !ok {
		lock = &sync.Mutex{}
		l.m[email] = lock
	}
	return lock
}

// NormalizeEmail canonicalizes an email the way every lookup key does.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" || !strings.Contains(e, "@") {
		return "", ErrInvalidEmail
	}
	return e, nil
}

// GetUser returns the user's current state, or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, email string) (*User, error) {
	e, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	row, err := s.users.Get(ctx, e)
	if err != nil {
		return nil, storageErr("user lookup", err)
	}
	if row == nil {
		return nil, ErrUserNotFound
	}
	return userFromRow(row)
}

// Streak recomputes the user's current streak from the ledger.
func (s *Service) Streak(ctx context.Context, email, today string) (int, error) {
	e, err := NormalizeEmail(email)
	if err != nil {
		return 0, err
	}
	dates, err := s.checkins.ListDates(ctx, e)
	if err != nil {
		return 0, storageErr("streak dates", err)
	}
	return Streak(dates, today), nil
}

// UsersWithActiveHabit returns every user with a habit in progress. Used
// by the reminder fan-out.
func (s *Service) UsersWithActiveHabit(ctx context.Context) ([]*User, error) {
	rows, err := s.users.ListWithActiveHabit(ctx)
	if err != nil {
		return nil, storageErr("active user list", err)
	}
	users := make([]*User, 0, len(rows))
	for i := range rows {
		u, err := userFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func userFromRow(row *storage.User) (*User, error) {
	u := &User{
		ID:              row.ID,
		Email:           row.Email,
		ReminderTime:    row.ReminderTime,
		GraduatedHabits: []GraduatedHabit{},
		CreatedAt:       row.CreatedAt,
	}
	if row.ActiveHabitJSON != nil {
		var h ActiveHabit
		if err := json.Unmarshal([]byte(*row.ActiveHabitJSON), &h); err != nil {
			return nil, fmt.Errorf("decode active habit: %w", err)
		}
		u.ActiveHabit = &h
	}
	if row.GraduatedJSON != "" {
		if err := json.Unmarshal([]byte(row.GraduatedJSON), &u.GraduatedHabits); err != nil {
			return nil, fmt.Errorf("decode graduated habits: %w", err)
		}
	}
	return u, nil
}

func rowFromUser(u *User) (*storage.User, error) {
	row := &storage.User{
		Email:        u.Email,
		ID:           u.ID,
		ReminderTime: u.ReminderTime,
		CreatedAt:    u.CreatedAt,
	}
	if u.ActiveHabit != nil {
		data, err := json.Marshal(u.ActiveHabit)
		if err != nil {
			return nil, fmt.Errorf("encode active habit: %w", err)
		}
		s := string(data)
		row.ActiveHabitJSON = &s
	}
	grads := u.GraduatedHabits
	if grads == nil {
		grads = []GraduatedHabit{}
	}
	data, err := json.Marshal(grads)
	if err != nil {
		return nil, fmt.Errorf("encode graduated habits: %w", err)
	}
	row.GraduatedJSON = string(data)
	return row, nil
}

// dispatch hands an outbound notification to the sink without blocking the
// caller. Delivery failures are the sink's problem; the transition has
// already committed.
func (s *Service) dispatch(n Notification) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(context.Background(), n)
}

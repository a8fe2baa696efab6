package habit

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/upperspacecase/habitspace/internal/storage"
)

// recorder captures dispatched notifications for assertions.
type recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recorder) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recorder) last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}, false
	}
	return r.sent[len(r.sent)-1], true
}

func (r *recorder) count(kind NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.sent {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rec := &recorder{}
	return NewService(db, rec), rec
}

func mustCreateUser(t *testing.T, svc *Service, email, templateID string, now time.Time) *User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), StartInput{Email: email, TemplateID: templateID}, now)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// setDaysRequired rewrites the stored ladder so tests can hit level
// boundaries without dozens of check-ins.
func setDaysRequired(t *testing.T, svc *Service, email string, days int) {
	t.Helper()
	ctx := context.Background()
	u, err := svc.GetUser(ctx, email)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	for i := range u.ActiveHabit.Levels {
		u.ActiveHabit.Levels[i].DaysRequired = days
	}
	row, err := rowFromUser(u)
	if err != nil {
		t.Fatalf("encode user: %v", err)
	}
	if err := svc.UserRepo().Update(ctx, row); err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(DayFormat, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

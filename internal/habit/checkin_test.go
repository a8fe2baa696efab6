package habit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCheckinRecordsProgress(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := day("2024-03-10")

	mustCreateUser(t, svc, "a@example.com", "meditate", now)

	res, err := svc.RecordCheckin(ctx, "a@example.com", now)
	if err != nil {
		t.Fatalf("RecordCheckin: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("streak=%d, want 1", res.Streak)
	}
	if res.Event != nil {
		t.Fatalf("unexpected event %#v", res.Event)
	}
	if got := res.User.ActiveHabit.CompletionsAtLevel; got != 1 {
		t.Fatalf("completionsAtLevel=%d, want 1", got)
	}
}

func TestCheckinIdempotentSameDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := day("2024-03-10")

	mustCreateUser(t, svc, "a@example.com", "read", now)

	if _, err := svc.RecordCheckin(ctx, "a@example.com", now); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	_, err := svc.RecordCheckin(ctx, "a@example.com", now.Add(4*time.Hour))
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("err=%v, want ErrAlreadyCheckedIn", err)
	}

	u, err := svc.GetUser(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got := u.ActiveHabit.CompletionsAtLevel; got != 1 {
		t.Fatalf("completionsAtLevel=%d after duplicate, want 1", got)
	}
}

func TestCheckinNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := day("2024-03-10")

	mustCreateUser(t, svc, "Mixed@Example.COM", "journal", now)

	if _, err := svc.RecordCheckin(ctx, "  mixed@example.com ", now); err != nil {
		t.Fatalf("RecordCheckin with differently-cased email: %v", err)
	}
	_, err := svc.RecordCheckin(ctx, "MIXED@EXAMPLE.COM", now)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("err=%v, want ErrAlreadyCheckedIn across casings", err)
	}
}

func TestCheckinUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordCheckin(context.Background(), "ghost@example.com", day("2024-03-10"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err=%v, want ErrUserNotFound", err)
	}
}

func TestLevelUpAtBoundary(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	mustCreateUser(t, svc, "a@example.com", "exercise", day("2024-03-01"))

	// Six check-ins: still level 1.
	for i := 0; i < 6; i++ {
		res, err := svc.RecordCheckin(ctx, "a@example.com", day("2024-03-01").AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
		if res.Event != nil {
			t.Fatalf("check-in %d: unexpected event %#v", i+1, res.Event)
		}
	}

	// Seventh completes the level.
	res, err := svc.RecordCheckin(ctx, "a@example.com", day("2024-03-07"))
	if err != nil {
		t.Fatalf("seventh check-in: %v", err)
	}
	ev, ok := res.Event.(LevelUp)
	if !ok {
		t.Fatalf("event=%#v, want LevelUp", res.Event)
	}
	if ev.NewLevel != 2 {
		t.Fatalf("newLevel=%d, want 2", ev.NewLevel)
	}
	h := res.User.ActiveHabit
	if h.CurrentLevel != 2 || h.CompletionsAtLevel != 0 {
		t.Fatalf("after level up: level=%d completions=%d, want 2/0", h.CurrentLevel, h.CompletionsAtLevel)
	}
	if ev.NewTask != h.CurrentLevelData().Task {
		t.Fatalf("newTask=%q does not match current level task %q", ev.NewTask, h.CurrentLevelData().Task)
	}
	if rec.count(NotifyLevelUp) != 1 {
		t.Fatalf("level-up notifications=%d, want 1", rec.count(NotifyLevelUp))
	}
}

func TestGraduation(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	start := day("2024-01-01")

	mustCreateUser(t, svc, "grad@example.com", "hydrate", start)
	setDaysRequired(t, svc, "grad@example.com", 1)

	var last *CheckinResult
	for i := 0; i < 5; i++ {
		res, err := svc.RecordCheckin(ctx, "grad@example.com", start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
		last = res
	}

	ev, ok := last.Event.(Graduated)
	if !ok {
		t.Fatalf("event=%#v, want Graduated", last.Event)
	}
	if ev.TotalDays != 5 {
		t.Fatalf("totalDays=%d, want 5", ev.TotalDays)
	}
	if last.User.ActiveHabit != nil {
		t.Fatalf("active habit not cleared after graduation")
	}
	if len(last.User.GraduatedHabits) != 1 {
		t.Fatalf("graduatedHabits=%d, want 1", len(last.User.GraduatedHabits))
	}
	g := last.User.GraduatedHabits[0]
	if g.Name != "Hydrate" || g.TotalDays != 5 || g.CompletedAt != "2024-01-05" {
		t.Fatalf("graduation snapshot=%+v", g)
	}
	if g.FinalLevel == "" {
		t.Fatalf("finalLevel not captured")
	}
	if rec.count(NotifyGraduation) != 1 {
		t.Fatalf("graduation notifications=%d, want 1", rec.count(NotifyGraduation))
	}

	// No habit left to check in against.
	_, err := svc.RecordCheckin(ctx, "grad@example.com", start.AddDate(0, 0, 5))
	if !errors.Is(err, ErrNoActiveHabit) {
		t.Fatalf("err=%v, want ErrNoActiveHabit", err)
	}
}

func TestGraduationCountsAllHabitDays(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	start := day("2024-01-01")

	mustCreateUser(t, svc, "a@example.com", "gratitude", start)

	// Five levels at seven days each: graduation lands on day 35 with
	// the full ledger count, not just the final level's.
	var last *CheckinResult
	for i := 0; i < 35; i++ {
		res, err := svc.RecordCheckin(ctx, "a@example.com", start.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
		last = res
	}
	ev, ok := last.Event.(Graduated)
	if !ok {
		t.Fatalf("event=%#v, want Graduated", last.Event)
	}
	if ev.TotalDays != 35 {
		t.Fatalf("totalDays=%d, want 35", ev.TotalDays)
	}
}

func TestCompletionsRederivedFromLedger(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	start := day("2024-03-01")

	mustCreateUser(t, svc, "a@example.com", "sleep", start)

	for i := 0; i < 6; i++ {
		if _, err := svc.RecordCheckin(ctx, "a@example.com", start.AddDate(0, 0, i)); err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
	}

	// Corrupt the denormalized counter; the ledger stays authoritative.
	u, err := svc.GetUser(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	u.ActiveHabit.CompletionsAtLevel = 0
	row, err := rowFromUser(u)
	if err != nil {
		t.Fatalf("encode user: %v", err)
	}
	if err := svc.UserRepo().Update(ctx, row); err != nil {
		t.Fatalf("update user: %v", err)
	}

	res, err := svc.RecordCheckin(ctx, "a@example.com", day("2024-03-07"))
	if err != nil {
		t.Fatalf("seventh check-in: %v", err)
	}
	if _, ok := res.Event.(LevelUp); !ok {
		t.Fatalf("event=%#v, want LevelUp despite corrupted counter", res.Event)
	}
}

func TestRestartedHabitCounterStartsFresh(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	start := day("2024-01-01")

	// Graduate "read" on a shortened ladder, then start it again.
	mustCreateUser(t, svc, "again@example.com", "read", start)
	setDaysRequired(t, svc, "again@example.com", 1)
	for i := 0; i < 5; i++ {
		if _, err := svc.RecordCheckin(ctx, "again@example.com", start.AddDate(0, 0, i)); err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
	}

	restart := start.AddDate(0, 0, 5)
	if _, err := svc.StartNextHabit(ctx, StartInput{Email: "again@example.com", TemplateID: "read"}, restart); err != nil {
		t.Fatalf("StartNextHabit: %v", err)
	}

	// The old run's level-1 rows must not count toward the new climb.
	res, err := svc.RecordCheckin(ctx, "again@example.com", restart)
	if err != nil {
		t.Fatalf("first check-in of restarted habit: %v", err)
	}
	if got := res.User.ActiveHabit.CompletionsAtLevel; got != 1 {
		t.Fatalf("completionsAtLevel=%d after one check-in of restarted habit, want 1", got)
	}
	if res.Event != nil {
		t.Fatalf("unexpected event on restarted habit: %#v", res.Event)
	}

	// Counter climbs one per day; the level boundary lands on day 7, not
	// earlier.
	for i := 1; i < 6; i++ {
		res, err = svc.RecordCheckin(ctx, "again@example.com", restart.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("restarted check-in %d: %v", i+1, err)
		}
		if got := res.User.ActiveHabit.CompletionsAtLevel; got != i+1 {
			t.Fatalf("completionsAtLevel=%d after %d check-ins, want %d", got, i+1, i+1)
		}
		if res.Event != nil {
			t.Fatalf("restarted check-in %d: unexpected event %#v", i+1, res.Event)
		}
	}
	res, err = svc.RecordCheckin(ctx, "again@example.com", restart.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("seventh restarted check-in: %v", err)
	}
	if _, ok := res.Event.(LevelUp); !ok {
		t.Fatalf("event=%#v, want LevelUp on day 7 of the restarted habit", res.Event)
	}
}

func TestConcurrentCheckinsSameDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := day("2024-03-10")

	mustCreateUser(t, svc, "racer@example.com", "declutter", now)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordCheckin(ctx, "racer@example.com", now)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyCheckedIn):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful check-ins=%d, want exactly 1", ok)
	}

	u, err := svc.GetUser(ctx, "racer@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got := u.ActiveHabit.CompletionsAtLevel; got != 1 {
		t.Fatalf("completionsAtLevel=%d, want 1", got)
	}
}

package habit

import (
	"context"
	"testing"
)

func findBadge(t *testing.T, badges []Badge, id string) Badge {
	t.Helper()
	for _, b := range badges {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("badge %q not found", id)
	return Badge{}
}

func TestBadgeThresholds(t *testing.T) {
	u := &User{GraduatedHabits: []GraduatedHabit{}}

	b := NewBadgeChecker(u, 0, 0).Badges()
	for _, badge := range b {
		if badge.Earned {
			t.Fatalf("badge %q earned with zero activity", badge.ID)
		}
	}

	b = NewBadgeChecker(u, 7, 25).Badges()
	if !findBadge(t, b, "first_step").Earned {
		t.Fatalf("first_step not earned at 25 check-ins")
	}
	if !findBadge(t, b, "shows_up").Earned {
		t.Fatalf("shows_up not earned at 25 check-ins")
	}
	if !findBadge(t, b, "one_week").Earned {
		t.Fatalf("one_week not earned at streak 7")
	}
	if findBadge(t, b, "two_weeks").Earned {
		t.Fatalf("two_weeks earned at streak 7")
	}

	u.GraduatedHabits = make([]GraduatedHabit, 3)
	b = NewBadgeChecker(u, 0, 0).Badges()
	if !findBadge(t, b, "graduate").Earned || !findBadge(t, b, "stacker").Earned {
		t.Fatalf("graduation badges not earned with 3 graduated habits")
	}
}

func TestBadgesForLoadsState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := day("2024-03-10")

	mustCreateUser(t, svc, "b@example.com", "meditate", now)
	if _, err := svc.RecordCheckin(ctx, "b@example.com", now); err != nil {
		t.Fatalf("RecordCheckin: %v", err)
	}

	badges, err := svc.BadgesFor(ctx, "b@example.com", "2024-03-10")
	if err != nil {
		t.Fatalf("BadgesFor: %v", err)
	}
	if !findBadge(t, badges, "first_step").Earned {
		t.Fatalf("first_step not earned after one check-in")
	}
	if findBadge(t, badges, "one_week").Earned {
		t.Fatalf("one_week earned after one check-in")
	}
}

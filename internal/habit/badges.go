package habit

import "context"

// Badge is a milestone the user has (or has not yet) earned.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// BadgeChecker computes milestone badges from a user's state, streak, and
// lifetime check-in count.
type BadgeChecker struct {
	user          *User
	streak        int
	totalCheckins int
}

func NewBadgeChecker(user *User, streak, totalCheckins int) *BadgeChecker {
	return &BadgeChecker{user: user, streak: streak, totalCheckins: totalCheckins}
}

// Badges returns all badges with their earned status.
func (c *BadgeChecker) Badges() []Badge {
	return []Badge{
		c.checkinBadge("first_step", "First Step", "Check in once", "👣", 1),
		c.checkinBadge("shows_up", "Shows Up", "25 total check-ins", "📅", 25),
		c.checkinBadge("century", "Century Club", "100 total check-ins", "💯", 100),

		c.streakBadge("one_week", "One Week Strong", "7-day streak", "🔥", 7),
		c.streakBadge("two_weeks", "Fortnight", "14-day streak", "⚡", 14),
		c.streakBadge("one_month", "Unstoppable", "30-day streak", "🌟", 30),

		c.graduateBadge("graduate", "Graduate", "Complete all 5 levels of a habit", "🎓", 1),
		c.graduateBadge("stacker", "Habit Stacker", "Graduate 3 habits", "🏆", 3),
	}
}

// CountEarned returns how many badges have been earned.
func (c *BadgeChecker) CountEarned() int {
	count := 0
	for _, b := range c.Badges() {
		if b.Earned {
			count++
		}
	}
	return count
}

func (c *BadgeChecker) checkinBadge(id, name, desc, icon string, count int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.totalCheckins >= count}
}

func (c *BadgeChecker) streakBadge(id, name, desc, icon string, days int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.streak >= days}
}

func (c *BadgeChecker) graduateBadge(id, name, desc, icon string, count int) Badge {
	return Badge{ID: id, Name: name, Description: desc, Icon: icon, Earned: len(c.user.GraduatedHabits) >= count}
}

// BadgesFor is a convenience wrapper that loads everything the checker
// needs for one user.
func (s *Service) BadgesFor(ctx context.Context, email, today string) ([]Badge, error) {
	u, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}
	streak, err := s.Streak(ctx, u.Email, today)
	if err != nil {
		return nil, err
	}
	total, err := s.checkins.CountFor(ctx, u.Email)
	if err != nil {
		return nil, storageErr("checkin count", err)
	}
	return NewBadgeChecker(u, streak, total).Badges(), nil
}

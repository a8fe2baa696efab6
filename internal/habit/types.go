// Package habit contains the habit-progression engine: streak computation,
// the level ladder, and the check-in state machine. Storage and notification
// are collaborators; this package owns every mutation of user habit state.
package habit

import (
	"context"
	"time"
)

// DayFormat is the calendar-day representation used at every boundary.
// Days are always computed in UTC so the contiguity test in Streak cannot
// be corrupted by zone changes or DST.
const DayFormat = "2006-01-02"

// DayOf returns the UTC calendar day of t.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, time.UTC)
}

// HabitLevel is one rung of a habit's ladder. Immutable once a habit starts.
type HabitLevel struct {
	Level        int    `json:"level"`
	Task         string `json:"task"`
	DaysRequired int    `json:"daysRequired"`
}

// ActiveHabit is the habit a user is currently building. A user has at most
// one. Levels are copied from the template at start time, never referenced,
// so later catalog edits cannot change a ladder mid-climb.
type ActiveHabit struct {
	TemplateID         string       `json:"templateId"`
	Name               string       `json:"name"`
	Emoji              string       `json:"emoji"`
	CurrentLevel       int          `json:"currentLevel"`
	Levels             []HabitLevel `json:"levels"`
	StartedAt          string       `json:"startedAt"`
	CompletionsAtLevel int          `json:"completionsAtLevel"`
}

// CurrentLevelData returns the ladder rung for the habit's current level.
func (h *ActiveHabit) CurrentLevelData() HabitLevel {
	return h.Levels[h.CurrentLevel-1]
}

// OnFinalLevel reports whether the habit is at its last rung.
func (h *ActiveHabit) OnFinalLevel() bool {
	return h.CurrentLevel >= len(h.Levels)
}

// GraduatedHabit is the immutable snapshot appended when a habit completes
// all levels.
type GraduatedHabit struct {
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	CompletedAt string `json:"completedAt"`
	TotalDays   int    `json:"totalDays"`
	FinalLevel  string `json:"finalLevel"`
}

// User owns at most one active habit and the ordered list of graduated ones.
type User struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	ReminderTime    string           `json:"reminderTime"`
	ActiveHabit     *ActiveHabit     `json:"activeHabit"`
	GraduatedHabits []GraduatedHabit `json:"graduatedHabits"`
	CreatedAt       string           `json:"createdAt"`
}

// Event is the domain event emitted by a check-in transition. At most one
// event is emitted per check-in; LevelUp and Graduated are mutually
// exclusive. Callers should switch exhaustively on the concrete type.
type Event interface {
	event()
}

// LevelUp is emitted when a level's required days are met and a higher
// level remains.
type LevelUp struct {
	NewLevel int    `json:"newLevel"`
	NewTask  string `json:"newTask"`
}

// Graduated is emitted when the final level's requirement is met. It is
// terminal: the active habit slot is cleared.
type Graduated struct {
	HabitName string `json:"habitName"`
	TotalDays int    `json:"totalDays"`
}

func (LevelUp) event()   {}
func (Graduated) event() {}

// NotificationKind mirrors the outbound message kinds of the notifier
// collaborator.
type NotificationKind string

const (
	NotifyWelcome    NotificationKind = "welcome"
	NotifyReminder   NotificationKind = "reminder"
	NotifyLevelUp    NotificationKind = "level_up"
	NotifyGraduation NotificationKind = "graduation"
)

// Notification is the payload handed to the notifier sink. Only the fields
// relevant to the kind are set.
type Notification struct {
	Kind      NotificationKind
	Email     string
	HabitName string
	Task      string
	Level     int
	Streak    int
	TotalDays int
}

// Notifier is the outbound notification sink. Implementations must not
// block the progression transition; failures are theirs to log.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Solo theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconFlame   = "🔥"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconGrad    = "🎓"
	IconTarget  = "🎯"
	IconWall    = "🧱"
	IconBell    = "🔔"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconStack   = "📚"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeGrad    = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("GRADUATED")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// StreakText renders "N-day streak" with the flame, muted when the streak
// is cold.
func StreakText(streak int) string {
	if streak <= 0 {
		return Muted.Render("no streak yet")
	}
	return Good.Render(fmt.Sprintf("%s %d-day streak", IconFlame, streak))
}

// ProgressBar renders level progress as filled and empty cells.
func ProgressBar(done, total int) string {
	if total <= 0 {
		total = 1
	}
	if done > total {
		done = total
	}
	filled := strings.Repeat("█", done)
	empty := strings.Repeat("░", total-done)
	return Good.Render(filled) + Muted.Render(empty) + fmt.Sprintf(" %d/%d", done, total)
}

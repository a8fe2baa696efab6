package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/upperspacecase/habitspace/internal/habit"
	"github.com/upperspacecase/habitspace/internal/ui"
)

type dashModel struct {
	ctx   context.Context
	svc   *habit.Service
	email string

	width  int
	height int

	user   *habit.User
	streak int
	badges []habit.Badge

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	user   *habit.User
	streak int
	badges []habit.Badge
	err    error
}

type checkedInMsg struct {
	res *habit.CheckinResult
	err error
}

func newDashModel(ctx context.Context, svc *habit.Service, email string) dashModel {
	return dashModel{
		ctx:     ctx,
		svc:     svc,
		email:   email,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m dashModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m dashModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		today := habit.DayOf(time.Now())
		u, err := m.svc.GetUser(m.ctx, m.email)
		if err != nil {
			return loadedMsg{err: err}
		}
		streak, err := m.svc.Streak(m.ctx, m.email, today)
		if err != nil {
			return loadedMsg{err: err}
		}
		badges, err := m.svc.BadgesFor(m.ctx, m.email, today)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{user: u, streak: streak, badges: badges}
	}
}

func (m dashModel) checkinCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.RecordCheckin(m.ctx, m.email, time.Now())
		return checkedInMsg{res: res, err: err}
	}
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.user = msg.user
		m.streak = msg.streak
		m.badges = msg.badges
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case checkedInMsg:
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, habit.ErrAlreadyCheckedIn):
				m.lastLog = "Already checked in today. See you tomorrow!"
			case errors.Is(msg.err, habit.ErrNoActiveHabit):
				m.lastLog = "No active habit. Run `solo start` to pick one."
			default:
				m.lastLog = "Check-in failed: " + msg.err.Error()
			}
			return m, nil
		}
		switch ev := msg.res.Event.(type) {
		case habit.LevelUp:
			m.lastLog = fmt.Sprintf("%s Level %d unlocked: %s", ui.BadgeLevelUp, ev.NewLevel, ev.NewTask)
		case habit.Graduated:
			m.lastLog = fmt.Sprintf("%s %s after %d days!", ui.BadgeGrad, ev.HabitName, ev.TotalDays)
		default:
			m.lastLog = fmt.Sprintf("Checked in. %s", ui.StreakText(msg.res.Streak))
		}
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "c", " ":
			if m.user == nil || m.user.ActiveHabit == nil {
				m.lastLog = "No active habit to check in."
				return m, nil
			}
			m.lastLog = "Checking in…"
			return m, m.checkinCmd()
		}
	}
	return m, nil
}

func (m dashModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 26
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m dashModel) renderHeader() string {
	if m.user == nil {
		return "Solo — loading…"
	}
	streak := "no streak"
	if m.streak > 0 {
		streak = fmt.Sprintf("%s %d-day streak", ui.IconFlame, m.streak)
	}
	return fmt.Sprintf("Solo | %s | %s", m.user.Email, streak)
}

func (m dashModel) renderSidebar() string {
	if m.user == nil {
		return "Stats\n\nLoading…"
	}
	lines := []string{"Badges"}
	if len(m.badges) == 0 {
		lines = append(lines, "(none yet)")
	}
	for _, b := range m.badges {
		mark := "-"
		if b.Earned {
			mark = ui.IconDone
		}
		lines = append(lines, fmt.Sprintf("%s %s", mark, b.Name))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- c/space: check in")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m dashModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	if m.user == nil {
		return "(no user)"
	}

	var out []string
	if h := m.user.ActiveHabit; h != nil {
		level := h.CurrentLevelData()
		out = append(out, fmt.Sprintf("Today's task: %s %s", h.Emoji, h.Name))
		out = append(out, "")
		out = append(out, "  "+level.Task)
		out = append(out, fmt.Sprintf("  Level %d of %d", h.CurrentLevel, len(h.Levels)))
		out = append(out, "  "+progressBar(h.CompletionsAtLevel, level.DaysRequired, 20))
	} else {
		out = append(out, "No active habit.")
		out = append(out, "Run `solo start` to pick your next one.")
	}

	out = append(out, "")
	out = append(out, "Graduated")
	if len(m.user.GraduatedHabits) == 0 {
		out = append(out, "(empty shelf, keep climbing)")
	}
	for _, g := range m.user.GraduatedHabits {
		out = append(out, fmt.Sprintf("- %s %s %s (%d days, %s)", ui.IconGrad, g.Emoji, g.Name, g.TotalDays, g.CompletedAt))
	}
	return strings.Join(out, "\n")
}

func (m dashModel) renderFooter() string {
	return "\n" + m.lastLog
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

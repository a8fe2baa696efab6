package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/upperspacecase/habitspace/internal/habit"
)

func RunDashboard(ctx context.Context, svc *habit.Service, email string, out io.Writer) error {
	m := newDashModel(ctx, svc, email)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

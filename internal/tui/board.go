package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, sess *engine.Session, out io.Writer) error {
	m := newBoardModel(ctx, svc, sess)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

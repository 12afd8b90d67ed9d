package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := ctx.Store.Observe(subCtx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to habits: %w", err)
	}

	p := tea.NewProgram(tui.NewModel(ctx.Habits, updates, ctx.Clock), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

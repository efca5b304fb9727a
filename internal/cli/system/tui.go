package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/routes"
	"github.com/julianstephens/shiftdesk/internal/tui"
)

type TuiCmd struct {
	Route string `help:"Screen to open, as a path such as /login or /schedules?PageNumber=2." default:""`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	client, err := ctx.API()
	if err != nil {
		return err
	}

	start := c.Route
	if start == "" {
		start = routes.PathSignup
		if ctx.Creds.HasToken() {
			start = routes.PathSchedules
		}
	}

	m := tui.NewModel(client, tui.Options{
		Start:         start,
		PageSize:      ctx.Config.PageSize,
		RedirectDelay: ctx.Config.RedirectDelay,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

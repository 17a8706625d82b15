package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/repodeck/internal/app"
	"github.com/johanforsgren/repodeck/internal/ui"
)

func launchTUI(c *app.Container) error {
	if c == nil {
		return errors.New("dashboard requires a configured container")
	}

	m := ui.NewModel(c.Tracker, c.Provider, c.Opener)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive shell at start and blocks until it exits.
func Run(deps Deps, start string) error {
	p := tea.NewProgram(New(deps, start), tea.WithAltScreen())

	// Alert expiry fires from a timer goroutine. Send asynchronously: the
	// store also notifies from inside Update, where a blocking Send deadlocks.
	deps.Env.Store.SetNotify(func() { go p.Send(storeChangedMsg{}) })
	defer deps.Env.Store.SetNotify(nil)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive shell: %w", err)
	}
	return nil
}

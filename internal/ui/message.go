package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/session"
)

// settledMsg carries the event produced by a finished gateway call back into Update.
type settledMsg struct {
	event session.Event
}

// run performs eff off the UI goroutine and reports the settling event.
func run(ctx context.Context, gateway services.Gateway, eff session.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	return func() tea.Msg {
		return settledMsg{event: session.Execute(ctx, gateway, eff)}
	}
}

package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/moviefight/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF5F5F", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	winner lipgloss.Style
	loser  lipgloss.Style
	tie    lipgloss.Style
	help   lipgloss.Style
	panel  lipgloss.Style
	label  lipgloss.Style
}

func NewPalette(t, w, l, tie, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		winner: NewBold(w),
		loser:  NewBold(l),
		tie:    NewStyle(tie),
		help:   NewEm(h),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(h)).Padding(0, 1).Width(36),
		label:  NewBold(t),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Classified renders text with the treatment for c.
func (p *Palette) Classified(c models.Classification, text string) string {
	switch c {
	case models.Winner:
		return p.winner.Render(text)
	case models.Loser:
		return p.loser.Render(text)
	default:
		return p.tie.Render(text)
	}
}

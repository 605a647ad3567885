package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moviefight/internal/models"
)

var _ list.Item = resultItem{}

// resultItem wraps [models.MovieSummary] to implement [list.Item].
type resultItem struct {
	summary models.MovieSummary
}

func (i resultItem) FilterValue() string { return i.summary.Title }
func (i resultItem) Title() string       { return i.summary.Title }
func (i resultItem) Description() string {
	if i.summary.Year == "" {
		return i.summary.ID
	}
	return i.summary.Year + " • " + i.summary.ID
}

func resultItems(results []models.MovieSummary) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{summary: r}
	}
	return items
}

// Package session implements the search/select state machine behind the comparison page.
//
// Transitions are pure: [Reduce] maps a [State] and an [Event] to the next state plus an optional [Effect]
// describing the gateway call to make. [Session] is the side-effecting shell that owns one state,
// performs effects against a [services.Gateway], and feeds the settled results back through [Reduce].
//
// Field ownership keeps concurrent actions apart: a search owns Loading and Results, each selection owns its
// target slot. A search and a selection may be in flight at the same time; two selections for the same slot
// race and the last one to settle wins.
package session

import (
	"strings"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
)

// State is everything one comparison page shows.
type State struct {
	Query   string                `json:"query"`
	Results []models.MovieSummary `json:"results"`
	First   *models.MovieRecord   `json:"first"`
	Second  *models.MovieRecord   `json:"second"`
	Loading bool                  `json:"loading"`
}

// Movie returns the record held by slot, or nil.
func (s State) Movie(slot models.Slot) *models.MovieRecord {
	if slot == models.Second {
		return s.Second
	}
	return s.First
}

// Matchup classifies the two slots as they currently stand.
func (s State) Matchup() compare.Matchup {
	return compare.Compare(s.First, s.Second)
}

// CanSearch reports whether the search control is enabled.
func (s State) CanSearch() bool { return !s.Loading }

func (s State) clone() State {
	if s.Results != nil {
		s.Results = append([]models.MovieSummary(nil), s.Results...)
	}
	return s
}

func (s *State) assign(slot models.Slot, r *models.MovieRecord) {
	if slot == models.Second {
		s.Second = r
	} else {
		s.First = r
	}
}

// Event is a user action or a settled gateway call.
type Event interface{ event() }

// QueryEdited replaces the query text. It never touches the network.
type QueryEdited struct{ Text string }

// SearchRequested asks to search for the current query text.
type SearchRequested struct{}

// SearchSettled delivers the rows of the in-flight search; empty on failure.
type SearchSettled struct{ Results []models.MovieSummary }

// SelectRequested asks to load Summary into Slot.
type SelectRequested struct {
	Summary models.MovieSummary
	Slot    models.Slot
}

// SelectSettled delivers the lookup for Slot; Record is nil when the lookup failed or found nothing.
type SelectSettled struct {
	Slot   models.Slot
	Record *models.MovieRecord
}

func (QueryEdited) event()     {}
func (SearchRequested) event() {}
func (SearchSettled) event()   {}
func (SelectRequested) event() {}
func (SelectSettled) event()   {}

// Effect describes a gateway call the shell must perform. A nil Effect means nothing to do.
type Effect interface{ effect() }

// SearchEffect runs a search for Query and settles with [SearchSettled].
type SearchEffect struct{ Query string }

// LookupEffect looks up Title and settles with [SelectSettled] for Slot.
type LookupEffect struct {
	Title string
	Slot  models.Slot
}

func (SearchEffect) effect() {}
func (LookupEffect) effect() {}

// Reduce applies e to s.
//
//   - QueryEdited: replace the query text.
//   - SearchRequested with a blank query: clear results, no effect.
//   - SearchRequested with text: clear results, set Loading, emit [SearchEffect]. Ignored while a search is in flight.
//   - SearchSettled: clear Loading and show the rows. Ignored when no search is in flight.
//   - SelectRequested: emit [LookupEffect]; state is untouched until the lookup settles.
//   - SelectSettled with a record: fill the slot, clear query and results. Without a record: no change.
func Reduce(s State, e Event) (State, Effect) {
	switch e := e.(type) {
	case QueryEdited:
		s.Query = e.Text
		return s, nil

	case SearchRequested:
		if s.Loading {
			return s, nil
		}
		query := strings.TrimSpace(s.Query)
		s.Results = nil
		if query == "" {
			return s, nil
		}
		s.Loading = true
		return s, SearchEffect{Query: query}

	case SearchSettled:
		if !s.Loading {
			return s, nil
		}
		s.Loading = false
		s.Results = nil
		if len(e.Results) > 0 {
			s.Results = append([]models.MovieSummary(nil), e.Results...)
		}
		return s, nil

	case SelectRequested:
		return s, LookupEffect{Title: e.Summary.Title, Slot: e.Slot}

	case SelectSettled:
		if e.Record == nil {
			return s, nil
		}
		s.assign(e.Slot, e.Record)
		s.Query = ""
		s.Results = nil
		return s, nil
	}

	return s, nil
}

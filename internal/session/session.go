package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
)

// Phase is the conceptual state of a session, derived from its fields.
type Phase int

const (
	Idle Phase = iota
	Searching
	ResultsShown
	Selecting
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case ResultsShown:
		return "results"
	case Selecting:
		return "selecting"
	default:
		return "idle"
	}
}

// Execute performs eff against gateway and returns the event that settles it.
//
// Failures never surface here: a failed search settles with no rows and a failed lookup with a nil record.
func Execute(ctx context.Context, gateway services.Gateway, eff Effect) Event {
	switch eff := eff.(type) {
	case SearchEffect:
		return SearchSettled{Results: services.SearchByQuery(ctx, gateway, eff.Query)}
	case LookupEffect:
		record, _ := services.LookupByTitle(ctx, gateway, eff.Title)
		return SelectSettled{Slot: eff.Slot, Record: record}
	}
	return nil
}

// Opts configures a [Session].
type Opts struct {
	ID        string                // generated when empty
	Logger    *log.Logger           // defaults to stderr
	OnMatchup func(compare.Matchup) // called after a selection completes a two-movie comparison
}

// Session owns one [State] and runs its effects against a gateway.
//
// All methods are safe for concurrent use. A call that performs a network request blocks until it settles;
// the lock is only held while applying transitions, so other callers can observe Loading meanwhile.
type Session struct {
	id        string
	gateway   services.Gateway
	logger    *log.Logger
	onMatchup func(compare.Matchup)

	mu       sync.Mutex
	state    State
	lookups  int
	lastSeen time.Time
}

// New creates a session in the Idle phase.
func New(gateway services.Gateway, opts Opts) *Session {
	if opts.ID == "" {
		opts.ID = shared.GenerateID()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Session{
		id:        opts.ID,
		gateway:   gateway,
		logger:    shared.WithLogger(opts.Logger, "session", opts.ID),
		onMatchup: opts.OnMatchup,
		lastSeen:  time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Phase derives the conceptual phase from the current fields.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PhaseOf(s.state, s.lookups)
}

// PhaseOf derives the phase of st while pending lookups are in flight.
// A search in flight wins over a lookup.
func PhaseOf(st State, pending int) Phase {
	switch {
	case st.Loading:
		return Searching
	case pending > 0:
		return Selecting
	case len(st.Results) > 0:
		return ResultsShown
	default:
		return Idle
	}
}

// LastSeen reports when the session last handled an event.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// EditQuery replaces the query text.
func (s *Session) EditQuery(text string) State {
	return s.Dispatch(context.Background(), QueryEdited{Text: text})
}

// Search searches for the current query text and returns the state after the search settles.
func (s *Session) Search(ctx context.Context) State {
	return s.Dispatch(ctx, SearchRequested{})
}

// Select loads summary into slot and returns the state after the lookup settles.
func (s *Session) Select(ctx context.Context, summary models.MovieSummary, slot models.Slot) State {
	return s.Dispatch(ctx, SelectRequested{Summary: summary, Slot: slot})
}

// Dispatch applies e, performs any resulting effect, and applies the settling event.
func (s *Session) Dispatch(ctx context.Context, e Event) State {
	eff := s.apply(e)
	if eff == nil {
		return s.Snapshot()
	}

	_, isLookup := eff.(LookupEffect)
	if isLookup {
		s.track(1)
		defer s.track(-1)
	}

	settled := Execute(ctx, s.gateway, eff)
	s.logger.Debug("effect settled", "effect", eff, "event", settled)
	s.apply(settled)

	if sel, ok := settled.(SelectSettled); ok && sel.Record != nil {
		s.notify()
	}

	return s.Snapshot()
}

func (s *Session) apply(e Event) Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	var eff Effect
	s.state, eff = Reduce(s.state, e)
	s.lastSeen = time.Now()
	return eff
}

func (s *Session) track(delta int) {
	s.mu.Lock()
	s.lookups += delta
	s.mu.Unlock()
}

func (s *Session) notify() {
	if s.onMatchup == nil {
		return
	}
	m := s.Snapshot().Matchup()
	if m.Complete() {
		s.onMatchup(m)
	}
}

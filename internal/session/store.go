package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps the live sessions of the web front end, keyed by cookie value.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

// NewStore creates an empty store. factory builds the session for a new ID.
func NewStore(factory func(id string) *Session) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Ensure returns the session for id, creating it when id is empty or unknown.
// The second result reports whether a new session was created.
func (st *Store) Ensure(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok && id != "" {
		return s, false
	}

	s := st.factory("")
	st.sessions[s.ID()] = s
	return s, true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune drops sessions idle for longer than ttl and returns how many were removed.
func (st *Store) Prune(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor prunes idle sessions every interval until ctx is done.
func (st *Store) Janitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Prune(ttl)
		}
	}
}

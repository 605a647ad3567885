// package services defines the metadata [Gateway] and its OMDb implementation
package services

import (
	"context"

	"github.com/desertthunder/moviefight/internal/models"
)

// Outcome classifies how a gateway call settled.
type Outcome int

const (
	OK               Outcome = iota // the service answered with data
	TransportFailure                // network, HTTP status, or decode failure
	NotFound                        // the service answered but reported no match
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case TransportFailure:
		return "transport_failure"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result carries a gateway value together with how the call settled.
//
// Err is set for [TransportFailure] and [NotFound] and is only meant for logging.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK reports whether the call produced a value.
func (r Result[T]) OK() bool { return r.Outcome == OK }

func ok[T any](v T) Result[T] { return Result[T]{Value: v, Outcome: OK} }

func failed[T any](outcome Outcome, err error) Result[T] {
	return Result[T]{Outcome: outcome, Err: err}
}

// Gateway defines the two read-only operations the comparison workflow needs from a movie metadata provider.
type Gateway interface {
	// Lookup fetches the full record for an exact title.
	Lookup(ctx context.Context, title string) Result[*models.MovieRecord]

	// Search returns the ordered rows matching query.
	Search(ctx context.Context, query string) Result[[]models.MovieSummary]

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}

// LookupByTitle collapses [Gateway.Lookup] into the found / not-found contract used by callers that never distinguish failure causes.
func LookupByTitle(ctx context.Context, g Gateway, title string) (*models.MovieRecord, bool) {
	res := g.Lookup(ctx, title)
	if !res.OK() || res.Value == nil {
		return nil, false
	}
	return res.Value, true
}

// SearchByQuery collapses [Gateway.Search] into a plain sequence; any failure yields an empty one.
func SearchByQuery(ctx context.Context, g Gateway, query string) []models.MovieSummary {
	res := g.Search(ctx, query)
	if !res.OK() || res.Value == nil {
		return []models.MovieSummary{}
	}
	return res.Value
}

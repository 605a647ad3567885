// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
)

var _ services.Gateway = (*MockGateway)(nil)

// MockGateway is a test double for [services.Gateway] backed by in-memory tables.
//
// Titles missing from Records and queries missing from Results settle as [services.NotFound].
// Setting Fail makes every call settle as [services.TransportFailure].
// When Gate is non-nil each call blocks until it receives from (or the closing of) Gate.
type MockGateway struct {
	mu      sync.Mutex
	Records map[string]*models.MovieRecord
	Results map[string][]models.MovieSummary
	Fail    bool
	Gate    chan struct{}

	lookups  []string
	searches []string
}

// NewMockGateway creates an empty [MockGateway].
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Records: map[string]*models.MovieRecord{},
		Results: map[string][]models.MovieSummary{},
	}
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Lookup(ctx context.Context, title string) services.Result[*models.MovieRecord] {
	m.wait(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, title)

	if m.Fail {
		return services.Result[*models.MovieRecord]{Outcome: services.TransportFailure, Err: errors.New("connection refused")}
	}
	if r, ok := m.Records[title]; ok {
		return services.Result[*models.MovieRecord]{Value: r, Outcome: services.OK}
	}
	return services.Result[*models.MovieRecord]{Outcome: services.NotFound, Err: errors.New("movie not found")}
}

func (m *MockGateway) Search(ctx context.Context, query string) services.Result[[]models.MovieSummary] {
	m.wait(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, query)

	if m.Fail {
		return services.Result[[]models.MovieSummary]{Outcome: services.TransportFailure, Err: errors.New("connection refused")}
	}
	if rows, ok := m.Results[query]; ok && len(rows) > 0 {
		return services.Result[[]models.MovieSummary]{Value: rows, Outcome: services.OK}
	}
	return services.Result[[]models.MovieSummary]{Value: []models.MovieSummary{}, Outcome: services.NotFound}
}

func (m *MockGateway) wait(ctx context.Context) {
	if m.Gate == nil {
		return
	}
	select {
	case <-m.Gate:
	case <-ctx.Done():
	}
}

// Lookups returns the titles passed to Lookup so far.
func (m *MockGateway) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lookups...)
}

// Searches returns the queries passed to Search so far.
func (m *MockGateway) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// JSONResponse builds a canned [http.Response] with a JSON body for [MockRoundTripper].
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Batman and Superman are fixtures shared across package tests.
var (
	Batman = &models.MovieRecord{
		Title:     "Batman",
		Year:      "1989",
		Poster:    "https://m.media-amazon.com/images/batman.jpg",
		BoxOffice: "$100,000",
		Rating:    "7.5",
		IMDbID:    "tt0096895",
	}
	Superman = &models.MovieRecord{
		Title:     "Superman",
		Year:      "1978",
		BoxOffice: "$50",
		Rating:    "7.4",
		IMDbID:    "tt0078346",
	}
	BatmanResults = []models.MovieSummary{
		{Title: "Batman", Year: "1989", ID: "tt0096895"},
		{Title: "Batman Begins", Year: "2005", ID: "tt0372784"},
	}
)

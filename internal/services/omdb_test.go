package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
	tu "github.com/desertthunder/moviefight/internal/testing"
)

func newService(t *testing.T, baseURL string, client *http.Client) *services.OMDbService {
	t.Helper()
	svc, err := services.NewOMDbService(services.OMDbOpts{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		HTTPClient: client,
		Logger:     shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewOMDbService() error = %v", err)
	}
	return svc
}

func TestOMDbService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("requires an api key", func(t *testing.T) {
			_, err := services.NewOMDbService(services.OMDbOpts{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("defaults", func(t *testing.T) {
			svc, err := services.NewOMDbService(services.OMDbOpts{APIKey: "k"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.Name() != "OMDb" {
				t.Errorf("expected name OMDb, got %s", svc.Name())
			}
		})
	})

	t.Run("Lookup", func(t *testing.T) {
		t.Run("found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				q := r.URL.Query()
				if q.Get("apikey") != "test-key" {
					t.Errorf("expected apikey test-key, got %q", q.Get("apikey"))
				}
				if q.Get("t") != "Batman" {
					t.Errorf("expected t=Batman, got %q", q.Get("t"))
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{
					"Title":      "Batman",
					"Year":       "1989",
					"Poster":     "https://img/batman.jpg",
					"BoxOffice":  "$100,000",
					"imdbRating": "7.5",
					"imdbID":     "tt0096895",
					"Director":   "Tim Burton",
					"Response":   "True",
				})
			}))
			defer server.Close()

			res := newService(t, server.URL+"/", nil).Lookup(context.Background(), "Batman")
			if !res.OK() {
				t.Fatalf("expected OK, got %v (%v)", res.Outcome, res.Err)
			}
			if res.Value.BoxOffice != "$100,000" || res.Value.Rating != "7.5" {
				t.Errorf("unexpected record: %+v", res.Value)
			}
			if res.Value.Director != "Tim Burton" || res.Value.IMDbID != "tt0096895" {
				t.Errorf("expected supplementary fields, got %+v", res.Value)
			}
		})

		t.Run("base url with a query keeps it", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if r.URL.Path != "/v1/" {
					t.Errorf("expected path /v1/, got %s", r.URL.Path)
				}
				if q.Get("plot") != "full" || q.Get("t") != "Batman" || q.Get("apikey") != "test-key" {
					t.Errorf("unexpected query %q", r.URL.RawQuery)
				}
				w.Write([]byte(`{"Title":"Batman","BoxOffice":"$100,000","imdbRating":"7.5","Response":"True"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL+"/v1/?plot=full", nil).Lookup(context.Background(), "Batman")
			if !res.OK() {
				t.Fatalf("expected OK, got %v (%v)", res.Outcome, res.Err)
			}
		})

		t.Run("not found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL, nil).Lookup(context.Background(), "Nope")
			if res.Outcome != services.NotFound {
				t.Fatalf("expected NotFound, got %v", res.Outcome)
			}
			if !errors.Is(res.Err, shared.ErrMovieNotFound) {
				t.Errorf("expected ErrMovieNotFound, got %v", res.Err)
			}
			if res.Value != nil {
				t.Error("expected no record")
			}
		})

		t.Run("missing fields become N/A and N/A posters are dropped", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Title":"Obscure","Poster":"N/A","Response":"True"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL, nil).Lookup(context.Background(), "Obscure")
			if !res.OK() {
				t.Fatalf("expected OK, got %v", res.Outcome)
			}
			if res.Value.BoxOffice != models.NotAvailable || res.Value.Rating != models.NotAvailable {
				t.Errorf("expected N/A metrics, got %+v", res.Value)
			}
			if res.Value.Poster != "" {
				t.Errorf("expected empty poster, got %q", res.Value.Poster)
			}
		})

		t.Run("http error status", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"Response":"False","Error":"Invalid API key!"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL, nil).Lookup(context.Background(), "Batman")
			if res.Outcome != services.TransportFailure {
				t.Fatalf("expected TransportFailure, got %v", res.Outcome)
			}
			if !errors.Is(res.Err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", res.Err)
			}
		})

		t.Run("network failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			res := newService(t, "http://example.com/", client).Lookup(context.Background(), "Batman")
			if res.Outcome != services.TransportFailure {
				t.Fatalf("expected TransportFailure, got %v", res.Outcome)
			}
		})

		t.Run("unreadable body", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}

			res := newService(t, "http://example.com/", client).Lookup(context.Background(), "Batman")
			if res.Outcome != services.TransportFailure {
				t.Fatalf("expected TransportFailure, got %v", res.Outcome)
			}
		})

		t.Run("malformed json", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(tu.JSONResponse(http.StatusOK, "{not json"), nil)}

			res := newService(t, "http://example.com/", client).Lookup(context.Background(), "Batman")
			if res.Outcome != services.TransportFailure {
				t.Fatalf("expected TransportFailure, got %v", res.Outcome)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("results in service order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("s") != "batman" {
					t.Errorf("expected s=batman, got %q", r.URL.Query().Get("s"))
				}
				w.Write([]byte(`{"Search":[
					{"Title":"Batman Begins","Year":"2005","imdbID":"tt0372784","Type":"movie"},
					{"Title":"Batman","Year":"1989","imdbID":"tt0096895","Type":"movie"}
				],"totalResults":"2","Response":"True"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL, nil).Search(context.Background(), "batman")
			if !res.OK() {
				t.Fatalf("expected OK, got %v", res.Outcome)
			}
			if len(res.Value) != 2 {
				t.Fatalf("expected 2 results, got %d", len(res.Value))
			}
			if res.Value[0].Title != "Batman Begins" || res.Value[1].ID != "tt0096895" {
				t.Errorf("unexpected order or mapping: %+v", res.Value)
			}
		})

		t.Run("no matches", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			}))
			defer server.Close()

			res := newService(t, server.URL, nil).Search(context.Background(), "zzzz")
			if res.Outcome != services.NotFound {
				t.Fatalf("expected NotFound, got %v", res.Outcome)
			}
			if res.Value == nil || len(res.Value) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", res.Value)
			}
		})

		t.Run("cancelled context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res := newService(t, "http://example.com/", nil).Search(ctx, "batman")
			if res.Outcome != services.TransportFailure {
				t.Fatalf("expected TransportFailure, got %v", res.Outcome)
			}
		})
	})

	t.Run("RateLimit", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(`{"Response":"False"}`))
		}))
		defer server.Close()

		svc, err := services.NewOMDbService(services.OMDbOpts{
			APIKey:    "k",
			BaseURL:   server.URL,
			RateLimit: 20,
			Logger:    shared.NewLogger(io.Discard),
		})
		if err != nil {
			t.Fatalf("NewOMDbService() error = %v", err)
		}

		start := time.Now()
		for range 3 {
			svc.Search(context.Background(), "q")
		}
		if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
			t.Errorf("expected limiter to space requests, took %v", elapsed)
		}
		if hits.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", hits.Load())
		}
	})
}

func TestSilentContract(t *testing.T) {
	gw := tu.NewMockGateway()
	gw.Records["Batman"] = tu.Batman
	gw.Results["batman"] = tu.BatmanResults
	ctx := context.Background()

	t.Run("LookupByTitle found", func(t *testing.T) {
		record, found := services.LookupByTitle(ctx, gw, "Batman")
		if !found || record != tu.Batman {
			t.Errorf("expected Batman, got %v %v", record, found)
		}
	})

	t.Run("LookupByTitle not found", func(t *testing.T) {
		record, found := services.LookupByTitle(ctx, gw, "Robin")
		if found || record != nil {
			t.Errorf("expected absence, got %v %v", record, found)
		}
	})

	t.Run("SearchByQuery", func(t *testing.T) {
		if got := services.SearchByQuery(ctx, gw, "batman"); len(got) != 2 {
			t.Errorf("expected 2 results, got %d", len(got))
		}
		if got := services.SearchByQuery(ctx, gw, "robin"); got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("transport failures collapse to absence", func(t *testing.T) {
		failing := tu.NewMockGateway()
		failing.Records["Batman"] = tu.Batman
		failing.Fail = true

		if _, found := services.LookupByTitle(ctx, failing, "Batman"); found {
			t.Error("expected lookup to report absence")
		}
		if got := services.SearchByQuery(ctx, failing, "batman"); len(got) != 0 {
			t.Errorf("expected empty results, got %v", got)
		}
	})
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[services.Outcome]string{
		services.OK:               "ok",
		services.TransportFailure: "transport_failure",
		services.NotFound:         "not_found",
	} {
		if o.String() != want {
			t.Errorf("String() = %s, want %s", o, want)
		}
	}
}

package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/shared"
	tu "github.com/desertthunder/moviefight/internal/testing"
)

func newGateway() *tu.MockGateway {
	gw := tu.NewMockGateway()
	gw.Records["Batman"] = tu.Batman
	gw.Records["Superman"] = tu.Superman
	return gw
}

func TestCompareAll(t *testing.T) {
	pairs := []Pair{
		{First: "Batman", Second: "Superman"},
		{First: "Superman", Second: "Nope"},
		{First: "Superman", Second: "Batman"},
	}

	t.Run("results keep input order", func(t *testing.T) {
		engine := NewEngine(newGateway())

		result, err := engine.CompareAll(context.Background(), nil, pairs, BatchOpts{NumWorkers: 3})
		if err != nil {
			t.Fatalf("CompareAll() error = %v", err)
		}

		if result.Total != 3 || result.SuccessCount != 2 || result.FailedCount != 1 {
			t.Errorf("unexpected counts %+v", result)
		}
		for i, res := range result.Results {
			if res.Index != i || res.Pair != pairs[i] {
				t.Errorf("result %d out of order: %+v", i, res)
			}
		}

		if got := result.Results[0].Matchup.Outcome(); got != "first" {
			t.Errorf("expected first to win pair 0, got %s", got)
		}
		if got := result.Results[2].Matchup.Outcome(); got != "second" {
			t.Errorf("expected second to win pair 2, got %s", got)
		}
		if !errors.Is(result.Results[1].Err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", result.Results[1].Err)
		}
		if !strings.Contains(result.Results[1].Err.Error(), "Nope") {
			t.Errorf("error should name the missing title, got %v", result.Results[1].Err)
		}
	})

	t.Run("OnMatchup sees successful pairs only", func(t *testing.T) {
		var mu sync.Mutex
		var seen []compare.Matchup

		engine := NewEngine(newGateway())
		_, err := engine.CompareAll(context.Background(), nil, pairs, BatchOpts{
			OnMatchup: func(m compare.Matchup) {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, m)
			},
		})
		if err != nil {
			t.Fatalf("CompareAll() error = %v", err)
		}

		if len(seen) != 2 {
			t.Fatalf("expected 2 matchups, got %d", len(seen))
		}
		for _, m := range seen {
			if !m.Complete() {
				t.Error("hook should only receive complete matchups")
			}
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		prog := make(chan ProgressUpdate, 32)
		engine := NewEngine(newGateway())

		if _, err := engine.CompareAll(context.Background(), prog, pairs, BatchOpts{NumWorkers: 1}); err != nil {
			t.Fatalf("CompareAll() error = %v", err)
		}
		close(prog)

		var phases []Phase
		var failures int
		for u := range prog {
			phases = append(phases, u.Phase)
			if strings.Contains(u.Message, "✗") {
				failures++
			}
		}

		if phases[0] != Queue {
			t.Errorf("expected Queue first, got %v", phases[0])
		}
		if phases[len(phases)-1] != Done {
			t.Errorf("expected Done last, got %v", phases[len(phases)-1])
		}
		if failures != 1 {
			t.Errorf("expected one failure update, got %d", failures)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		prog := make(chan ProgressUpdate)
		engine := NewEngine(newGateway())

		done := make(chan struct{})
		go func() {
			defer close(done)
			engine.CompareAll(context.Background(), prog, pairs, BatchOpts{})
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("CompareAll blocked on an unread progress channel")
		}
	})

	t.Run("gated lookups settle", func(t *testing.T) {
		gw := newGateway()
		gw.Gate = make(chan struct{})
		engine := NewEngine(gw)

		done := make(chan *BatchResult)
		go func() {
			result, _ := engine.CompareAll(context.Background(), nil, pairs, BatchOpts{NumWorkers: 3})
			done <- result
		}()

		for range 3 {
			select {
			case gw.Gate <- struct{}{}:
			case <-time.After(2 * time.Second):
				t.Fatal("expected workers to wait on the gateway")
			}
		}
		close(gw.Gate)

		if result := <-done; result.SuccessCount != 2 {
			t.Errorf("expected 2 successes, got %d", result.SuccessCount)
		}
	})

	t.Run("cancelled context fails remaining pairs", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		gw := newGateway()
		result, err := NewEngine(gw).CompareAll(ctx, nil, pairs, BatchOpts{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result.FailedCount != 3 {
			t.Errorf("expected every pair to fail, got %+v", result)
		}
		if len(gw.Lookups()) != 0 {
			t.Error("no lookups should run after cancellation")
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		result, err := NewEngine(newGateway()).CompareAll(context.Background(), nil, nil, BatchOpts{})
		if err != nil {
			t.Fatalf("CompareAll() error = %v", err)
		}
		if result.Total != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("nil gateway", func(t *testing.T) {
		_, err := NewEngine(nil).CompareAll(context.Background(), nil, pairs, BatchOpts{})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestParsePairs(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		in := "first,second\n# classics\nAlien, Aliens\n\n\"Batman, The Movie\",Superman\n"

		pairs, err := ParsePairs(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ParsePairs() error = %v", err)
		}

		want := []Pair{{"Alien", "Aliens"}, {"Batman, The Movie", "Superman"}}
		if len(pairs) != len(want) {
			t.Fatalf("expected %d pairs, got %d: %+v", len(want), len(pairs), pairs)
		}
		for i := range want {
			if pairs[i] != want[i] {
				t.Errorf("pair %d = %+v, want %+v", i, pairs[i], want[i])
			}
		}
	})

	tc := []struct {
		name string
		in   string
	}{
		{"single title", "Alien\n"},
		{"three titles", "Alien,Aliens,Alien 3\n"},
		{"blank title", "Alien, \n"},
		{"header only", "first,second\n"},
		{"empty", ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePairs(strings.NewReader(tt.in)); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{Queue: "queue", Lookup: "lookup", Compare: "compare", Done: "done", Phase(99): ""} {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}

package tasks

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
)

const (
	DefaultWorkers = 4
	MaxWorkers     = 10
)

// Pair names the two titles of one comparison.
type Pair struct {
	First  string
	Second string
}

// PairResult is the outcome of comparing one [Pair].
type PairResult struct {
	Index   int             // Position of the pair in the input
	Pair    Pair            // Titles as given
	Matchup compare.Matchup // Complete when Err is nil
	Err     error           // Lookup failure or context error
}

// OK reports whether both titles were found and compared.
func (r PairResult) OK() bool { return r.Err == nil }

// BatchResult collects every pair's result in input order.
type BatchResult struct {
	Total        int
	SuccessCount int
	FailedCount  int
	Results      []PairResult
}

// BatchOpts configures [Engine.CompareAll].
type BatchOpts struct {
	NumWorkers int                   // Concurrent workers (default: 4, max: 10)
	OnMatchup  func(compare.Matchup) // Called once per successful pair, never concurrently
}

// Engine compares many title pairs concurrently against one gateway.
//
// Request pacing is left to the gateway; the OMDb gateway carries its own rate limiter.
type Engine struct {
	gateway services.Gateway
}

// NewEngine creates an Engine backed by gateway.
func NewEngine(gateway services.Gateway) *Engine {
	return &Engine{gateway: gateway}
}

type job struct {
	index int
	pair  Pair
}

// CompareAll looks up and compares every pair using a worker pool.
//
// Failed pairs are recorded in the result and do not stop the batch. When ctx is cancelled the
// remaining pairs fail with the context error, which is also returned alongside the partial result.
func (e *Engine) CompareAll(ctx context.Context, prog chan<- ProgressUpdate, pairs []Pair, opts BatchOpts) (*BatchResult, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}
	if opts.NumWorkers > len(pairs) {
		opts.NumWorkers = max(len(pairs), 1)
	}

	result := &BatchResult{
		Total:   len(pairs),
		Results: make([]PairResult, len(pairs)),
	}

	jobs := make(chan job, len(pairs))
	results := make(chan PairResult, len(pairs))

	e.sendProgress(prog, queuedUpdate(len(pairs), opts.NumWorkers))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, prog, len(pairs), jobs, results)
	}

	for i, p := range pairs {
		jobs <- job{index: i, pair: p}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results[res.Index] = res

		if res.OK() {
			result.SuccessCount++
			if opts.OnMatchup != nil {
				opts.OnMatchup(res.Matchup)
			}
			e.sendProgress(prog, comparedUpdate(completed, len(pairs), res))
		} else {
			result.FailedCount++
			e.sendProgress(prog, failedUpdate(completed, len(pairs), res))
		}
	}

	e.sendProgress(prog, doneUpdate(result))
	return result, ctx.Err()
}

// worker compares pairs from the jobs channel until it is drained.
func (e *Engine) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	prog chan<- ProgressUpdate,
	total int,
	jobs <-chan job,
	results chan<- PairResult,
) {
	defer wg.Done()

	for j := range jobs {
		if err := ctx.Err(); err != nil {
			results <- PairResult{Index: j.index, Pair: j.pair, Err: err}
			continue
		}

		e.sendProgress(prog, lookupUpdate(j.index+1, total, j.pair))
		results <- e.comparePair(ctx, j)
	}
}

func (e *Engine) comparePair(ctx context.Context, j job) PairResult {
	res := PairResult{Index: j.index, Pair: j.pair}

	first, ok := services.LookupByTitle(ctx, e.gateway, j.pair.First)
	if !ok {
		res.Err = lookupErr(ctx, j.pair.First)
		return res
	}
	second, ok := services.LookupByTitle(ctx, e.gateway, j.pair.Second)
	if !ok {
		res.Err = lookupErr(ctx, j.pair.Second)
		return res
	}

	res.Matchup = compare.Compare(first, second)
	return res
}

func lookupErr(ctx context.Context, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: %q", shared.ErrMovieNotFound, title)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ParsePairs reads one "first,second" pair per CSV row.
//
// Lines starting with # are comments. A leading "first,second" header row is skipped.
func ParsePairs(r io.Reader) ([]Pair, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var pairs []Pair
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 titles, got %d", shared.ErrInvalidInput, line, len(record))
		}

		p := Pair{First: strings.TrimSpace(record[0]), Second: strings.TrimSpace(record[1])}
		if len(pairs) == 0 && strings.EqualFold(p.First, "first") && strings.EqualFold(p.Second, "second") {
			continue
		}
		if p.First == "" || p.Second == "" {
			return nil, fmt.Errorf("%w: line %d: empty title", shared.ErrInvalidInput, line)
		}
		pairs = append(pairs, p)
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: no pairs", shared.ErrInvalidInput)
	}
	return pairs, nil
}

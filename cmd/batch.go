package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/formatter"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/desertthunder/moviefight/internal/tasks"
	"github.com/urfave/cli/v3"
)

type batchRow struct {
	First   string           `json:"first"`
	Second  string           `json:"second"`
	Outcome string           `json:"outcome,omitempty"`
	Matchup *compare.Matchup `json:"matchup,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type batchOutput struct {
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Results   []batchRow `json:"results"`
}

// Batch compares every pair listed in a CSV file.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd, formatter.FormatText, formatter.FormatJSON)
	if err != nil {
		return err
	}

	path := cmd.String("file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	pairs, err := tasks.ParsePairs(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	gw, err := r.service()
	if err != nil {
		return err
	}

	opts := tasks.BatchOpts{NumWorkers: int(cmd.Int("workers"))}
	if !cmd.Bool("no-history") {
		opts.OnMatchup = r.recorder()
	}

	prog := make(chan tasks.ProgressUpdate, len(pairs)*2+2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range prog {
			r.logger.Debug(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result, err := tasks.NewEngine(gw).CompareAll(ctx, prog, pairs, opts)
	close(prog)
	wg.Wait()
	if result == nil {
		return err
	}

	if format == formatter.FormatJSON {
		if werr := r.writeJSON(newBatchOutput(result), true); werr != nil {
			return werr
		}
		return err
	}

	for _, res := range result.Results {
		if !res.OK() {
			r.writePlain("%d. ✗ %s vs %s: %v\n", res.Index+1, res.Pair.First, res.Pair.Second, res.Err)
			continue
		}
		r.writePlain("%d. %s vs %s: %s\n", res.Index+1, res.Pair.First, res.Pair.Second, batchVerdict(res.Matchup))
	}
	r.writePlain("\n%d compared, %d failed\n", result.SuccessCount, result.FailedCount)
	return err
}

func batchVerdict(m compare.Matchup) string {
	switch m.Outcome() {
	case models.First.String():
		return m.First.Record.Title + " wins"
	case models.Second.String():
		return m.Second.Record.Title + " wins"
	default:
		return "tie"
	}
}

func newBatchOutput(result *tasks.BatchResult) batchOutput {
	out := batchOutput{
		Total:     result.Total,
		Succeeded: result.SuccessCount,
		Failed:    result.FailedCount,
		Results:   make([]batchRow, 0, len(result.Results)),
	}
	for _, res := range result.Results {
		row := batchRow{First: res.Pair.First, Second: res.Pair.Second}
		if res.OK() {
			m := res.Matchup
			row.Matchup, row.Outcome = &m, m.Outcome()
		} else {
			row.Error = res.Err.Error()
		}
		out.Results = append(out.Results, row)
	}
	return out
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/formatter"
	"github.com/desertthunder/moviefight/internal/models"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseFormat(cmd *cli.Command, allowed ...formatter.Format) (formatter.Format, error) {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: format %q is not supported here", shared.ErrInvalidFlag, f)
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// Search prints the OMDb rows matching the query argument.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}
	format, err := parseFormat(cmd, formatter.FormatText, formatter.FormatMarkdown, formatter.FormatJSON)
	if err != nil {
		return err
	}

	gw, err := r.service()
	if err != nil {
		return err
	}

	r.logger.Debug("searching", "query", query, "gateway", gw.Name())
	results := services.SearchByQuery(ctx, gw, query)
	if len(results) == 0 {
		return fmt.Errorf("%w: %q", shared.ErrNoResults, query)
	}

	var data []byte
	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(results, true)
	case formatter.FormatMarkdown:
		data, err = formatter.ResultsToMarkdown(query, results)
	default:
		data, err = formatter.ResultsToText(results)
	}
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// Lookup prints the full record for the title argument.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return err
	}
	format, err := parseFormat(cmd, formatter.FormatText, formatter.FormatJSON)
	if err != nil {
		return err
	}

	record, err := r.lookup(ctx, title)
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(record, true)
	}

	data, err := formatter.RecordToText(record)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

func (r *Runner) lookup(ctx context.Context, title string) (*models.MovieRecord, error) {
	gw, err := r.service()
	if err != nil {
		return nil, err
	}

	record, ok := services.LookupByTitle(ctx, gw, title)
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrMovieNotFound, title)
	}
	return record, nil
}

// compareOutput is the JSON shape of a one-shot comparison.
type compareOutput struct {
	Matchup compare.Matchup `json:"matchup"`
	Outcome string          `json:"outcome"`
}

// Compare looks up both titles, classifies them and prints the result.
//
// The comparison is saved to history unless --no-history is set.
func (r *Runner) Compare(ctx context.Context, cmd *cli.Command) error {
	first, err := requireArg(cmd, "first")
	if err != nil {
		return err
	}
	second, err := requireArg(cmd, "second")
	if err != nil {
		return err
	}
	format, err := parseFormat(cmd, formatter.FormatText, formatter.FormatMarkdown, formatter.FormatJSON)
	if err != nil {
		return err
	}

	a, err := r.lookup(ctx, first)
	if err != nil {
		return err
	}
	b, err := r.lookup(ctx, second)
	if err != nil {
		return err
	}

	m := compare.Compare(a, b)
	r.logger.Debug("compared", "first", a.Title, "second", b.Title, "outcome", m.Outcome())

	if !cmd.Bool("no-history") {
		if record := r.recorder(); record != nil {
			record(m)
		}
	}

	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(compareOutput{Matchup: m, Outcome: m.Outcome()}, true)
	case formatter.FormatMarkdown:
		if dir := cmd.String("output"); dir != "" {
			result, err := formatter.WriteMatchupMarkdown(m, dir, r.warn)
			if err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			r.logger.Info("report written", "dir", result.Directory, "posters", len(result.Posters))
			return r.writePlain("✓ Report written to %s\n", result.Directory)
		}
		data, err := formatter.MatchupToMarkdown(m, nil)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	default:
		data, err := formatter.MatchupToText(m)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviefight/internal/formatter"
	"github.com/urfave/cli/v3"
)

// HistoryList prints the most recent comparisons, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd, formatter.FormatText, formatter.FormatMarkdown, formatter.FormatCSV, formatter.FormatJSON)
	if err != nil {
		return err
	}

	repo, err := r.matchups()
	if err != nil {
		return err
	}

	matchups, err := repo.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(matchups, true)
	}

	data, err := formatter.HistoryTo(format, matchups)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HistoryExport writes comparisons to the --output file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd, formatter.FormatCSV, formatter.FormatMarkdown, formatter.FormatText)
	if err != nil {
		return err
	}

	repo, err := r.matchups()
	if err != nil {
		return err
	}

	matchups, err := repo.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	data, err := formatter.HistoryTo(format, matchups)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if err := formatter.WriteExport(data, path); err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "count", len(matchups), "format", format)
	return r.writePlain("✓ Exported %d comparisons to %s\n", len(matchups), path)
}

// HistoryDelete removes one comparison from history.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	repo, err := r.matchups()
	if err != nil {
		return err
	}

	if err := repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/urfave/cli/v3"
)

// CachePurge removes cached movie records fetched longer ago than --older-than.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	olderThan := cmd.Duration("older-than")
	if olderThan < 0 {
		return fmt.Errorf("%w: --older-than must not be negative", shared.ErrInvalidFlag)
	}

	records, err := r.records()
	if err != nil {
		return err
	}

	n, err := records.Purge(olderThan)
	if err != nil {
		return err
	}

	remaining, err := records.Count()
	if err != nil {
		return err
	}

	r.logger.Info("cache purged", "removed", n, "remaining", remaining, "older_than", olderThan)
	return r.writePlain("✓ Purged %d cached records (%d remaining)\n", n, remaining)
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/desertthunder/moviefight/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal comparison.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	gw, err := r.service()
	if err != nil {
		return err
	}

	return ui.Run(ctx, gw, ui.Opts{Logger: fileLogger, OnMatchup: r.recorder()})
}

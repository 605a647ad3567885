package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/moviefight/internal/server"
	"github.com/desertthunder/moviefight/internal/session"
	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/desertthunder/moviefight/internal/web"
	"github.com/urfave/cli/v3"
)

const (
	sessionTTL     = 30 * time.Minute
	janitorPeriod  = time.Minute
	openBrowserLag = 250 * time.Millisecond
)

// Serve runs the browser front end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d", shared.ErrInvalidFlag, cfg.Port)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, handler, err := r.webHandler()
	if err != nil {
		return err
	}
	go store.Janitor(ctx, janitorPeriod, sessionTTL)

	addr := cfg.Addr()
	if cmd.Bool("open") {
		go func() {
			time.Sleep(openBrowserLag)
			url := "http://" + addr
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "url", url, "error", err)
			}
		}()
	}

	r.writePlain("Serving moviefight on http://%s (ctrl+c to stop)\n", addr)
	return server.New(addr, handler, r.logger).ListenAndServe(ctx)
}

// webHandler assembles the session store, web app and health check behind the shared router.
func (r *Runner) webHandler() (*session.Store, http.Handler, error) {
	gw, err := r.service()
	if err != nil {
		return nil, nil, err
	}

	onMatchup := r.recorder()
	logger := r.logger
	store := session.NewStore(func(id string) *session.Session {
		return session.New(gw, session.Opts{ID: id, Logger: logger, OnMatchup: onMatchup})
	})

	app, err := web.New(store, logger)
	if err != nil {
		return nil, nil, err
	}

	router := server.NewRouter(logger)
	router.Handler(server.Health{})
	router.Handler(app)
	return store, router, nil
}

package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviefight/internal/compare"
	"github.com/desertthunder/moviefight/internal/repositories"
	"github.com/desertthunder/moviefight/internal/services"
	"github.com/desertthunder/moviefight/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The gateway and database are opened on first use, so commands like setup work without an API key.
type Runner struct {
	config     *shared.Config
	configPath string
	gateway    services.Gateway
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Gateway    services.Gateway // built from Config when nil
	DB         *sql.DB          // opened from Config when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		gateway:    opts.Gateway,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, lookupCommand, compareCommand, batchCommand, historyCommand, cacheCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by later commands.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() {
	if r.db != nil && r.ownsDB {
		if err := r.db.Close(); err != nil {
			r.logger.Warn("failed to close database", "error", err)
		}
		r.db = nil
	}
}

// service returns the movie gateway, building the OMDb client (and its record cache) on first use.
func (r *Runner) service() (services.Gateway, error) {
	if r.gateway != nil {
		return r.gateway, nil
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	omdb, err := services.NewOMDbService(services.OMDbOpts{
		APIKey:     r.config.Credentials.OMDb.APIKey,
		BaseURL:    r.config.Credentials.OMDb.BaseURL,
		RateLimit:  r.config.Credentials.OMDb.RateLimit,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OMDb gateway: %w", err)
	}
	r.gateway = omdb

	if !r.config.Cache.Enabled {
		return r.gateway, nil
	}

	records, err := r.records()
	if err != nil {
		r.logger.Warn("record cache unavailable, continuing without it", "error", err)
		return r.gateway, nil
	}
	r.gateway = services.NewCachedGateway(omdb, records, r.config.Cache.TTL.Duration, r.logger)
	return r.gateway, nil
}

func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db, r.ownsDB = db, true
	return db, nil
}

func (r *Runner) records() (*repositories.RecordRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewRecordRepository(db), nil
}

func (r *Runner) matchups() (*repositories.MatchupRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewMatchupRepository(db), nil
}

// recorder returns the hook that saves completed comparisons, or nil when history is unavailable.
func (r *Runner) recorder() func(compare.Matchup) {
	repo, err := r.matchups()
	if err != nil {
		r.logger.Warn("history unavailable, comparisons will not be saved", "error", err)
		return nil
	}
	return repo.Recorder(shared.WithLogger(r.logger, "component", "history"))
}

// warn adapts the runner's logger to the callback shape the formatter expects.
func (r *Runner) warn(msg string, kv ...any) {
	r.logger.Warn(msg, kv...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

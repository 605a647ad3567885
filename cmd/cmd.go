// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"
)

func formatFlag(usage, value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   usage,
		Value:   value,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the newest migration instead of applying pending ones",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// searchCommand lists OMDb titles matching a query.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search OMDb for movies matching a query",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			formatFlag("Output format (text, markdown, json)", "text"),
		},
		Action: r.Search,
	}
}

// lookupCommand prints the full record for one title.
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Show the box office and rating for a title",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "title"},
		},
		Flags: []cli.Flag{
			formatFlag("Output format (text, json)", "text"),
		},
		Action: r.Lookup,
	}
}

// compareCommand runs a one-shot comparison of two titles.
func compareCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "compare",
		Aliases: []string{"fight", "vs"},
		Usage:   "Compare two titles by box office and IMDb rating",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "first"},
			&cli.StringArg{Name: "second"},
		},
		Flags: []cli.Flag{
			formatFlag("Output format (text, markdown, json)", "text"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for a Markdown report with posters (markdown format only)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not save the comparison to history",
			},
		},
		Action: r.Compare,
	}
}

// batchCommand compares many pairs read from a CSV file.
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Compare every \"first,second\" pair in a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "CSV file with one pair of titles per row",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent comparisons (max 10)",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not save the comparisons to history",
			},
			formatFlag("Output format (text, json)", "text"),
		},
		Action: r.Batch,
	}
}

// historyCommand manages saved comparisons.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Saved comparisons",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List recent comparisons",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of comparisons to show",
						Value: 20,
					},
					formatFlag("Output format (text, markdown, csv, json)", "text"),
				},
				Action: r.HistoryList,
			},
			{
				Name:  "export",
				Usage: "Export comparisons to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output file path",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of comparisons to export (0 for all)",
					},
					formatFlag("Output format (csv, markdown, text)", "csv"),
				},
				Action: r.HistoryExport,
			},
			{
				Name:  "delete",
				Usage: "Delete a comparison by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// cacheCommand manages the local movie record cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local movie record cache",
		Commands: []*cli.Command{
			{
				Name:  "purge",
				Usage: "Remove cached records",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Only remove records fetched longer ago than this (0 removes everything)",
					},
				},
				Action: r.CachePurge,
			},
		},
	}
}

// serveCommand starts the browser front end.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the comparison page over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on (defaults to server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in a browser once the server is listening",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive comparisons.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal comparison",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where the TUI writes its logs",
				Value: "./tmp/moviefight-tui.log",
			},
		},
		Action: r.TUI,
	}
}

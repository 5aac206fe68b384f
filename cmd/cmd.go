// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// loginCommand verifies the AudioStation session can be established.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Verify AudioStation credentials and session",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "otp",
				Usage: "One-time password when the account has 2FA enabled",
			},
		},
		Action: r.Login,
	}
}

// importCommand runs the full reconciliation pipeline for a reference.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a playlist reference (NetEase/QQ link or file) into AudioStation",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "reference",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Destination playlist name (defaults to the source playlist's name)",
			},
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Minimum combined fuzzy score (0-100) to accept a match",
				Value: 70,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Catalog rows requested per page (defaults to the configured value)",
			},
			&cli.StringFlag{
				Name:  "otp",
				Usage: "One-time password when the account has 2FA enabled",
			},
			&cli.BoolFlag{
				Name:  "ui",
				Usage: "Render progress in an interactive terminal view",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording the run in the history database",
			},
		},
		Action: r.ImportRun,
	}
}

// catalogCommand handles catalog operations without mutating anything.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "AudioStation catalog operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch and cache the full catalog, print stats (dry run)",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "otp",
						Usage: "One-time password when the account has 2FA enabled",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Catalog rows requested per page",
						Value: 500,
					},
				},
				Action: r.CatalogFetch,
			},
		},
	}
}

// matchCommand scores a single reference against the catalog.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Score a single \"title - artist\" reference against the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "entry",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "threshold",
				Usage: "Minimum combined fuzzy score (0-100) to accept a match",
				Value: 70,
			},
			&cli.StringFlag{
				Name:  "otp",
				Usage: "One-time password when the account has 2FA enabled",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.MatchOne,
	}
}

// historyCommand lists persisted reconciliation runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Run history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent import runs",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "unmatched",
				Usage: "Show the unmatched entries of a run with their best scores",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run-id",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.HistoryUnmatched,
			},
		},
	}
}

// setupCommand handles setup operations for config and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the run-history database",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles Spotify authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Action: r.AuthLogin,
			},
		},
	}
}

// curateCommand handles playlist curation operations
func curateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "curate",
		Aliases: []string{"c"},
		Usage:   "Build genre-constrained Spotify playlists",
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Create a playlist from your top artists, filtered by genre",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Playlist name",
					},
					&cli.StringSliceFlag{
						Name:    "genres",
						Aliases: []string{"g"},
						Usage:   "Genres to match (repeatable or comma-separated)",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Maximum number of tracks",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "discover",
						Usage: "Search the catalog for unfamiliar artists instead of your top artists",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
				},
				Action: r.CurateNew,
			},
			{
				Name:  "fill",
				Usage: "Fill a playlist with matching tracks up to a target duration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Playlist name",
					},
					&cli.StringSliceFlag{
						Name:    "genres",
						Aliases: []string{"g"},
						Usage:   "Genres to match (repeatable or comma-separated)",
					},
					&cli.IntFlag{
						Name:    "minutes",
						Aliases: []string{"m"},
						Usage:   "Target playlist length in minutes",
						Value:   60,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the result as JSON",
					},
				},
				Action: r.CurateFill,
			},
			{
				Name:  "top",
				Usage: "Print the URIs of your most played tracks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CurateTop,
			},
		},
	}
}

// historyCommand handles curation run history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and export past curation runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded curation runs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Filter by curation mode (personalized, discover, fill)",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by genre substring",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one curation run by playlist ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "playlist-id",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export curation history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (text, markdown, csv)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   ".",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// setupCommand handles setup operations for database and configuration.
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
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Create a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive curation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist curation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Curation mode (personalized, discover, fill)",
				Value: "personalized",
			},
		},
		Action: r.TUI,
	}
}

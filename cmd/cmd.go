// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are shared by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config and PORT)",
			},
			&cli.BoolFlag{
				Name:  "debug-routes",
				Usage: "Register the /debug endpoints",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles first-run setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Create the SQLite session database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// playlistCommand handles playlist identifier operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist helpers",
		Commands: []*cli.Command{
			{
				Name:  "id",
				Usage: "Extract the playlist ID from a URL, URI or bare ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "input",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistID,
			},
		},
	}
}

// moodCommand runs the mood classifier on explicit feature values
func moodCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mood",
		Usage: "Classify the mood for averaged audio features",
		Flags: []cli.Flag{
			&cli.FloatFlag{
				Name:     "valence",
				Usage:    "Average valence (0-1)",
				Required: true,
			},
			&cli.FloatFlag{
				Name:     "energy",
				Usage:    "Average energy (0-1)",
				Required: true,
			},
			&cli.FloatFlag{
				Name:  "danceability",
				Usage: "Average danceability (0-1)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Mood,
	}
}

// analyzeCommand runs a full playlist analysis with an existing access token
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Analyze a playlist using a Spotify access token",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Spotify access token",
				Sources: cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: pretty, text, markdown, csv or json",
				Value:   "pretty",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
		},
		Action: r.Analyze,
	}
}

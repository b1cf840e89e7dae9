// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Export format written with --output (json, csv, markdown, txt)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the tracks to a file instead of the terminal",
		},
	}
}

func playlistFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "private",
			Usage: "Create the playlist as private",
		},
		&cli.StringFlag{
			Name:    "description",
			Aliases: []string{"d"},
			Usage:   "Playlist description",
		},
	}
}

// setupCommand writes a starter configuration and prepares the session store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the session database",
		Action: r.Setup,
	}
}

// authCommand handles the Spotify PKCE login lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify in the browser (PKCE)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Discard the current token and authorize again",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show the state of the cached token",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Remove the cached token and verifier",
				Action: r.AuthLogout,
			},
		},
	}
}

// searchCommand searches the catalog for tracks
func searchCommand(r *Runner) *cli.Command {
	flags := append(outputFlags(), &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of tracks to show (0 for all)",
		Value:   10,
	})

	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags:  flags,
		Action: r.Search,
	}
}

func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the authorized Spotify profile",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Me,
	}
}

// playlistCommand handles playlist creation and population
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Create and fill playlists",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				ArgsUsage: "<name>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  playlistFlags(),
				Action: r.PlaylistCreate,
			},
			{
				Name:      "add",
				Usage:     "Append track URIs to a playlist",
				ArgsUsage: "<playlist-id> [uri...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read URIs from a file, one per line (- for stdin)",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:      "save",
				Usage:     "Create a playlist and append track URIs to it",
				ArgsUsage: "<name> [uri...]",
				Flags: append(playlistFlags(), &cli.StringFlag{
					Name:  "file",
					Usage: "Read URIs from a file, one per line (- for stdin)",
				}),
				Action: r.PlaylistSave,
			},
			{
				Name:      "build",
				Usage:     "Search each query and save the top hits as a playlist",
				ArgsUsage: "<name> [query...]",
				Flags: append(append(playlistFlags(), outputFlags()...),
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read queries from a file, one per line (- for stdin)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Search only, do not create the playlist",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent searches (max 10)",
						Value: 4,
					},
				),
				Action: r.PlaylistBuild,
			},
		},
	}
}

// serveCommand runs the local web app
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from [server] in config)",
			},
		},
		Action: r.Serve,
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (table, csv, markdown, json, text)",
		Value:   value,
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Match first or last names, ignoring case and accents",
		},
		&cli.StringFlag{
			Name:    "district",
			Aliases: []string{"d"},
			Usage:   "Only personas from this district (exact name)",
		},
		&cli.StringFlag{
			Name:    "university",
			Aliases: []string{"u"},
			Usage:   "Only personas from this university (exact name)",
		},
	}
}

// personaFlags are the entry form fields; create requires the marked ones, update treats every one as optional.
func personaFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-names", Usage: "First names", Required: required},
		&cli.StringFlag{Name: "last-names", Usage: "Last names", Required: required},
		&cli.StringFlag{Name: "age", Usage: "Age in years", Required: required},
		&cli.StringFlag{Name: "district", Usage: "District (see 'personas districts')", Required: required},
		&cli.StringFlag{Name: "instagram", Usage: "Instagram handle"},
		&cli.StringFlag{Name: "university", Usage: "University (see 'personas universities')"},
		&cli.StringFlag{Name: "story", Usage: "The story being told about this persona", Required: required},
		&cli.BoolFlag{Name: "accept-terms", Usage: "Confirm the story is fictional and accept the terms"},
	}
}

// listCommand prints the directory
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List personas, optionally filtered locally",
		Flags:   append(filterFlags(), formatFlag("table")),
		Action:  r.List,
	}
}

// searchCommand asks the directory to filter server-side
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "search",
		Usage:  "Search personas on the directory service",
		Flags:  append(filterFlags(), formatFlag("table")),
		Action: r.Search,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one persona with its story and votes",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Show,
	}
}

func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "create",
		Aliases: []string{"add"},
		Usage:   "Create a persona",
		Flags:   personaFlags(true),
		Action:  r.Create,
	}
}

func updateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Aliases:   []string{"edit"},
		Usage:     "Edit a persona; omitted fields keep their current value",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     personaFlags(false),
		Action:    r.Update,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a persona after confirmation",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: r.Delete,
	}
}

func voteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "vote",
		Usage: "Vote truth or lie on a persona (once per persona)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
			&cli.StringArg{Name: "choice", UsageText: "truth or lie"},
		},
		Action: r.Vote,
	}
}

func votesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "votes",
		Usage: "List the personas this client has voted on",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Votes,
	}
}

// exportCommand writes the (filtered) list to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export personas to a file",
		Flags: append(filterFlags(),
			formatFlag("csv"),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: personas.<ext>)",
			},
		),
		Action: r.Export,
	}
}

// importCommand bulk-creates personas from a JSON file
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create personas from a JSON array file",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "accept-terms", Usage: "Accept the terms for every entry"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Validate entries without creating anything"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent create requests", Value: 3},
			&cli.FloatFlag{Name: "rate", Usage: "Create requests per second", Value: 5},
		},
		Action: r.Import,
	}
}

func districtsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "districts",
		Usage:  "List the accepted districts",
		Action: r.Districts,
	}
}

func universitiesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "universities",
		Usage:  "List the suggested universities",
		Action: r.Universities,
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the directory service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:   "health",
				Usage:  "Check that the directory service answers",
				Action: r.APIHealth,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the vote database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file (default: $PERSONAS_CONFIG or config.toml)",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the vote database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive persona browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/personas-tui.log",
			},
		},
		Action: r.TUI,
	}
}

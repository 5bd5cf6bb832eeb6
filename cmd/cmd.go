// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file (TOML or YAML)",
		Value:   "config.toml",
	}
}

// runCommand serves the application and opens its window
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Serve the application and open it in a browser window",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to serve on, 0 picks a free one (overrides HTTP_PORT)",
			},
			&cli.BoolFlag{
				Name:  "system-browser",
				Usage: "Open the page in the system browser instead of an embedded window",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Serve without opening any window; stop with Ctrl+C",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable DEBUG and APP_DEBUG",
			},
			&cli.BoolFlag{
				Name:  "no-prompt",
				Usage: "Save downloads to the suggested path without asking",
			},
		},
		Action: r.Run,
	}
}

// initCommand writes the example configuration
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Write an example configuration file",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Init,
	}
}

// configCommand prints the effective configuration
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration after file and environment overrides",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON instead of TOML",
			},
		},
		Action: r.ShowConfig,
	}
}

// downloadsCommand reads the download history
func downloadsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "downloads",
		Usage: "Inspect the download history (HISTORY_DATABASE)",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved and failed downloads, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of downloads to show",
						Value: 50,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only show downloads with this status (saved or failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Browse the history in a terminal UI",
					},
				},
				Action: r.ListDownloads,
			},
			{
				Name:   "clear",
				Usage:  "Delete every download record",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ClearDownloads,
			},
		},
	}
}

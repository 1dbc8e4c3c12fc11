package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/perkdex/internal/config"
	"github.com/kailas-cloud/perkdex/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "perkdex:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "perkdex",
		Usage:   "Search employee discount offers",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name; selects config/<env>.yaml and the log format",
				EnvVars: []string{"ENV"},
				Value:   config.GetEnv(),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (overrides --env lookup)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Offer directory for the fs source (overrides source.dir)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Build the index and serve the HTTP API",
				Action: serveCommand,
			},
			{
				Name:      "search",
				Usage:     "Run one query against a freshly built index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of ranked results (0 uses search.default_top_k)",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only keep results in this category (case-insensitive)",
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Scoring strategy: name or keyword (default from search.strategy)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "Print every indexed offer",
				Action: listCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print index statistics",
				Action: statsCommand,
			},
		},
	}
}

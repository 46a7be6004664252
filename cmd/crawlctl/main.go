package main

import (
	"fmt"
	"os"

	"github.com/Bahjat/crawl-insight/internal/platform/config"
	"github.com/urfave/cli/v2"
)

func main() {
	// Flags read their defaults from the environment, so .env files must be
	// loaded before the app parses them.
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "crawlctl",
		Usage: "run crawls against the crawl backend and summarize the results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "crawl backend base URL",
				Value:   "http://localhost:5000",
				EnvVars: []string{"BACKEND_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "proxy-base",
				Usage:   "image proxy base URL used for hotlink-protected images",
				Value:   "http://localhost:5000",
				EnvVars: []string{"PROXY_BASE_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "overall time limit for a crawl",
				Value:   defaultTimeout,
				EnvVars: []string{"BACKEND_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "DEBUG, INFO, WARN or ERROR",
				Value:   "ERROR",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			crawlCommand(),
			summarizeCommand(),
		},
	}
}

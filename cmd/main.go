package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "news-panel",
		Usage: "Server-rendered front-end of the Gujarat news portal",
		Description: `Renders the news portal from the news backend's feed API.

		Configuration is read from the environment and an optional .env
		file, e.g. API_BASE_URL, PORT, SESSION_BACKEND, REDIS_URL.`,
		Commands: []*cli.Command{
			serveCmd(),
			probeCmd(),
		},
		// Serve when no command is given
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

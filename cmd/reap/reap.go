package main

import (
	"os"

	"github.com/tychoish/grip"
	rcli "github.com/tychoish/reap/cli"
	"github.com/urfave/cli"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		grip.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "reap"
	app.Usage = "Run child processes and make sure none outlive the caller."
	app.Commands = []cli.Command{
		rcli.Run(),
		rcli.Spawn(),
	}
	return app
}

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/cmd"
)

const (
	version = "0.1.0"
)

func main() {
	app := &cli.App{
		Name:    "smartcommit",
		Usage:   "AI-powered git commit message generator",
		Version: version,
		Commands: []*cli.Command{
			cmd.GenerateCommand(),
			cmd.ConfigCommand(),
			cmd.ContextCommand(),
			cmd.CacheCommand(),
			cmd.SplitCommand(),
			cmd.MCPCommand(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/logging"
	"github.com/smartcommit/internal/mcp"
)

// MCPCommand returns the mcp command, which serves the tool protocol on
// stdio for AI assistant integrations.
func MCPCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run as a Model Context Protocol tool server on stdio",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runMCP,
	}
}

func runMCP(c *cli.Context) error {
	logging.Setup(c.Bool("verbose"))

	cfg, err := config.NewManager().Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	return mcp.NewServer(cfg).Serve(c.Context, os.Stdin, os.Stdout)
}

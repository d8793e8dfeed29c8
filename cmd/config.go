package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/logging"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and initialize configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "init",
				Usage: "Write a sample configuration file",
			},
			&cli.BoolFlag{
				Name:  "show",
				Usage: "Print the merged effective configuration",
			},
			&cli.BoolFlag{
				Name:  "path",
				Usage: "Print configuration file locations",
			},
			&cli.BoolFlag{
				Name:    "local",
				Aliases: []string{"l"},
				Usage:   "Operate on the repository-local config instead of the global one",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runConfig,
	}
}

func runConfig(c *cli.Context) error {
	logging.Setup(c.Bool("verbose"))
	mgr := config.NewManager()

	switch {
	case c.Bool("init"):
		if err := mgr.Init(c.Bool("local")); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Printf("Wrote %s\n", mgr.Path(c.Bool("local")))
		return nil

	case c.Bool("path"):
		fmt.Printf("global: %s\n", mgr.GlobalPath())
		fmt.Printf("local:  %s\n", mgr.LocalPath())
		return nil

	case c.Bool("show"):
		cfg, err := mgr.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		shown := *cfg
		if shown.AI.APIKey != "" {
			shown.AI.APIKey = "********"
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)

	default:
		return cli.ShowSubcommandHelp(c)
	}
}

package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/logging"
	"github.com/smartcommit/internal/splitter"
)

// SplitCommand returns the split command, which suggests how to break a
// large staged diff into focused commits.
func SplitCommand() *cli.Command {
	return &cli.Command{
		Name:  "split",
		Usage: "Suggest how to split staged changes into multiple commits",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runSplit,
	}
}

func runSplit(c *cli.Context) error {
	logging.Setup(c.Bool("verbose"))
	ctx := c.Context

	repo, err := gitrepo.Open(".")
	if err != nil {
		return err
	}
	diff, err := repo.StagedDiff(ctx)
	if err != nil {
		return err
	}

	groups := splitter.Analyze(diff.RawText)
	if len(groups) == 0 {
		fmt.Printf("Staged changes touch %d files; no split needed.\n", len(diff.Files))
		return nil
	}

	fmt.Printf("Staged changes touch %d files. Suggested commits:\n\n", len(diff.Files))
	for i, g := range groups {
		fmt.Printf("%d. %s (%s)\n", i+1, g.Name, g.Scope)
		fmt.Printf("   %s\n", g.Reason)
		for _, f := range g.Files {
			fmt.Printf("   - %s\n", f)
		}
		fmt.Println()
	}

	fmt.Println("Suggested commands:")
	for _, cmd := range splitter.SuggestCommands(groups) {
		fmt.Printf("# %s\n%s\n", cmd.Description, cmd.Command)
	}
	fmt.Println("Run 'smartcommit generate' after staging each group.")
	return nil
}

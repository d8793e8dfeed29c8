package cmd

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/logging"
	"github.com/smartcommit/internal/repocontext"
)

// ContextCommand returns the context command, which prints the repository
// context that would be embedded in, or omitted from, the prompt.
func ContextCommand() *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Show the repository context used for generation",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runContext,
	}
}

func runContext(c *cli.Context) error {
	logging.Setup(c.Bool("verbose"))
	ctx := c.Context

	cfg, err := config.NewManager().Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	repo, err := gitrepo.Open(".")
	if err != nil {
		return err
	}
	repoCfg, _ := cfg.RepositoryFor(repo.Name(ctx))
	repoCtx, err := repocontext.NewAssembler(repo, repoCfg, cfg.Template.MaxRecentCommits).Assemble(ctx)
	if err != nil {
		return fmt.Errorf("assembling repository context: %w", err)
	}

	fmt.Printf("Repository: %s\n", repoCtx.Name)
	fmt.Printf("Path: %s\n", repoCtx.RootPath)
	if repoCtx.Description != "" {
		fmt.Printf("Description: %s\n", repoCtx.Description)
	}
	if len(repoCtx.TechStack) > 0 {
		fmt.Printf("Tech stack: %s\n", strings.Join(repoCtx.TechStack, ", "))
	}
	fmt.Printf("Current branch: %s\n", repoCtx.CurrentBranch)
	if len(repoCtx.Branches) > 0 {
		fmt.Printf("Branches: %s\n", strings.Join(repoCtx.Branches, ", "))
	}
	if len(repoCtx.RecentCommits) > 0 {
		fmt.Println("Recent commits:")
		for _, commit := range repoCtx.RecentCommits {
			fmt.Printf("  %s %s\n", commit.Hash[:min(8, len(commit.Hash))], commit.Subject)
		}
	}
	if len(repoCtx.FileTree) > 0 {
		fmt.Println("Top-level layout:")
		for _, d := range repoCtx.FileTree {
			fmt.Printf("  %s/ (%d files)\n", d.Name, d.FileCount)
		}
	}
	for _, cf := range repoCtx.ContextFiles {
		if cf.Note != "" {
			fmt.Printf("Context file %s: %s\n", cf.Path, cf.Note)
			continue
		}
		fmt.Printf("Context file %s: %d characters", cf.Path, len(cf.Content))
		if cf.Truncated {
			fmt.Printf(" (truncated from %d)", cf.OriginalSize)
		}
		fmt.Println()
	}
	for _, note := range repoCtx.Notes {
		fmt.Printf("Note: %s\n", note)
	}
	return nil
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/cache"
	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/generator"
	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/logging"
	"github.com/smartcommit/internal/provider"
	"github.com/smartcommit/internal/retry"
	"github.com/smartcommit/internal/security"
)

// GenerateCommand returns the generate command, the main entry point.
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:   "generate",
		Usage:  "Generate a commit message for staged changes",
		Flags:  generateFlags(),
		Action: runGenerate,
	}
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "message",
			Aliases: []string{"m"},
			Usage:   "Additional context to guide generation",
		},
		&cli.BoolFlag{
			Name:    "auto",
			Aliases: []string{"a"},
			Usage:   "Commit immediately without confirmation",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"d"},
			Usage:   "Print the message without committing",
		},
		&cli.BoolFlag{
			Name:  "privacy",
			Usage: "Anonymize file paths and omit local details from the prompt",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Bypass the message cache for this run",
		},
		&cli.BoolFlag{
			Name:  "show-diff",
			Usage: "Print the staged diff before generating",
		},
		&cli.BoolFlag{
			Name:    "interactive",
			Aliases: []string{"i"},
			Usage:   "Open the generated message in $EDITOR before committing",
		},
		&cli.BoolFlag{
			Name:  "no-interactive",
			Usage: "Never prompt: halt on secrets, proceed past size warnings, commit only with --auto",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// generateOptions maps the CLI flags onto generator options. With
// --no-interactive both callbacks are nil: the generator then halts on
// secret findings and proceeds past size warnings without prompting.
func generateOptions(c *cli.Context) generator.Options {
	opts := generator.Options{
		UserMessage:      c.String("message"),
		Privacy:          c.Bool("privacy"),
		NoCache:          c.Bool("no-cache"),
		ConfirmSecrets:   confirmSecrets,
		ConfirmLargeDiff: confirmLargeDiff,
	}
	if c.Bool("no-interactive") {
		opts.ConfirmSecrets = nil
		opts.ConfirmLargeDiff = nil
	}
	return opts
}

func runGenerate(c *cli.Context) error {
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

	prov, err := newRetryingProvider(ctx, cfg)
	if err != nil {
		return err
	}

	var msgCache generator.MessageCache
	if cfg.Cache.Enabled {
		msgCache, err = cache.New(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
	}

	if c.Bool("show-diff") {
		diff, err := repo.StagedDiff(ctx)
		if err != nil {
			return err
		}
		fmt.Println(diff.RawText)
	}

	nonInteractive := c.Bool("no-interactive")

	gen := generator.New(ctx, repo, prov, msgCache, cfg)
	result, err := gen.Generate(ctx, generateOptions(c))
	if err != nil {
		return err
	}
	if result.Halted {
		if nonInteractive {
			printSecretFindings(result.Report)
		}
		fmt.Fprintln(os.Stderr, "Aborted.")
		return cli.Exit("", 1)
	}
	if nonInteractive {
		printSizeWarnings(result.Report)
	}

	message := result.Message
	if result.UsedCache {
		fmt.Fprintln(os.Stderr, "(using cached message)")
	}

	if c.Bool("interactive") && !nonInteractive && !c.Bool("dry-run") {
		message, err = editMessage(message)
		if err != nil {
			return fmt.Errorf("editing message: %w", err)
		}
	}

	fmt.Println(message)

	if c.Bool("dry-run") {
		return nil
	}
	if !c.Bool("auto") {
		if nonInteractive {
			fmt.Fprintln(os.Stderr, "Not committed (no prompt available; use --auto to commit).")
			return nil
		}
		if !askYesNo("Commit with this message?") {
			fmt.Fprintln(os.Stderr, "Not committed.")
			return nil
		}
	}
	if err := repo.Commit(ctx, message); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Committed.")
	return nil
}

func newRetryingProvider(ctx context.Context, cfg *config.GlobalConfig) (generator.Provider, error) {
	name, model, err := provider.ParseModel(cfg.AI.Model)
	if err != nil {
		return nil, err
	}
	client, err := provider.New(ctx, provider.Options{
		Provider: name,
		Model:    model,
		APIKey:   cfg.AI.APIKey,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return &retryingProvider{client: client, cfg: retry.LLMConfig()}, nil
}

// retryingProvider wraps the model client with exponential backoff on
// transient failures.
type retryingProvider struct {
	client *provider.Client
	cfg    retry.Config
}

func (p *retryingProvider) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	var out string
	err := retry.Do(ctx, p.cfg, func() error {
		var callErr error
		out, callErr = p.client.Complete(ctx, prompt, maxTokens, temperature)
		return callErr
	})
	return out, err
}

func (p *retryingProvider) Model() string { return p.client.Model() }

func printSecretFindings(report *generator.ValidationReport) {
	fmt.Fprintln(os.Stderr, "WARNING: sensitive data detected in staged changes:")
	categories, byCategory := security.GroupByCategory(report.Secrets)
	for _, cat := range categories {
		for _, f := range byCategory[cat] {
			fmt.Fprintf(os.Stderr, "  - %s at line %d: %s\n", cat, f.LineNumber, f.MaskedSample)
		}
	}
	for _, f := range report.SensitiveFiles {
		fmt.Fprintf(os.Stderr, "  - sensitive file staged: %s\n", f)
	}
}

func printSizeWarnings(report *generator.ValidationReport) {
	for _, w := range report.Size.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
}

func confirmSecrets(report *generator.ValidationReport) bool {
	printSecretFindings(report)
	return askYesNo("Continue anyway?")
}

func confirmLargeDiff(report *generator.ValidationReport) bool {
	printSizeWarnings(report)
	fmt.Fprintln(os.Stderr, "Large diffs produce lower quality messages. Consider 'smartcommit split'.")
	return askYesNo("Continue anyway?")
}

func askYesNo(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func editMessage(message string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	tmp, err := os.CreateTemp("", "smartcommit-msg-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(message); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	cmd := exec.Command(editor, tmp.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", err
	}
	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(edited)), nil
}

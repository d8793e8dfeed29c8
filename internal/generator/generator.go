// Package generator orchestrates a single commit message generation: read
// the staged diff, analyze and gate it, assemble repository context, build
// the prompt, and resolve the message from cache or the model.
package generator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smartcommit/internal/cache"
	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/prompt"
	"github.com/smartcommit/internal/provider"
	"github.com/smartcommit/internal/repocontext"
	"github.com/smartcommit/internal/scope"
	"github.com/smartcommit/internal/security"
	"github.com/smartcommit/internal/validation"
)

// Repo is the git collaborator the generator needs.
type Repo interface {
	repocontext.Repo
	repocontext.CommitLister
	StagedDiff(ctx context.Context) (*gitrepo.DiffPayload, error)
}

// Provider produces a completion for a prompt.
type Provider interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	Model() string
}

// MessageCache stores generated messages keyed by request fingerprint.
type MessageCache interface {
	Get(key string) (string, bool)
	Put(key, message, model string) error
}

// ValidationReport collects everything the safety checks found. Findings
// are advisory: they gate generation through confirmation callbacks rather
// than through errors.
type ValidationReport struct {
	Secrets        []security.Finding
	SensitiveFiles []string
	Size           validation.Result
	Breaking       []scope.Signal
}

// HasSecrets reports whether any secret content or sensitive file was
// staged.
func (r *ValidationReport) HasSecrets() bool {
	return len(r.Secrets) > 0 || len(r.SensitiveFiles) > 0
}

// Options tunes one generation run. The Confirm callbacks let the CLI ask
// the user; a nil ConfirmSecrets halts on findings while a nil
// ConfirmLargeDiff proceeds, since oversized diffs are a quality concern
// and secrets are a safety one.
type Options struct {
	UserMessage      string
	Privacy          bool
	NoCache          bool
	ConfirmSecrets   func(report *ValidationReport) bool
	ConfirmLargeDiff func(report *ValidationReport) bool
}

// Result is the outcome of a generation run. When Halted is set the user
// declined a confirmation and Message is empty.
type Result struct {
	Message   string
	Report    *ValidationReport
	Context   *repocontext.RepositoryContext
	Scopes    []string
	Prompt    string
	UsedCache bool
	Halted    bool
}

// Generator wires the collaborators for generation runs.
type Generator struct {
	repo     Repo
	provider Provider
	cache    MessageCache
	cfg      *config.GlobalConfig
	repoCfg  config.RepositoryConfig
}

func New(ctx context.Context, repo Repo, prov Provider, msgCache MessageCache, cfg *config.GlobalConfig) *Generator {
	repoCfg, _ := cfg.RepositoryFor(repo.Name(ctx))
	return &Generator{
		repo:     repo,
		provider: prov,
		cache:    msgCache,
		cfg:      cfg,
		repoCfg:  repoCfg,
	}
}

// Analyze reads the staged diff and runs the safety checks without calling
// the model. The returned diff has ignored files already filtered out.
func (g *Generator) Analyze(ctx context.Context) (*gitrepo.DiffPayload, *ValidationReport, error) {
	raw, err := g.repo.StagedDiff(ctx)
	if err != nil {
		return nil, nil, err
	}
	diff := raw
	if filtered := repocontext.FilterDiff(raw.RawText, g.repoCfg.IgnorePatterns); filtered != raw.RawText {
		diff = gitrepo.ParseDiff(filtered)
	}

	report := &ValidationReport{
		Secrets:        security.DetectSensitiveData(diff.RawText),
		SensitiveFiles: security.CheckSensitiveFiles(diff.RawText),
		Size: validation.ValidateDiffSize(diff.RawText, validation.Thresholds{
			MaxLines: g.cfg.Validation.MaxDiffLines,
			MaxChars: g.cfg.Validation.MaxDiffChars,
		}),
		Breaking: scope.DetectBreakingChanges(diff.RawText),
	}
	log.Debug().
		Int("secret_findings", len(report.Secrets)).
		Int("sensitive_files", len(report.SensitiveFiles)).
		Int("breaking_signals", len(report.Breaking)).
		Bool("needs_size_confirmation", report.Size.RequiresConfirmation).
		Msg("staged diff analyzed")
	return diff, report, nil
}

// Generate runs the full pipeline and returns the commit message.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	diff, report, err := g.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	result := &Result{Report: report}

	if report.HasSecrets() {
		if opts.ConfirmSecrets == nil || !opts.ConfirmSecrets(report) {
			log.Warn().Msg("generation halted: sensitive data staged")
			result.Halted = true
			return result, nil
		}
	}
	if report.Size.RequiresConfirmation && opts.ConfirmLargeDiff != nil {
		if !opts.ConfirmLargeDiff(report) {
			result.Halted = true
			return result, nil
		}
	}

	assembler := repocontext.NewAssembler(g.repo, g.repoCfg, g.cfg.Template.MaxRecentCommits)
	repoCtx, err := assembler.Assemble(ctx)
	if err != nil {
		return nil, fmt.Errorf("assembling repository context: %w", err)
	}
	result.Context = repoCtx
	result.Scopes = scope.DetectScopes(diff.ChangedPaths())
	repoCtx.Scopes = result.Scopes

	result.Prompt = prompt.Build(prompt.Params{
		Context:     repoCtx,
		Diff:        diff,
		Template:    g.cfg.Template,
		Scopes:      result.Scopes,
		Breaking:    report.Breaking,
		UserMessage: opts.UserMessage,
		Privacy:     opts.Privacy,
	})

	// Privacy mode skips the cache: anonymized prompts should leave no
	// content-addressed residue of the real diff on disk.
	key := ""
	useCache := g.cache != nil && g.cfg.Cache.Enabled && !opts.NoCache && !opts.Privacy
	if useCache {
		key, err = cache.Fingerprint(diff.RawText, g.cfg.AI.Model, g.cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("computing cache key: %w", err)
		}
		if msg, ok := g.cache.Get(key); ok {
			result.Message = msg
			result.UsedCache = true
			return result, nil
		}
	}

	out, err := g.provider.Complete(ctx, result.Prompt, g.cfg.AI.MaxTokens, g.cfg.AI.Temperature)
	if err != nil {
		return nil, err
	}
	result.Message = provider.StripFences(out)

	if useCache {
		if err := g.cache.Put(key, result.Message, g.provider.Model()); err != nil {
			log.Warn().Err(err).Msg("failed to cache generated message")
		}
	}
	return result, nil
}

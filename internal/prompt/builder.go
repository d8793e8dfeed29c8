package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/repocontext"
	"github.com/smartcommit/internal/scope"
)

// Params carries everything the prompt builder needs. Build is a pure
// function of Params: same inputs, same prompt text.
type Params struct {
	Context     *repocontext.RepositoryContext
	Diff        *gitrepo.DiffPayload
	Template    config.TemplateConfig
	Scopes      []string
	Breaking    []scope.Signal
	UserMessage string
	Privacy     bool
}

// Build assembles the full prompt in a fixed section order: system
// instructions, repository context, recent commits, change analysis,
// diff, user message, example formats, output instruction.
func Build(p Params) string {
	var b strings.Builder

	b.WriteString(SystemRole)
	b.WriteString("\n\n")
	writeRules(&b, p.Template)

	if p.Context != nil {
		writeContext(&b, p.Context, p.Privacy)
		writeCommits(&b, p.Context, p.Template.MaxRecentCommits)
	}

	diffText := ""
	if p.Diff != nil {
		diffText = p.Diff.RawText
	}
	breaking := p.Breaking
	if p.Privacy {
		var placeholders map[string]string
		diffText, placeholders = AnonymizeDiff(diffText)
		breaking = anonymizeSignals(p.Breaking, placeholders)
	}

	writeSignals(&b, p.Scopes, breaking)

	b.WriteString(DiffHeader)
	b.WriteString("\n```diff\n")
	b.WriteString(diffText)
	if !strings.HasSuffix(diffText, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")

	if p.UserMessage != "" {
		b.WriteString(UserHeader)
		b.WriteString("\n")
		b.WriteString(p.UserMessage)
		b.WriteString("\n\n")
	}

	if len(p.Template.ExampleFormats) > 0 {
		b.WriteString(ExamplesHeader)
		b.WriteString("\n")
		for _, ex := range p.Template.ExampleFormats {
			b.WriteString("```\n")
			b.WriteString(ex)
			if !strings.HasSuffix(ex, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("```\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(OutputInstruction)
	b.WriteString("\n")
	return b.String()
}

func writeRules(b *strings.Builder, tpl config.TemplateConfig) {
	b.WriteString("**Requirements:**\n")
	if tpl.ConventionalCommits {
		b.WriteString("- ")
		b.WriteString(strings.ReplaceAll(ConventionalCommitRules, "\n", "\n  "))
		b.WriteString("\n")
	}
	if len(tpl.CustomPrefixes) > 0 {
		b.WriteString("- Custom commit types for this repository:\n")
		prefixes := make([]string, 0, len(tpl.CustomPrefixes))
		for prefix := range tpl.CustomPrefixes {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)
		for _, prefix := range prefixes {
			fmt.Fprintf(b, "  - %s: %s\n", prefix, tpl.CustomPrefixes[prefix])
		}
	}
	if tpl.MaxSubjectLength > 0 {
		fmt.Fprintf(b, "- Keep the subject line under %d characters\n", tpl.MaxSubjectLength)
	}
	if tpl.IncludeBody {
		b.WriteString("- Include a body explaining what changed and why, separated from the subject by a blank line\n")
	} else {
		b.WriteString("- Output the subject line only, no body\n")
	}
	if tpl.IncludeReasoning {
		b.WriteString("- In the body, explain the reasoning behind the change\n")
	}
	b.WriteString("- Use imperative mood (\"add feature\" not \"added feature\")\n")
	b.WriteString("\n")
}

func writeContext(b *strings.Builder, ctx *repocontext.RepositoryContext, privacy bool) {
	b.WriteString(ContextHeader)
	b.WriteString("\n")
	fmt.Fprintf(b, "- Repository: %s\n", ctx.Name)
	if !privacy && ctx.RootPath != "" {
		fmt.Fprintf(b, "- Path: %s\n", ctx.RootPath)
	}
	if ctx.Description != "" {
		fmt.Fprintf(b, "- Description: %s\n", ctx.Description)
	}
	if len(ctx.TechStack) > 0 {
		fmt.Fprintf(b, "- Tech stack: %s\n", strings.Join(ctx.TechStack, ", "))
	}
	if ctx.CurrentBranch != "" {
		fmt.Fprintf(b, "- Current branch: %s\n", ctx.CurrentBranch)
	}
	if len(ctx.FileTree) > 0 {
		dirs := make([]string, 0, len(ctx.FileTree))
		for _, d := range ctx.FileTree {
			dirs = append(dirs, fmt.Sprintf("%s (%d files)", d.Name, d.FileCount))
		}
		fmt.Fprintf(b, "- Top-level layout: %s\n", strings.Join(dirs, ", "))
	}
	if !privacy && len(ctx.ContextFiles) > 0 {
		b.WriteString("\n**Reference Files:**\n")
		for _, cf := range ctx.ContextFiles {
			if cf.Note != "" {
				fmt.Fprintf(b, "- %s (%s)\n", cf.Path, cf.Note)
				continue
			}
			fmt.Fprintf(b, "\n`%s`:\n```\n%s\n```\n", cf.Path, cf.Content)
		}
	}
	b.WriteString("\n")
}

func writeCommits(b *strings.Builder, ctx *repocontext.RepositoryContext, max int) {
	if max <= 0 || len(ctx.RecentCommits) == 0 {
		return
	}
	commits := ctx.RecentCommits
	if len(commits) > max {
		commits = commits[:max]
	}
	fmt.Fprintf(b, "%s (for style reference):**\n", CommitsHeader)
	for _, c := range commits {
		fmt.Fprintf(b, "- %s\n", c.Subject)
	}
	b.WriteString("\n")
}

func writeSignals(b *strings.Builder, scopes []string, breaking []scope.Signal) {
	if len(scopes) == 0 && len(breaking) == 0 {
		return
	}
	b.WriteString(SignalsHeader)
	b.WriteString("\n")
	if len(scopes) > 0 {
		fmt.Fprintf(b, "- Suggested scopes (most relevant first): %s\n", strings.Join(scopes, ", "))
	}
	for _, sig := range breaking {
		fmt.Fprintf(b, "- Possible breaking change (%s) in %s\n", sig.Kind, sig.Location)
	}
	b.WriteString("\n")
}

// AnonymizeDiff replaces every file path in the diff with a stable
// placeholder (file1, file2, ...) assigned in first-seen order. Distinct
// paths always get distinct placeholders. The returned map records
// placeholder to original path.
func AnonymizeDiff(diffText string) (string, map[string]string) {
	paths := gitrepo.ParseDiff(diffText).ChangedPaths()
	placeholders := make(map[string]string, len(paths))
	byPath := make(map[string]string, len(paths))
	for _, p := range paths {
		if _, seen := byPath[p]; seen {
			continue
		}
		name := fmt.Sprintf("file%d", len(byPath)+1)
		byPath[p] = name
		placeholders[name] = p
	}

	// Replace longer paths first so a path that is a prefix of another
	// cannot clobber the longer one's occurrences.
	ordered := make([]string, 0, len(byPath))
	for p := range byPath {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	out := diffText
	for _, p := range ordered {
		out = strings.ReplaceAll(out, p, byPath[p])
	}
	return out, placeholders
}

// anonymizeSignals rewrites breaking-change locations and snippets with the
// placeholders assigned to the diff, so the real paths never surface through
// the change analysis section either.
func anonymizeSignals(signals []scope.Signal, placeholders map[string]string) []scope.Signal {
	if len(signals) == 0 {
		return nil
	}
	byPath := make(map[string]string, len(placeholders))
	ordered := make([]string, 0, len(placeholders))
	for name, p := range placeholders {
		byPath[p] = name
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	out := make([]scope.Signal, len(signals))
	for i, sig := range signals {
		if name, ok := byPath[sig.Location]; ok {
			sig.Location = name
		}
		for _, p := range ordered {
			sig.Snippet = strings.ReplaceAll(sig.Snippet, p, byPath[p])
		}
		out[i] = sig
	}
	return out
}

// Package mcp exposes the generator over a line-delimited JSON protocol on
// stdio, for use as a Model Context Protocol tool server.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartcommit/internal/cache"
	"github.com/smartcommit/internal/config"
	"github.com/smartcommit/internal/generator"
	"github.com/smartcommit/internal/gitrepo"
	"github.com/smartcommit/internal/provider"
	"github.com/smartcommit/internal/repocontext"
)

// Request is one incoming message. ID is echoed back untouched.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// Response is one outgoing message.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result interface{}     `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// content mirrors the tools/call result shape MCP clients expect.
type content struct {
	Content []contentBlock         `json:"content"`
	Meta    map[string]interface{} `json:"metadata,omitempty"`
	IsError bool                   `json:"isError,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Server handles requests against one loaded configuration.
type Server struct {
	cfg *config.GlobalConfig

	// newProvider is swapped out in tests.
	newProvider func(ctx context.Context) (generator.Provider, error)
}

func NewServer(cfg *config.GlobalConfig) *Server {
	s := &Server{cfg: cfg}
	s.newProvider = func(ctx context.Context) (generator.Provider, error) {
		name, model, err := provider.ParseModel(cfg.AI.Model)
		if err != nil {
			return nil, err
		}
		return provider.New(ctx, provider.Options{
			Provider: name,
			Model:    model,
			APIKey:   cfg.AI.APIKey,
			BaseURL:  cfg.AI.BaseURL,
		})
	}
	return s
}

// Serve reads newline-delimited JSON requests from r and writes one JSON
// response per line to w until EOF.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var req Request
		resp := Response{}
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			resp.Error = fmt.Sprintf("invalid request: %v", err)
		} else {
			resp = s.Handle(ctx, req)
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return scanner.Err()
}

// Handle dispatches one request.
func (s *Server) Handle(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}
	switch req.Method {
	case "tools/list":
		resp.Result = map[string]interface{}{"tools": toolList()}
	case "tools/call":
		resp.Result = s.callTool(ctx, req.Params.Name, req.Params.Arguments)
	default:
		resp.Error = fmt.Sprintf("unknown method: %s", req.Method)
	}
	return resp
}

type toolArgs struct {
	Path              string `json:"path"`
	RepositoryPath    string `json:"repository_path"`
	AdditionalContext string `json:"additional_context"`
}

func (s *Server) callTool(ctx context.Context, name string, rawArgs json.RawMessage) content {
	var args toolArgs
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return errContent(fmt.Sprintf("invalid arguments: %v", err))
		}
	}
	log.Debug().Str("tool", name).Msg("executing tool")

	switch name {
	case "analyze_repository":
		return s.analyzeRepository(ctx, args)
	case "generate_commit_message":
		return s.generateCommitMessage(ctx, args)
	case "get_staged_changes":
		return s.getStagedChanges(ctx, args)
	case "cache_stats":
		return s.cacheStats()
	default:
		return errContent(fmt.Sprintf("unknown tool: %s", name))
	}
}

func (s *Server) analyzeRepository(ctx context.Context, args toolArgs) content {
	path := args.Path
	if path == "" {
		path = "."
	}
	repo, err := gitrepo.Open(path)
	if err != nil {
		return errContent(fmt.Sprintf("opening repository: %v", err))
	}
	repoCfg, _ := s.cfg.RepositoryFor(repo.Name(ctx))
	repoCtx, err := repocontext.NewAssembler(repo, repoCfg, s.cfg.Template.MaxRecentCommits).Assemble(ctx)
	if err != nil {
		return errContent(fmt.Sprintf("analyzing repository: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Repository Analysis: %s\n\n", repoCtx.Name)
	fmt.Fprintf(&b, "**Path:** %s\n", repoCtx.RootPath)
	desc := repoCtx.Description
	if desc == "" {
		desc = "No description available"
	}
	fmt.Fprintf(&b, "**Description:** %s\n\n", desc)
	fmt.Fprintf(&b, "## Technology Stack\n%s\n\n", joinOr(repoCtx.TechStack, "Not detected"))
	fmt.Fprintf(&b, "## Active Branches\n%s\n\n", joinOr(repoCtx.Branches, "None found"))
	b.WriteString("## Recent Commits\n")
	for i, c := range repoCtx.RecentCommits {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", c.Subject)
	}
	if len(repoCtx.FileTree) > 0 {
		b.WriteString("\n## File Structure\n")
		for _, d := range repoCtx.FileTree {
			fmt.Fprintf(&b, "- **%s/**: %d files\n", d.Name, d.FileCount)
		}
	}
	return content{
		Content: []contentBlock{{Type: "text", Text: b.String()}},
		Meta: map[string]interface{}{
			"repository_name": repoCtx.Name,
			"tech_stack":      repoCtx.TechStack,
			"branch_count":    len(repoCtx.Branches),
		},
	}
}

func (s *Server) generateCommitMessage(ctx context.Context, args toolArgs) content {
	path := args.RepositoryPath
	if path == "" {
		path = "."
	}
	repo, err := gitrepo.Open(path)
	if err != nil {
		return errContent(fmt.Sprintf("opening repository: %v", err))
	}
	prov, err := s.newProvider(ctx)
	if err != nil {
		return errContent(fmt.Sprintf("creating provider: %v", err))
	}
	var msgCache generator.MessageCache
	if s.cfg.Cache.Enabled {
		if c, err := cache.New(s.cfg.Cache.Dir); err == nil {
			msgCache = c
		}
	}

	gen := generator.New(ctx, repo, prov, msgCache, s.cfg)
	result, err := gen.Generate(ctx, generator.Options{
		UserMessage: args.AdditionalContext,
	})
	if err != nil {
		return errContent(fmt.Sprintf("generating commit message: %v", err))
	}
	if result.Halted {
		var b strings.Builder
		b.WriteString("Generation halted: sensitive data detected in staged changes.\n")
		for _, f := range result.Report.Secrets {
			fmt.Fprintf(&b, "- %s at line %d: %s\n", f.Category, f.LineNumber, f.MaskedSample)
		}
		for _, f := range result.Report.SensitiveFiles {
			fmt.Fprintf(&b, "- sensitive file: %s\n", f)
		}
		return content{
			Content: []contentBlock{{Type: "text", Text: b.String()}},
			Meta:    map[string]interface{}{"halted": true},
			IsError: true,
		}
	}
	return content{
		Content: []contentBlock{{
			Type: "text",
			Text: fmt.Sprintf("# Generated Commit Message\n\n```\n%s\n```", result.Message),
		}},
		Meta: map[string]interface{}{
			"commit_message": result.Message,
			"repository":     result.Context.Name,
			"used_cache":     result.UsedCache,
		},
	}
}

func (s *Server) getStagedChanges(ctx context.Context, args toolArgs) content {
	path := args.RepositoryPath
	if path == "" {
		path = "."
	}
	repo, err := gitrepo.Open(path)
	if err != nil {
		return errContent(fmt.Sprintf("opening repository: %v", err))
	}
	diff, err := repo.StagedDiff(ctx)
	if err != nil {
		if gitrepo.IsNoStagedChanges(err) {
			return content{
				Content: []contentBlock{{Type: "text", Text: "No staged changes found."}},
				Meta:    map[string]interface{}{"has_changes": false},
			}
		}
		return errContent(fmt.Sprintf("getting staged changes: %v", err))
	}
	return content{
		Content: []contentBlock{{
			Type: "text",
			Text: fmt.Sprintf("# Staged Changes\n\n```diff\n%s\n```", diff.RawText),
		}},
		Meta: map[string]interface{}{
			"has_changes": true,
			"diff_length": len(diff.RawText),
		},
	}
}

func (s *Server) cacheStats() content {
	c, err := cache.New(s.cfg.Cache.Dir)
	if err != nil {
		return errContent(fmt.Sprintf("opening cache: %v", err))
	}
	stats, err := c.Stats()
	if err != nil {
		return errContent(fmt.Sprintf("reading cache stats: %v", err))
	}
	text := fmt.Sprintf("Cache at %s: %d entries (%d expired), %d bytes",
		stats.Dir, stats.Entries, stats.Expired, stats.TotalBytes)
	return content{
		Content: []contentBlock{{Type: "text", Text: text}},
		Meta: map[string]interface{}{
			"entries":     stats.Entries,
			"expired":     stats.Expired,
			"total_bytes": stats.TotalBytes,
		},
	}
}

func errContent(msg string) content {
	return content{
		Content: []contentBlock{{Type: "text", Text: msg}},
		IsError: true,
	}
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

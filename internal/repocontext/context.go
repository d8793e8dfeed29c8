// Package repocontext builds the repository context embedded in generation
// prompts: tech stack, branches, recent history, file tree shape, and the
// contents of configured context files.
package repocontext

import (
	"context"

	"github.com/smartcommit/internal/gitrepo"
)

// Commit is one recent history entry.
type Commit = gitrepo.Commit

// Repo is the repository collaborator the assembler queries. gitrepo
// satisfies it; tests substitute fakes.
type Repo interface {
	Root() string
	Name(ctx context.Context) string
	CurrentBranch(ctx context.Context) (string, error)
	Branches(ctx context.Context) ([]string, error)
}

// CommitLister is implemented by repositories that can report history.
type CommitLister interface {
	RecentCommits(ctx context.Context, n int) ([]Commit, error)
}

// ContextFile is one configured document injected into the prompt.
type ContextFile struct {
	Path         string
	Content      string
	Truncated    bool
	OriginalSize int
	Note         string // set when the file was skipped (missing, unreadable)
}

// RepositoryContext is the assembled snapshot for one generation call.
// It is built fresh per invocation and never mutated afterwards.
type RepositoryContext struct {
	Name          string
	RootPath      string
	Description   string
	TechStack     []string
	Branches      []string
	CurrentBranch string
	RecentCommits []Commit
	FileTree      []DirSummary
	ContextFiles  []ContextFile
	Scopes        []string
	Notes         []string
}

// DirSummary describes one top-level directory of the repository.
type DirSummary struct {
	Name      string
	FileCount int
}

// Package gitrepo wraps the git command line as a repository collaborator.
// All operations shell out to git; the rest of the system only sees parsed
// results and never runs git itself.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// AccessError reports that basic repository metadata could not be resolved.
// It is fatal for the current invocation.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("repository access failed during %s: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ErrNoStagedChanges indicates the index holds nothing to describe.
var ErrNoStagedChanges = errors.New("no staged changes")

// IsNoStagedChanges reports whether err means the index was clean.
func IsNoStagedChanges(err error) bool {
	return errors.Is(err, ErrNoStagedChanges)
}

// Commit is one entry of the repository's recent history.
type Commit struct {
	Hash    string
	Subject string
	Author  string
	When    time.Time
}

// Repository is a handle to a local git repository.
type Repository struct {
	root string
}

// Open resolves the repository containing path (searching parent
// directories, as git does) and returns a handle rooted at its toplevel.
func Open(path string) (*Repository, error) {
	out, err := runGit(context.Background(), path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, &AccessError{Op: "open", Err: fmt.Errorf("not a git repository: %s", path)}
	}
	root := strings.TrimSpace(string(out))
	return &Repository{root: root}, nil
}

// Root returns the repository's toplevel directory.
func (r *Repository) Root() string { return r.root }

// Name returns the repository name: the basename of the origin remote URL
// when available, else the basename of the root directory.
func (r *Repository) Name(ctx context.Context) string {
	out, err := runGit(ctx, r.root, "remote", "get-url", "origin")
	if err == nil {
		url := strings.TrimSpace(string(out))
		url = strings.TrimSuffix(url, ".git")
		if i := strings.LastIndexAny(url, "/:"); i != -1 && i+1 < len(url) {
			return url[i+1:]
		}
	}
	return filepath.Base(r.root)
}

// StagedDiff returns the parsed staged diff. ErrNoStagedChanges (wrapped in
// an AccessError) is returned when the index is clean.
func (r *Repository) StagedDiff(ctx context.Context) (*DiffPayload, error) {
	out, err := runGit(ctx, r.root, "diff", "--staged")
	if err != nil {
		return nil, &AccessError{Op: "staged diff", Err: err}
	}
	raw := string(out)
	if strings.TrimSpace(raw) == "" {
		return nil, &AccessError{Op: "staged diff", Err: ErrNoStagedChanges}
	}
	payload := ParseDiff(raw)
	log.Debug().
		Int("files", len(payload.Files)).
		Int("additions", payload.TotalAdditions).
		Int("deletions", payload.TotalDeletions).
		Msg("Parsed staged diff")
	return payload, nil
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := runGit(ctx, r.root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &AccessError{Op: "current branch", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// Branches returns all local branch names, sorted by git's default order.
func (r *Repository) Branches(ctx context.Context) ([]string, error) {
	out, err := runGit(ctx, r.root, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, &AccessError{Op: "branches", Err: err}
	}
	var branches []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// RecentCommits returns up to n commits from HEAD, newest first. A repository
// with no commits yields an AccessError since subject-line modeling needs at
// least a readable HEAD.
func (r *Repository) RecentCommits(ctx context.Context, n int) ([]Commit, error) {
	if n <= 0 {
		return nil, nil
	}
	out, err := runGit(ctx, r.root, "log", "-n", strconv.Itoa(n), "--pretty=format:%H%x1f%s%x1f%an%x1f%at")
	if err != nil {
		return nil, &AccessError{Op: "recent commits", Err: err}
	}
	var commits []Commit
	for _, line := range strings.Split(string(out), "\n") {
		parts := strings.Split(line, "\x1f")
		if len(parts) != 4 {
			continue
		}
		ts, _ := strconv.ParseInt(parts[3], 10, 64)
		commits = append(commits, Commit{
			Hash:    parts[0],
			Subject: parts[1],
			Author:  parts[2],
			When:    time.Unix(ts, 0).UTC(),
		})
	}
	return commits, nil
}

// Commit creates a commit with the given message against the staged index.
func (r *Repository) Commit(ctx context.Context, message string) error {
	if _, err := runGit(ctx, r.root, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git %s: %s: %s", strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return output, nil
}

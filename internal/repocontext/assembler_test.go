package repocontext

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcommit/internal/config"
)

type fakeRepo struct {
	root     string
	name     string
	branch   string
	branches []string
	commits  []Commit
}

func (f *fakeRepo) Root() string                      { return f.root }
func (f *fakeRepo) Name(ctx context.Context) string   { return f.name }
func (f *fakeRepo) CurrentBranch(ctx context.Context) (string, error) { return f.branch, nil }
func (f *fakeRepo) Branches(ctx context.Context) ([]string, error)    { return f.branches, nil }
func (f *fakeRepo) RecentCommits(ctx context.Context, n int) ([]Commit, error) {
	if n < len(f.commits) {
		return f.commits[:n], nil
	}
	return f.commits, nil
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "internal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "internal", "main.go"), []byte("package internal\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# Title\n\nA helpful tool.\n"), 0o644))
	return &fakeRepo{
		root:     root,
		name:     "example",
		branch:   "main",
		branches: []string{"main", "dev"},
		commits: []Commit{
			{Hash: "aaa", Subject: "feat: first"},
			{Hash: "bbb", Subject: "fix: second"},
		},
	}
}

func TestAssemble(t *testing.T) {
	repo := newFakeRepo(t)
	rc, err := NewAssembler(repo, config.RepositoryConfig{}, 10).Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "example", rc.Name)
	assert.Equal(t, "main", rc.CurrentBranch)
	assert.Equal(t, []string{"main", "dev"}, rc.Branches)
	assert.Len(t, rc.RecentCommits, 2)
	assert.Contains(t, rc.TechStack, "go")
	assert.Equal(t, "A helpful tool.", rc.Description)
	require.Len(t, rc.FileTree, 1)
	assert.Equal(t, "internal", rc.FileTree[0].Name)
	assert.Equal(t, 1, rc.FileTree[0].FileCount)
}

func TestAssembleConfiguredOverrides(t *testing.T) {
	repo := newFakeRepo(t)
	repoCfg := config.RepositoryConfig{
		Description: "configured description",
		TechStack:   []string{"go", "postgres"},
	}
	rc, err := NewAssembler(repo, repoCfg, 10).Assemble(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "configured description", rc.Description)
	assert.Equal(t, []string{"go", "postgres"}, rc.TechStack)
}

func TestAssembleCommitLimit(t *testing.T) {
	repo := newFakeRepo(t)
	rc, err := NewAssembler(repo, config.RepositoryConfig{}, 1).Assemble(context.Background())
	require.NoError(t, err)
	assert.Len(t, rc.RecentCommits, 1)

	rc, err = NewAssembler(repo, config.RepositoryConfig{}, 0).Assemble(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rc.RecentCommits)
}

func TestReadContextFilesTruncation(t *testing.T) {
	repo := newFakeRepo(t)
	big := strings.Repeat("x", 150)
	require.NoError(t, os.WriteFile(filepath.Join(repo.root, "NOTES.md"), []byte(big), 0o644))

	repoCfg := config.RepositoryConfig{
		ContextFiles:       []string{"NOTES.md", "missing.md"},
		MaxContextFileSize: 100,
	}
	rc, err := NewAssembler(repo, repoCfg, 0).Assemble(context.Background())
	require.NoError(t, err)
	require.Len(t, rc.ContextFiles, 2)

	notes := rc.ContextFiles[0]
	assert.True(t, notes.Truncated)
	assert.Equal(t, 150, notes.OriginalSize)
	assert.Contains(t, notes.Content, "[truncated, original size 150 characters]")
	assert.True(t, strings.HasPrefix(notes.Content, strings.Repeat("x", 100)))

	missing := rc.ContextFiles[1]
	assert.Contains(t, missing.Note, "skipped")
	assert.Empty(t, missing.Content)
}

func TestFilterDiff(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/src/app.go b/src/app.go",
		"+kept",
		"diff --git a/vendor/lib.go b/vendor/lib.go",
		"+dropped",
		"diff --git a/package-lock.json b/package-lock.json",
		"+dropped too",
	}, "\n")

	out := FilterDiff(diff, []string{"vendor", "package-lock.json"})
	assert.Contains(t, out, "src/app.go")
	assert.Contains(t, out, "+kept")
	assert.NotContains(t, out, "vendor/lib.go")
	assert.NotContains(t, out, "+dropped")
	assert.NotContains(t, out, "package-lock.json")
}

func TestFilterDiffNoPatterns(t *testing.T) {
	diff := "diff --git a/x b/x\n+y"
	assert.Equal(t, diff, FilterDiff(diff, nil))
}

func TestFilterDiffGlobPattern(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/logs/app.log b/logs/app.log",
		"+noise",
		"diff --git a/main.go b/main.go",
		"+code",
	}, "\n")
	out := FilterDiff(diff, []string{"**/*.log"})
	assert.NotContains(t, out, "app.log")
	assert.Contains(t, out, "main.go")
}

func TestReadmeExcerptCap(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("a", 250)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte(long), 0o644))
	excerpt := readmeExcerpt(root)
	assert.Len(t, excerpt, 203)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

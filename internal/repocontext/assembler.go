package repocontext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"

	"github.com/smartcommit/internal/config"
)

// techIndicators maps a technology name to marker files and extensions.
// Extension markers start with "*.".
var techIndicators = map[string][]string{
	"python":     {"requirements.txt", "pyproject.toml", "setup.py", "Pipfile", "*.py"},
	"javascript": {"package.json", "yarn.lock", "*.js"},
	"typescript": {"tsconfig.json", "*.ts", "*.tsx"},
	"vue":        {"*.vue"},
	"rust":       {"Cargo.toml", "*.rs"},
	"go":         {"go.mod", "*.go"},
	"java":       {"pom.xml", "build.gradle", "*.java"},
	"docker":     {"Dockerfile", "docker-compose.yml"},
	"terraform":  {"*.tf"},
}

var readmeNames = []string{"README.md", "README.rst", "README.txt", "README"}

// Assembler builds a RepositoryContext from a repository handle and its
// configuration. One assembler serves one invocation.
type Assembler struct {
	repo       Repo
	repoConfig config.RepositoryConfig
	maxCommits int
}

// NewAssembler creates an assembler. maxCommits bounds how much history is
// read; the loader guarantees it is within 0-50.
func NewAssembler(repo Repo, repoConfig config.RepositoryConfig, maxCommits int) *Assembler {
	return &Assembler{repo: repo, repoConfig: repoConfig, maxCommits: maxCommits}
}

// Assemble gathers all repository signals. Missing context files and
// unrecognized tech stacks degrade to notes; only unreadable core metadata
// (branch, history) aborts.
func (a *Assembler) Assemble(ctx context.Context) (*RepositoryContext, error) {
	root := a.repo.Root()
	rc := &RepositoryContext{
		Name:     a.repo.Name(ctx),
		RootPath: root,
	}
	if a.repoConfig.Description != "" {
		rc.Description = a.repoConfig.Description
	} else {
		rc.Description = readmeExcerpt(root)
	}

	branch, err := a.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	rc.CurrentBranch = branch

	branches, err := a.repo.Branches(ctx)
	if err != nil {
		return nil, err
	}
	rc.Branches = branches

	if lister, ok := a.repo.(CommitLister); ok && a.maxCommits > 0 {
		commits, err := lister.RecentCommits(ctx, a.maxCommits)
		if err != nil {
			return nil, err
		}
		rc.RecentCommits = commits
	}

	if len(a.repoConfig.TechStack) > 0 {
		rc.TechStack = a.repoConfig.TechStack
	} else {
		rc.TechStack = detectTechStack(root, a.repoConfig.IgnorePatterns)
		if len(rc.TechStack) == 0 {
			rc.Notes = append(rc.Notes, "tech stack could not be detected")
		}
	}

	rc.FileTree = summarizeTree(root, a.repoConfig.IgnorePatterns)
	rc.ContextFiles = a.readContextFiles(root)

	log.Debug().
		Str("repo", rc.Name).
		Strs("tech_stack", rc.TechStack).
		Int("commits", len(rc.RecentCommits)).
		Int("context_files", len(rc.ContextFiles)).
		Msg("Assembled repository context")
	return rc, nil
}

// readContextFiles loads each configured context file in configured order.
// AbsolutePath overrides root-relative resolution. Files that cannot be read
// are kept as notes rather than failing the assembly. Content is truncated
// by character count (a deliberate approximation of token budgeting) with a
// notice stating the original size.
func (a *Assembler) readContextFiles(root string) []ContextFile {
	base := root
	if a.repoConfig.AbsolutePath != "" {
		base = a.repoConfig.AbsolutePath
	}
	maxSize := a.repoConfig.MaxContextFileSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxContextFileSize
	}

	var files []ContextFile
	for _, rel := range a.repoConfig.ContextFiles {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, rel)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			files = append(files, ContextFile{Path: rel, Note: fmt.Sprintf("skipped: %v", err)})
			log.Warn().Str("file", rel).Err(err).Msg("Context file unreadable, omitting")
			continue
		}
		cf := ContextFile{Path: rel, Content: string(data), OriginalSize: len(data)}
		if len(cf.Content) > maxSize {
			cf.Content = cf.Content[:maxSize] +
				fmt.Sprintf("\n... [truncated, original size %d characters]", cf.OriginalSize)
			cf.Truncated = true
		}
		files = append(files, cf)
	}
	return files
}

// FilterDiff removes the sections of a diff whose file path matches one of
// the ignore patterns. Ignore patterns use gitignore-style globs.
func FilterDiff(diffText string, ignorePatterns []string) string {
	if len(ignorePatterns) == 0 || diffText == "" {
		return diffText
	}
	var kept []string
	skip := false
	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			skip = false
			if idx := strings.LastIndex(line, " b/"); idx != -1 {
				skip = matchesAny(line[idx+3:], ignorePatterns)
			}
		}
		if !skip {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		// A bare directory or name pattern matches anywhere in the tree.
		if ok, _ := doublestar.Match("**/"+strings.TrimSuffix(pattern, "/")+"/**", path); ok {
			return true
		}
		if ok, _ := doublestar.Match("**/"+pattern, path); ok {
			return true
		}
	}
	return false
}

// detectTechStack infers technologies from marker files and extensions in
// the tree. Best effort: an empty result is valid.
func detectTechStack(root string, ignorePatterns []string) []string {
	markers := make(map[string]bool) // plain names present
	exts := make(map[string]bool)    // extensions present

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || strings.HasPrefix(d.Name(), ".") && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAny(rel, ignorePatterns) {
			return nil
		}
		markers[d.Name()] = true
		if ext := filepath.Ext(d.Name()); ext != "" {
			exts[ext] = true
		}
		return nil
	})

	var detected []string
	for tech, indicators := range techIndicators {
		for _, ind := range indicators {
			if strings.HasPrefix(ind, "*.") {
				if exts[ind[1:]] {
					detected = append(detected, tech)
					break
				}
			} else if markers[ind] {
				detected = append(detected, tech)
				break
			}
		}
	}
	sort.Strings(detected)
	return detected
}

// summarizeTree reports each top-level directory with its file count,
// skipping dot directories and ignored paths.
func summarizeTree(root string, ignorePatterns []string) []DirSummary {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var dirs []DirSummary
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if matchesAny(entry.Name(), ignorePatterns) {
			continue
		}
		count := 0
		filepath.WalkDir(filepath.Join(root, entry.Name()), func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && matchesAny(rel, ignorePatterns) {
				return nil
			}
			count++
			return nil
		})
		dirs = append(dirs, DirSummary{Name: entry.Name(), FileCount: count})
	}
	return dirs
}

// readmeExcerpt returns the first non-heading paragraph line of the first
// README found, capped at 200 characters.
func readmeExcerpt(root string) string {
	for _, name := range readmeNames {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if len(line) > 200 {
				return line[:200] + "..."
			}
			return line
		}
	}
	return ""
}

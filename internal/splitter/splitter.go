// Package splitter suggests how to break an oversized staged diff into
// several focused commits.
package splitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smartcommit/internal/gitrepo"
)

// Every diff touching at most this many files is considered focused enough
// to commit as is.
const MaxFilesPerCommit = 5

// Group is one suggested commit, with the files it should contain and why
// they belong together.
type Group struct {
	Name     string
	Files    []string
	Reason   string
	Scope    string
	Priority int // lower commits first
}

// Command is one suggested shell step for restaging a group.
type Command struct {
	Description string
	Command     string
}

// Analyze inspects the diff and returns suggested commit groups ordered by
// priority. A diff touching five or fewer files needs no split and returns
// nil.
func Analyze(diffText string) []Group {
	files := gitrepo.ParseDiff(diffText).ChangedPaths()
	if len(files) <= MaxFilesPerCommit {
		return nil
	}

	var groups []Group
	matched := make(map[string]bool)

	var testFiles, docFiles, configFiles []string
	for _, f := range files {
		if isTestFile(f) {
			testFiles = append(testFiles, f)
			matched[f] = true
		}
		if isDocFile(f) {
			docFiles = append(docFiles, f)
			matched[f] = true
		}
		if isConfigFile(f) {
			configFiles = append(configFiles, f)
			matched[f] = true
		}
	}
	if len(testFiles) > 0 {
		groups = append(groups, Group{
			Name:     "Tests",
			Files:    testFiles,
			Reason:   "Separate test changes for easier review and CI validation",
			Scope:    "test",
			Priority: 3,
		})
	}
	if len(docFiles) > 0 {
		groups = append(groups, Group{
			Name:     "Documentation",
			Files:    docFiles,
			Reason:   "Documentation updates independent of code changes",
			Scope:    "docs",
			Priority: 4,
		})
	}
	if len(configFiles) > 0 {
		groups = append(groups, Group{
			Name:     "Configuration",
			Files:    configFiles,
			Reason:   "Configuration changes that affect build and deploy",
			Scope:    "config",
			Priority: 2,
		})
	}

	byScope := make(map[string][]string)
	var scopeOrder []string
	for _, f := range files {
		if matched[f] {
			continue
		}
		s := pathScope(f)
		if _, ok := byScope[s]; !ok {
			scopeOrder = append(scopeOrder, s)
		}
		byScope[s] = append(byScope[s], f)
	}
	for _, s := range scopeOrder {
		if len(byScope[s]) < 2 {
			continue
		}
		groups = append(groups, Group{
			Name:     titleCase(s) + " Changes",
			Files:    byScope[s],
			Reason:   fmt.Sprintf("Related %s functionality changes", s),
			Scope:    s,
			Priority: 1,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Priority < groups[j].Priority
	})
	return groups
}

// SuggestCommands returns the git steps to restage and commit each group in
// order, starting with a reset of the staging area.
func SuggestCommands(groups []Group) []Command {
	commands := []Command{{
		Description: "Reset staging area",
		Command:     "git reset",
	}}
	for i, g := range groups {
		quoted := make([]string, len(g.Files))
		for j, f := range g.Files {
			quoted[j] = fmt.Sprintf("%q", f)
		}
		commands = append(commands, Command{
			Description: fmt.Sprintf("Commit %d: %s", i+1, g.Name),
			Command:     fmt.Sprintf("git add %s && git commit", strings.Join(quoted, " ")),
		})
	}
	return commands
}

func isTestFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.Contains(lower, "test") ||
		strings.HasPrefix(path, "tests/") ||
		strings.HasSuffix(path, ".spec.js") ||
		strings.HasSuffix(path, ".spec.ts")
}

func isDocFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(path, ".md") ||
		strings.HasSuffix(path, ".rst") ||
		strings.HasSuffix(path, ".txt") ||
		strings.Contains(lower, "doc") ||
		strings.HasPrefix(path, "docs/")
}

func isConfigFile(path string) bool {
	lower := strings.ToLower(path)
	markers := []string{
		".toml", ".yaml", ".yml", ".json", ".ini", ".cfg",
		"dockerfile", "docker-compose", ".env", "requirements",
		"go.mod", "go.sum", "pom.xml", "build.gradle",
	}
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// pathScope derives a grouping scope from the path: the first directory,
// skipping generic src/lib wrappers, or "root" for top-level files.
func pathScope(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "root"
	}
	if (parts[0] == "src" || parts[0] == "lib") && len(parts) > 2 {
		return parts[1]
	}
	return parts[0]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

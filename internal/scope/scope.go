// Package scope derives conventional-commit scope tags and breaking-change
// signals from a diff's file paths and content. Both detectors are heuristic
// and deterministic; neither is authoritative.
package scope

import (
	"sort"
	"strings"
)

// MaxScopes bounds how many scope tags are suggested.
const MaxScopes = 5

// Rule maps path fragments and extensions to one scope tag. Rules are an
// ordered table: index is the tie-break priority among equally frequent tags.
type Rule struct {
	Tag        string
	Substrings []string
	Extensions []string
}

// Rules is the fixed scope vocabulary.
var Rules = []Rule{
	{Tag: "cli", Substrings: []string{"cli", "cmd/", "command"}},
	{Tag: "api", Substrings: []string{"api", "routes", "endpoint", "controller"}},
	{Tag: "docs", Substrings: []string{"docs/", "doc/", "readme"}, Extensions: []string{".md", ".rst"}},
	{Tag: "auth", Substrings: []string{"auth", "login", "oauth"}},
	{Tag: "database", Substrings: []string{"database", "db/", "/db", "migration", "schema", "models"}},
	{Tag: "ui", Substrings: []string{"component", "view", "frontend"}, Extensions: []string{".tsx", ".jsx", ".vue"}},
	{Tag: "config", Substrings: []string{"config", "settings"}, Extensions: []string{".toml", ".ini", ".cfg"}},
	{Tag: "tests", Substrings: []string{"test", ".spec."}},
	{Tag: "utils", Substrings: []string{"util", "helper"}},
	{Tag: "styles", Substrings: []string{"styles"}, Extensions: []string{".css", ".scss", ".sass", ".less"}},
}

// DetectScopes maps changed file paths to scope tags. Tags are ordered by
// match frequency, ties broken by rule order, and capped at MaxScopes.
// Identical input always yields identical output.
func DetectScopes(changedPaths []string) []string {
	counts := make(map[string]int)
	for _, p := range changedPaths {
		lower := strings.ToLower(p)
		for _, rule := range Rules {
			if ruleMatches(rule, lower) {
				counts[rule.Tag]++
			}
		}
	}
	if len(counts) == 0 {
		return []string{}
	}

	priority := make(map[string]int, len(Rules))
	for i, rule := range Rules {
		priority[rule.Tag] = i
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return priority[tags[i]] < priority[tags[j]]
	})

	if len(tags) > MaxScopes {
		tags = tags[:MaxScopes]
	}
	return tags
}

// DetectScopesFromDiff extracts changed paths from diff headers and runs
// DetectScopes over them.
func DetectScopesFromDiff(diffText string) []string {
	return DetectScopes(changedPathsFromDiff(diffText))
}

func ruleMatches(rule Rule, lowerPath string) bool {
	for _, sub := range rule.Substrings {
		if strings.Contains(lowerPath, sub) {
			return true
		}
	}
	for _, ext := range rule.Extensions {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}
	return false
}

func changedPathsFromDiff(diffText string) []string {
	var paths []string
	for _, line := range strings.Split(diffText, "\n") {
		if !strings.HasPrefix(line, "diff --git ") {
			continue
		}
		if idx := strings.LastIndex(line, " b/"); idx != -1 {
			paths = append(paths, line[idx+3:])
		}
	}
	return paths
}

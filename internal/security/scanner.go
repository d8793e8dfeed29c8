// Package security scans diff text for secrets and sensitive file names
// before anything is sent to an AI provider. Detection is advisory: the
// scanner only reports; callers decide whether to halt, and the default
// policy is fail-closed.
package security

import (
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

// Finding is one detected secret occurrence within a diff.
type Finding struct {
	Category     string
	MaskedSample string
	LineNumber   int // 1-based line number within the diff text
}

var detector = newDetector()

// newDetector builds a gitleaks detector whose rules are the rows of
// SensitivePatterns. Rules with a capture group report group 1 as the
// secret, matching the masking contract of the table.
func newDetector() *detect.Detector {
	rules := make(map[string]config.Rule, len(SensitivePatterns))
	for _, p := range SensitivePatterns {
		group := 0
		if p.Regex.NumSubexp() > 0 {
			group = 1
		}
		id := strings.ToLower(strings.ReplaceAll(p.Category, " ", "-"))
		rules[id] = config.Rule{
			RuleID:      id,
			Description: p.Category,
			Regex:       p.Regex,
			SecretGroup: group,
		}
	}
	return detect.NewDetector(config.Config{Rules: rules})
}

// DetectSensitiveData runs every line of the diff through the detector.
// Each (pattern, line) pair yields at most one finding; the sample is
// masked so the full literal never appears in any output.
func DetectSensitiveData(diffText string) []Finding {
	if diffText == "" {
		return nil
	}
	order := make(map[string]int, len(SensitivePatterns))
	for i, p := range SensitivePatterns {
		order[p.Category] = i
	}
	var findings []Finding
	for i, line := range strings.Split(diffText, "\n") {
		matches := detector.DetectString(line)
		if len(matches) == 0 {
			continue
		}
		// The detector iterates its rule map in arbitrary order; restore
		// table order so reporting stays deterministic.
		sort.SliceStable(matches, func(a, b int) bool {
			return order[matches[a].Description] < order[matches[b].Description]
		})
		seen := make(map[string]bool, len(matches))
		for _, m := range matches {
			if seen[m.RuleID] {
				continue
			}
			seen[m.RuleID] = true
			findings = append(findings, Finding{
				Category:     m.Description,
				MaskedSample: MaskSecret(m.Secret),
				LineNumber:   i + 1,
			})
		}
	}
	return findings
}

// CheckSensitiveFiles extracts changed file paths from diff headers and
// returns those whose basename matches a sensitive filename pattern.
// Matching is case-insensitive and never reads file contents.
func CheckSensitiveFiles(diffText string) []string {
	var flagged []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(diffText, "\n") {
		if !strings.HasPrefix(line, "diff --git ") {
			continue
		}
		idx := strings.LastIndex(line, " b/")
		if idx == -1 {
			continue
		}
		filePath := line[idx+3:]
		if seen[filePath] {
			continue
		}
		base := strings.ToLower(path.Base(filePath))
		for _, pattern := range SensitiveFilePatterns {
			if ok, _ := doublestar.Match(pattern, base); ok {
				flagged = append(flagged, filePath)
				seen[filePath] = true
				break
			}
		}
	}
	return flagged
}

// GroupByCategory buckets findings by category, preserving first-seen
// category order for stable presentation.
func GroupByCategory(findings []Finding) ([]string, map[string][]Finding) {
	var order []string
	groups := make(map[string][]Finding)
	for _, f := range findings {
		if _, ok := groups[f.Category]; !ok {
			order = append(order, f.Category)
		}
		groups[f.Category] = append(groups[f.Category], f)
	}
	return order, groups
}

// MaskSecret hides the middle of a secret, keeping at most a short prefix
// and suffix. The result always contains the mask marker and, for the
// secret lengths the patterns can produce, is strictly shorter than the
// input.
func MaskSecret(s string) string {
	switch {
	case len(s) >= 15:
		return s[:6] + "..." + s[len(s)-4:]
	case len(s) >= 9:
		return s[:4] + "..."
	case len(s) >= 6:
		return s[:2] + "..."
	default:
		return "..."
	}
}

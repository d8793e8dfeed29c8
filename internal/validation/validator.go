// Package validation computes size and shape statistics for a staged diff
// and classifies whether the change is large enough to warrant confirmation.
// Warnings never block generation by themselves; interactive callers confirm,
// non-interactive callers proceed.
package validation

import (
	"fmt"
	"strings"
)

// Thresholds are the configurable size limits for a diff.
type Thresholds struct {
	MaxLines int
	MaxChars int
}

// DefaultThresholds returns the standard limits: 500 changed lines and
// 50,000 characters.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxLines: 500, MaxChars: 50000}
}

// Result is the outcome of size validation. Warnings are advisory.
type Result struct {
	IsValid              bool
	RequiresConfirmation bool
	Warnings             []string
	LineCount            int // changed (+/-) lines, header lines excluded
	CharCount            int
	FileCount            int
}

// Impact summarizes the shape of a diff regardless of size warnings.
type Impact struct {
	FilesChanged int
	Additions    int
	Deletions    int
}

func (i Impact) String() string {
	return fmt.Sprintf("%d file(s) changed, +%d -%d", i.FilesChanged, i.Additions, i.Deletions)
}

// ValidateDiffSize checks the diff against the thresholds. A diff of exactly
// MaxLines changed lines is valid; one more line is not.
func ValidateDiffSize(diffText string, t Thresholds) Result {
	if t.MaxLines <= 0 {
		t.MaxLines = 500
	}
	if t.MaxChars <= 0 {
		t.MaxChars = 50000
	}

	impact := AnalyzeDiffImpact(diffText)
	r := Result{
		IsValid:   true,
		LineCount: impact.Additions + impact.Deletions,
		CharCount: len(diffText),
		FileCount: impact.FilesChanged,
	}

	if r.LineCount > t.MaxLines {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("diff is very large: %d changed lines (limit %d)", r.LineCount, t.MaxLines))
	}
	if r.CharCount > t.MaxChars {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("diff is very large: %d characters (limit %d)", r.CharCount, t.MaxChars))
	}
	if len(r.Warnings) > 0 {
		r.IsValid = false
		r.RequiresConfirmation = true
	}
	return r
}

// AnalyzeDiffImpact counts changed files, additions, and deletions. It is
// computed for every diff, warnings or not, so callers always have a compact
// statistics summary to display.
func AnalyzeDiffImpact(diffText string) Impact {
	var impact Impact
	if diffText == "" {
		return impact
	}
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			impact.FilesChanged++
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			impact.Additions++
		case strings.HasPrefix(line, "-"):
			impact.Deletions++
		}
	}
	return impact
}

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func diffWithLines(n int) string {
	var b strings.Builder
	b.WriteString("diff --git a/big.go b/big.go\n")
	b.WriteString("--- a/big.go\n")
	b.WriteString("+++ b/big.go\n")
	for i := 0; i < n; i++ {
		b.WriteString("+x\n")
	}
	return b.String()
}

func TestValidateDiffSizeAtLimit(t *testing.T) {
	r := ValidateDiffSize(diffWithLines(500), DefaultThresholds())
	assert.True(t, r.IsValid)
	assert.False(t, r.RequiresConfirmation)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 500, r.LineCount)
}

func TestValidateDiffSizeOneOverLimit(t *testing.T) {
	r := ValidateDiffSize(diffWithLines(501), DefaultThresholds())
	assert.False(t, r.IsValid)
	assert.True(t, r.RequiresConfirmation)
	assert.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "501 changed lines")
}

func TestValidateDiffSizeCharLimit(t *testing.T) {
	diff := "diff --git a/a b/a\n+" + strings.Repeat("y", 60000)
	r := ValidateDiffSize(diff, DefaultThresholds())
	assert.False(t, r.IsValid)
	assert.True(t, r.RequiresConfirmation)
	assert.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "characters")
}

func TestValidateDiffSizeZeroThresholdsFallBack(t *testing.T) {
	r := ValidateDiffSize(diffWithLines(10), Thresholds{})
	assert.True(t, r.IsValid)
}

func TestAnalyzeDiffImpact(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/one.go b/one.go",
		"--- a/one.go",
		"+++ b/one.go",
		"+added",
		"+added",
		"-removed",
		"diff --git a/two.go b/two.go",
		"+more",
	}, "\n")
	impact := AnalyzeDiffImpact(diff)
	assert.Equal(t, 2, impact.FilesChanged)
	assert.Equal(t, 3, impact.Additions)
	assert.Equal(t, 1, impact.Deletions)
	assert.Equal(t, "2 file(s) changed, +3 -1", impact.String())
}

func TestAnalyzeDiffImpactEmpty(t *testing.T) {
	assert.Equal(t, Impact{}, AnalyzeDiffImpact(""))
}

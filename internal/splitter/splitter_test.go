package splitter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffFor(paths ...string) string {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n+change\n", p, p)
	}
	return b.String()
}

func TestAnalyzeSmallDiffNeedsNoSplit(t *testing.T) {
	diff := diffFor("a.go", "b.go", "c.go", "d.go", "e.go")
	assert.Nil(t, Analyze(diff))
}

func TestAnalyzeGroupsByKind(t *testing.T) {
	diff := diffFor(
		"internal/auth/session.go",
		"internal/auth/token.go",
		"internal/auth/session_test.go",
		"docs/auth.md",
		"config.yaml",
		"internal/api/routes.go",
	)
	groups := Analyze(diff)
	require.NotEmpty(t, groups)

	byName := make(map[string]Group)
	for _, g := range groups {
		byName[g.Name] = g
	}

	tests, ok := byName["Tests"]
	require.True(t, ok)
	assert.Equal(t, []string{"internal/auth/session_test.go"}, tests.Files)
	assert.Equal(t, "test", tests.Scope)

	docsGroup, ok := byName["Documentation"]
	require.True(t, ok)
	assert.Contains(t, docsGroup.Files, "docs/auth.md")

	configGroup, ok := byName["Configuration"]
	require.True(t, ok)
	assert.Contains(t, configGroup.Files, "config.yaml")

	internalGroup, ok := byName["Internal Changes"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"internal/auth/session.go",
		"internal/auth/token.go",
		"internal/api/routes.go",
	}, internalGroup.Files)
}

func TestAnalyzePriorityOrder(t *testing.T) {
	diff := diffFor(
		"src/core/a.go",
		"src/core/b.go",
		"tests/a_test.go",
		"docs/readme.md",
		"settings.toml",
		"src/core/c.go",
	)
	groups := Analyze(diff)
	require.GreaterOrEqual(t, len(groups), 4)
	for i := 1; i < len(groups); i++ {
		assert.GreaterOrEqual(t, groups[i].Priority, groups[i-1].Priority)
	}
	// Scope groups lead, then config, tests, docs.
	assert.Equal(t, 1, groups[0].Priority)
	assert.Equal(t, "Documentation", groups[len(groups)-1].Name)
}

func TestAnalyzeSkipsSingletonScopes(t *testing.T) {
	diff := diffFor(
		"alpha/one.go",
		"beta/one.go",
		"gamma/one.go",
		"delta/one.go",
		"epsilon/one.go",
		"zeta/one.go",
	)
	groups := Analyze(diff)
	assert.Empty(t, groups, "six unrelated files produce no group of two or more")
}

func TestSuggestCommands(t *testing.T) {
	groups := []Group{
		{Name: "Core Changes", Files: []string{"src/a.go", "src/b with space.go"}},
		{Name: "Tests", Files: []string{"a_test.go"}},
	}
	commands := SuggestCommands(groups)
	require.Len(t, commands, 3)
	assert.Equal(t, "git reset", commands[0].Command)
	assert.Contains(t, commands[1].Description, "Commit 1: Core Changes")
	assert.Contains(t, commands[1].Command, `"src/b with space.go"`)
	assert.True(t, strings.HasSuffix(commands[1].Command, "&& git commit"))
}

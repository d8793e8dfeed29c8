package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectScopesFrequencyOrder(t *testing.T) {
	paths := []string{
		"cmd/root.go",
		"cmd/generate.go",
		"config/settings.toml",
	}
	scopes := DetectScopes(paths)
	assert.Equal(t, []string{"cli", "config"}, scopes)
}

func TestDetectScopesTieBreaksByRuleOrder(t *testing.T) {
	// One cli match and one config match: cli wins the tie because its
	// rule comes first in the table.
	scopes := DetectScopes([]string{"cmd/main.go", "settings.py"})
	assert.Equal(t, []string{"cli", "config"}, scopes)
}

func TestDetectScopesCap(t *testing.T) {
	paths := []string{
		"cmd/a.go",
		"api/routes.go",
		"docs/guide.md",
		"auth/login.go",
		"db/migration.sql",
		"components/button.tsx",
		"config.toml",
	}
	scopes := DetectScopes(paths)
	assert.Len(t, scopes, MaxScopes)
}

func TestDetectScopesNoMatch(t *testing.T) {
	assert.Empty(t, DetectScopes([]string{"main.go", "LICENSE"}))
	assert.Empty(t, DetectScopes(nil))
}

func TestDetectScopesDeterministic(t *testing.T) {
	paths := []string{"api/users.go", "auth/session.go", "db/schema.sql"}
	first := DetectScopes(paths)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectScopes(paths))
	}
}

func TestDetectScopesFromDiff(t *testing.T) {
	diff := "diff --git a/cmd/run.go b/cmd/run.go\n+package cmd\n" +
		"diff --git a/docs/usage.md b/docs/usage.md\n+# Usage\n"
	assert.Equal(t, []string{"cli", "docs"}, DetectScopesFromDiff(diff))
}

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcommit/internal/config"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c, err := New(t.TempDir())
	require.NoError(t, err)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestPutGet(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Put("key1", "feat: add thing", "gpt-4o"))

	msg, ok := c.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "feat: add thing", msg)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t)
	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestGetExpired(t *testing.T) {
	c, now := newTestCache(t)
	require.NoError(t, c.Put("key1", "msg", "m"))

	*now = now.Add(TTL + time.Minute)
	_, ok := c.Get("key1")
	assert.False(t, ok)

	// The expired entry is removed on read.
	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestGetJustBeforeExpiry(t *testing.T) {
	c, now := newTestCache(t)
	require.NoError(t, c.Put("key1", "msg", "m"))

	*now = now.Add(TTL - time.Minute)
	_, ok := c.Get("key1")
	assert.True(t, ok)
}

func TestGetCorruptEntry(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "bad.json"), []byte("{not json"), 0o600))
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Put("a", "1", "m"))
	require.NoError(t, c.Put("b", "2", "m"))

	removed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestClearExpired(t *testing.T) {
	c, now := newTestCache(t)
	require.NoError(t, c.Put("old", "1", "m"))

	*now = now.Add(TTL + time.Hour)
	require.NoError(t, c.Put("fresh", "2", "m"))

	removed, err := c.ClearExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
	_, ok = c.Get("old")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	c, now := newTestCache(t)
	require.NoError(t, c.Put("old", "1", "m"))
	*now = now.Add(TTL + time.Hour)
	require.NoError(t, c.Put("fresh", "2", "m"))

	stats, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.Expired)
	assert.Positive(t, stats.TotalBytes)
}

func TestFingerprintStable(t *testing.T) {
	tpl := config.TemplateConfig{MaxSubjectLength: 50, ConventionalCommits: true}
	a, err := Fingerprint("diff body", "openai/gpt-4o", tpl)
	require.NoError(t, err)
	b, err := Fingerprint("diff body", "openai/gpt-4o", tpl)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintSensitivity(t *testing.T) {
	tpl := config.TemplateConfig{MaxSubjectLength: 50}
	base, err := Fingerprint("diff body", "openai/gpt-4o", tpl)
	require.NoError(t, err)

	diffChanged, err := Fingerprint("diff body changed", "openai/gpt-4o", tpl)
	require.NoError(t, err)
	assert.NotEqual(t, base, diffChanged)

	modelChanged, err := Fingerprint("diff body", "anthropic/claude-sonnet-4-0", tpl)
	require.NoError(t, err)
	assert.NotEqual(t, base, modelChanged)

	tplChanged := tpl
	tplChanged.MaxSubjectLength = 72
	configChanged, err := Fingerprint("diff body", "openai/gpt-4o", tplChanged)
	require.NoError(t, err)
	assert.NotEqual(t, base, configChanged)
}

func TestFingerprintIgnoresCustomPrefixOrder(t *testing.T) {
	a := config.TemplateConfig{CustomPrefixes: map[string]string{"x": "1", "y": "2", "z": "3"}}
	b := config.TemplateConfig{CustomPrefixes: map[string]string{"z": "3", "x": "1", "y": "2"}}
	fa, err := Fingerprint("d", "openai/gpt-4o", a)
	require.NoError(t, err)
	fb, err := Fingerprint("d", "openai/gpt-4o", b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

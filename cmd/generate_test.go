package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/smartcommit/internal/generator"
)

func captureOptions(t *testing.T, args ...string) generator.Options {
	t.Helper()
	var got generator.Options
	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "generate",
			Flags: generateFlags(),
			Action: func(c *cli.Context) error {
				got = generateOptions(c)
				return nil
			},
		}},
	}
	argv := append([]string{"smartcommit", "generate"}, args...)
	require.NoError(t, app.Run(argv))
	return got
}

func TestGenerateOptionsDefaultsPrompt(t *testing.T) {
	opts := captureOptions(t)
	assert.NotNil(t, opts.ConfirmSecrets)
	assert.NotNil(t, opts.ConfirmLargeDiff)
}

func TestGenerateOptionsNonInteractive(t *testing.T) {
	opts := captureOptions(t, "--no-interactive", "-m", "scripted run")

	// No prompts: secrets must still halt, size warnings must not block.
	assert.Nil(t, opts.ConfirmSecrets)
	assert.Nil(t, opts.ConfirmLargeDiff)
	assert.Equal(t, "scripted run", opts.UserMessage)
}

func TestGenerateOptionsFlagPassthrough(t *testing.T) {
	opts := captureOptions(t, "--privacy", "--no-cache")
	assert.True(t, opts.Privacy)
	assert.True(t, opts.NoCache)
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcommit/internal/provider"
)

func fastConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	transient := &provider.Error{Provider: "openai", Kind: provider.KindNetwork, Err: errors.New("connection reset")}
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnAuthError(t *testing.T) {
	calls := 0
	authErr := &provider.Error{Provider: "openai", Kind: provider.KindAuth, Err: errors.New("401")}
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return authErr
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, authErr)
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	transient := &provider.Error{Kind: provider.KindQuota, Err: errors.New("429")}
	err := Do(context.Background(), fastConfig(), func() error {
		calls++
		return transient
	})
	require.Error(t, err)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	transient := &provider.Error{Kind: provider.KindNetwork, Err: errors.New("reset")}
	calls := 0
	cfg := fastConfig()
	cfg.BaseDelay = time.Second
	err := Do(ctx, cfg, func() error {
		calls++
		cancel()
		return transient
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(errors.New("plain error")))
	assert.False(t, Retryable(nil))
	assert.True(t, Retryable(&provider.Error{Kind: provider.KindTimeout}))
	assert.False(t, Retryable(&provider.Error{Kind: provider.KindAuth}))
}

func TestDelayForCapsAtMax(t *testing.T) {
	cfg := Config{BaseDelay: time.Second, MaxDelay: 2 * time.Second, Multiplier: 10}
	assert.LessOrEqual(t, delayFor(cfg, 5), 2*time.Second)
}

func TestLLMConfig(t *testing.T) {
	cfg := LLMConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.BaseDelay)
	assert.True(t, cfg.Jitter)
}

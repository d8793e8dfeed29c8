package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartcommit/internal/provider"
)

// Config controls the exponential backoff schedule.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     bool
}

// LLMConfig returns a schedule tuned for model API calls, which are slow
// and rate limited.
func LLMConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		MaxDelay:   60 * time.Second,
		Multiplier: 2.5,
		Jitter:     true,
	}
}

// Do runs op, retrying retryable failures with exponential backoff. It
// returns the first success or the last error. Non-retryable errors, such
// as auth failures, return immediately.
func Do(ctx context.Context, cfg Config, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debug().
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxRetries+1).
				Msg("retrying operation")
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			log.Debug().Err(lastErr).Msg("error is not retryable, giving up")
			return lastErr
		}
		if attempt >= cfg.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := delayFor(cfg, attempt)
		log.Debug().
			Err(lastErr).
			Dur("delay", delay).
			Msg("operation failed, backing off")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// Retryable reports whether an error is worth retrying. Provider errors
// carry their own classification; anything else is treated as permanent.
func Retryable(err error) bool {
	var perr *provider.Error
	if errors.As(err, &perr) {
		return perr.Retryable()
	}
	return false
}

func delayFor(cfg Config, attempt int) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		jitterRange := delay * 0.1
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
		if delay < 0 {
			delay = float64(cfg.BaseDelay)
		}
	}
	return time.Duration(delay)
}

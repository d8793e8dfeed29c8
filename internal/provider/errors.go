package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a provider failure so the CLI can decide whether to
// retry and what to tell the user.
type ErrorKind string

const (
	KindAuth    ErrorKind = "auth"
	KindQuota   ErrorKind = "quota"
	KindTimeout ErrorKind = "timeout"
	KindNetwork ErrorKind = "network"
	KindUnknown ErrorKind = "unknown"
)

// Error wraps a failure from the underlying model client with its provider
// name and a classified kind.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s provider error (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient. Auth failures never
// are; quota, timeout, and network failures usually clear on retry.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindQuota, KindTimeout, KindNetwork:
		return true
	default:
		return false
	}
}

// Classify maps an error from the model client onto an ErrorKind using the
// same string heuristics the APIs themselves are inconsistent about.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "authentication"):
		return KindAuth
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") || strings.Contains(msg, "overloaded"):
		return KindQuota
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") || strings.Contains(msg, "network") ||
		strings.Contains(msg, "eof"):
		return KindNetwork
	default:
		return KindUnknown
	}
}

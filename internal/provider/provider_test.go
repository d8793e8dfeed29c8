package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModel(t *testing.T) {
	cases := []struct {
		in       string
		provider Name
		model    string
	}{
		{"openai/gpt-4o", NameOpenAI, "gpt-4o"},
		{"anthropic/claude-sonnet-4-0", NameAnthropic, "claude-sonnet-4-0"},
		{"ollama/llama3", NameOllama, "llama3"},
		{"gemini/gemini-2.5-flash", NameGemini, "gemini-2.5-flash"},
	}
	for _, tc := range cases {
		p, m, err := ParseModel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.provider, p)
		assert.Equal(t, tc.model, m)
	}
}

func TestParseModelWithSlashInModel(t *testing.T) {
	// Only the first slash separates provider from model.
	p, m, err := ParseModel("ollama/library/llama3")
	require.NoError(t, err)
	assert.Equal(t, NameOllama, p)
	assert.Equal(t, "library/llama3", m)
}

func TestParseModelRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "gpt-4o", "openai/", "/gpt-4o", "unknownvendor/model"} {
		_, _, err := ParseModel(in)
		assert.Error(t, err, in)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{errors.New("401 Unauthorized"), KindAuth},
		{errors.New("invalid api key provided"), KindAuth},
		{errors.New("429 Too Many Requests"), KindQuota},
		{errors.New("quota exceeded for project"), KindQuota},
		{errors.New("request timed out"), KindTimeout},
		{context.DeadlineExceeded, KindTimeout},
		{errors.New("dial tcp: connection refused"), KindNetwork},
		{errors.New("no such host"), KindNetwork},
		{errors.New("something odd"), KindUnknown},
		{nil, KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, Classify(tc.err), "%v", tc.err)
	}
}

func TestErrorRetryable(t *testing.T) {
	assert.False(t, (&Error{Kind: KindAuth}).Retryable())
	assert.False(t, (&Error{Kind: KindUnknown}).Retryable())
	assert.True(t, (&Error{Kind: KindQuota}).Retryable())
	assert.True(t, (&Error{Kind: KindTimeout}).Retryable())
	assert.True(t, (&Error{Kind: KindNetwork}).Retryable())
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := &Error{Provider: "openai", Kind: KindNetwork, Err: inner}
	assert.ErrorIs(t, fmt.Errorf("calling model: %w", wrapped), inner)
	assert.Contains(t, wrapped.Error(), "openai")
	assert.Contains(t, wrapped.Error(), "network")
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"feat: plain message", "feat: plain message"},
		{"```\nfeat: fenced\n```", "feat: fenced"},
		{"```text\nfeat: tagged fence\n```", "feat: tagged fence"},
		{"  \n```\nfeat: padded\n```\n  ", "feat: padded"},
		{"```\nfeat: subject\n\nbody line\n```", "feat: subject\n\nbody line"},
		{"```\nunterminated", "unterminated"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripFences(tc.in))
	}
}

package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Name identifies a supported model backend.
type Name string

const (
	NameOpenAI    Name = "openai"
	NameAnthropic Name = "anthropic"
	NameGemini    Name = "gemini"
	NameCohere    Name = "cohere"
	NameOllama    Name = "ollama"
)

// Options configures a client. Model is the bare model name, already split
// off from the provider prefix.
type Options struct {
	Provider Name
	Model    string
	APIKey   string
	BaseURL  string
}

// Client wraps a langchaingo model behind a single completion method.
type Client struct {
	name  Name
	model string
	llm   llms.Model
}

// ParseModel splits a "provider/model" identifier. Everything upstream
// treats the identifier as opaque; this is the only place the format is
// interpreted.
func ParseModel(identifier string) (Name, string, error) {
	providerPart, modelPart, found := strings.Cut(identifier, "/")
	if !found || providerPart == "" || modelPart == "" {
		return "", "", fmt.Errorf("invalid model identifier %q: expected provider/model", identifier)
	}
	switch Name(providerPart) {
	case NameOpenAI, NameAnthropic, NameGemini, NameCohere, NameOllama:
		return Name(providerPart), modelPart, nil
	default:
		return "", "", fmt.Errorf("unsupported provider %q in model identifier %q", providerPart, identifier)
	}
}

// New creates a client for the given provider.
func New(ctx context.Context, opts Options) (*Client, error) {
	log.Debug().
		Str("provider", string(opts.Provider)).
		Str("model", opts.Model).
		Msg("creating model client")

	var llm llms.Model
	var err error
	switch opts.Provider {
	case NameOpenAI:
		llm, err = newOpenAI(opts)
	case NameAnthropic:
		llm, err = anthropic.New(
			anthropic.WithToken(opts.APIKey),
			anthropic.WithModel(opts.Model),
		)
	case NameGemini:
		llm, err = googleai.New(ctx, googleai.WithAPIKey(opts.APIKey))
	case NameCohere:
		llm, err = newCohere(opts)
	case NameOllama:
		llm, err = newOllama(opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
	if err != nil {
		return nil, &Error{Provider: string(opts.Provider), Kind: Classify(err), Err: err}
	}
	return &Client{name: opts.Provider, model: opts.Model, llm: llm}, nil
}

// Complete sends the prompt and returns the raw model output.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	callOpts := []llms.CallOption{
		llms.WithTemperature(temperature),
	}
	if maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(maxTokens))
	}
	// Gemini picks its model per call rather than at construction.
	if c.name == NameGemini {
		callOpts = append(callOpts, llms.WithModel(c.model))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, callOpts...)
	if err != nil {
		return "", &Error{Provider: string(c.name), Kind: Classify(err), Err: err}
	}
	return out, nil
}

// Model returns the bare model name in use.
func (c *Client) Model() string { return c.model }

// StripFences removes a markdown code fence the model may have wrapped the
// commit message in, plus surrounding whitespace.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	if strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func newOpenAI(opts Options) (llms.Model, error) {
	o := []openai.Option{
		openai.WithModel(opts.Model),
		openai.WithToken(opts.APIKey),
	}
	if opts.BaseURL != "" {
		o = append(o, openai.WithBaseURL(opts.BaseURL))
	}
	return openai.New(o...)
}

func newCohere(opts Options) (llms.Model, error) {
	o := []cohere.Option{
		cohere.WithToken(opts.APIKey),
		cohere.WithModel(opts.Model),
	}
	if opts.BaseURL != "" {
		o = append(o, cohere.WithBaseURL(opts.BaseURL))
	}
	return cohere.New(o...)
}

func newOllama(opts Options) (llms.Model, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(opts.Model),
	)
}

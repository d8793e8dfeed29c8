package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/smartcommit/internal/config"
)

// promptConfig is the subset of template settings that changes the prompt
// text. Cosmetic settings stay out so toggling them does not invalidate
// cached messages needlessly.
type promptConfig struct {
	MaxSubjectLength    int               `json:"max_subject_length"`
	IncludeBody         bool              `json:"include_body"`
	IncludeReasoning    bool              `json:"include_reasoning"`
	ConventionalCommits bool              `json:"conventional_commits"`
	CustomPrefixes      map[string]string `json:"custom_prefixes"`
	MaxRecentCommits    int               `json:"max_recent_commits"`
	ExampleFormats      []string          `json:"example_formats"`
}

// Fingerprint derives the cache key for a generation request. The key is a
// SHA-256 over the staged diff, the model identifier, and a canonical JSON
// (RFC 8785) encoding of the prompt-affecting template settings, so
// semantically identical configs always hash the same regardless of field
// order or formatting in the source TOML.
func Fingerprint(diffText, model string, tpl config.TemplateConfig) (string, error) {
	raw, err := json.Marshal(promptConfig{
		MaxSubjectLength:    tpl.MaxSubjectLength,
		IncludeBody:         tpl.IncludeBody,
		IncludeReasoning:    tpl.IncludeReasoning,
		ConventionalCommits: tpl.ConventionalCommits,
		CustomPrefixes:      tpl.CustomPrefixes,
		MaxRecentCommits:    tpl.MaxRecentCommits,
		ExampleFormats:      tpl.ExampleFormats,
	})
	if err != nil {
		return "", fmt.Errorf("encoding template config: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalizing template config: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(diffText))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Error reports an out-of-range or malformed configuration value. It names
// the offending field, the accepted range, and the config files that were
// loaded so the user can locate the bad value.
type Error struct {
	Field string
	Value interface{}
	Range string
	Paths []string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s = %v (valid: %s)", e.Field, e.Value, e.Range)
	if len(e.Paths) > 0 {
		msg += " in " + strings.Join(e.Paths, ", ")
	}
	return msg
}

// Validate enforces the configuration contract. It runs before any repository
// or network I/O; downstream components assume these bounds hold.
func Validate(cfg *GlobalConfig, paths []string) error {
	if cfg.AI.Model == "" {
		return &Error{Field: "ai.model", Value: cfg.AI.Model, Range: "non-empty provider/model identifier", Paths: paths}
	}
	if cfg.AI.MaxTokens < 50 || cfg.AI.MaxTokens > 100000 {
		return &Error{Field: "ai.max_tokens", Value: cfg.AI.MaxTokens, Range: "50-100000", Paths: paths}
	}
	if cfg.AI.Temperature < 0.0 || cfg.AI.Temperature > 2.0 {
		return &Error{Field: "ai.temperature", Value: cfg.AI.Temperature, Range: "0.0-2.0", Paths: paths}
	}
	if cfg.Template.MaxSubjectLength < 10 || cfg.Template.MaxSubjectLength > 200 {
		return &Error{Field: "template.max_subject_length", Value: cfg.Template.MaxSubjectLength, Range: "10-200", Paths: paths}
	}
	if cfg.Template.MaxRecentCommits < 0 || cfg.Template.MaxRecentCommits > 50 {
		return &Error{Field: "template.max_recent_commits", Value: cfg.Template.MaxRecentCommits, Range: "0-50", Paths: paths}
	}
	for name, repo := range cfg.Repositories {
		if len(repo.ContextFiles) > 20 {
			return &Error{
				Field: fmt.Sprintf("repositories.%s.context_files", name),
				Value: len(repo.ContextFiles),
				Range: "at most 20 entries",
				Paths: paths,
			}
		}
		if repo.AbsolutePath != "" && !filepath.IsAbs(repo.AbsolutePath) {
			return &Error{
				Field: fmt.Sprintf("repositories.%s.absolute_path", name),
				Value: repo.AbsolutePath,
				Range: "absolute filesystem path",
				Paths: paths,
			}
		}
	}
	return nil
}

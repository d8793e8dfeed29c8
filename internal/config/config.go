package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultMaxContextFileSize bounds context file content embedded in the
	// prompt. Truncation is by character count, not tokens; this is a known
	// approximation kept for stable cache keys.
	DefaultMaxContextFileSize = 10000

	globalConfigName = "config.toml"
	localConfigName  = ".smart-commit.toml"
	envPrefix        = "SMART_COMMIT_"
)

// Manager resolves, loads, and saves configuration files.
type Manager struct {
	globalPath string
	localPath  string
}

// NewManager creates a manager with the standard global and local paths.
func NewManager() *Manager {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Manager{
		globalPath: filepath.Join(home, ".config", "smart-commit", globalConfigName),
		localPath:  filepath.Join(cwd, localConfigName),
	}
}

// GlobalPath returns the global configuration file path.
func (m *Manager) GlobalPath() string { return m.globalPath }

// LocalPath returns the repository-local configuration file path.
func (m *Manager) LocalPath() string { return m.localPath }

// Path returns the config path for the requested scope.
func (m *Manager) Path(local bool) string {
	if local {
		return m.localPath
	}
	return m.globalPath
}

// Load merges defaults, the global file, the local file, and environment
// variables (SMART_COMMIT_ prefix), then validates the result. Validation
// failures are returned before any other I/O happens downstream.
func (m *Manager) Load() (*GlobalConfig, error) {
	k := koanf.New(".")

	// Defaults mirror the sample config written by Init.
	k.Load(confmap.Provider(map[string]interface{}{
		"ai.model":                      "openai/gpt-4o",
		"ai.max_tokens":                 500,
		"ai.temperature":                0.1,
		"template.max_subject_length":   50,
		"template.include_body":         true,
		"template.include_reasoning":    true,
		"template.conventional_commits": true,
		"template.max_recent_commits":   10,
		"cache.enabled":                 true,
		"validation.max_diff_lines":     500,
		"validation.max_diff_chars":     50000,
	}, "."), nil)

	// Global file first, local file overrides it.
	for _, path := range []string{m.globalPath, m.localPath} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}
	}

	k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)

	var cfg GlobalConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Cache.Dir = filepath.Join(home, ".cache", "smart-commit")
	}

	if err := Validate(&cfg, m.resolvedPaths()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes a sample configuration file for the requested scope.
func (m *Manager) Init(local bool) error {
	path := m.Path(local)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	sample := `# smart-commit configuration

[ai]
model = "openai/gpt-4o"
api_key = "your-api-key"
max_tokens = 500
temperature = 0.1

[template]
max_subject_length = 50
include_body = true
include_reasoning = true
conventional_commits = true
max_recent_commits = 10

[cache]
enabled = true
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// resolvedPaths lists config files that actually exist, for error reporting.
func (m *Manager) resolvedPaths() []string {
	var paths []string
	for _, p := range []string{m.globalPath, m.localPath} {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

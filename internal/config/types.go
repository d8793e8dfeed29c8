package config

// AIConfig configures the AI provider used for message generation.
type AIConfig struct {
	// Model is an opaque provider/model identifier, e.g. "openai/gpt-4o".
	// The generation core never branches on it; only the provider layer does.
	Model       string  `koanf:"model" json:"model"`
	APIKey      string  `koanf:"api_key" json:"api_key"`
	BaseURL     string  `koanf:"base_url" json:"base_url"`
	MaxTokens   int     `koanf:"max_tokens" json:"max_tokens"`
	Temperature float64 `koanf:"temperature" json:"temperature"`
}

// TemplateConfig configures commit message templates and prompt content.
type TemplateConfig struct {
	MaxSubjectLength    int               `koanf:"max_subject_length" json:"max_subject_length"`
	IncludeBody         bool              `koanf:"include_body" json:"include_body"`
	IncludeReasoning    bool              `koanf:"include_reasoning" json:"include_reasoning"`
	ConventionalCommits bool              `koanf:"conventional_commits" json:"conventional_commits"`
	CustomPrefixes      map[string]string `koanf:"custom_prefixes" json:"custom_prefixes"`
	MaxRecentCommits    int               `koanf:"max_recent_commits" json:"max_recent_commits"`
	ExampleFormats      []string          `koanf:"example_formats" json:"example_formats"`
}

// RepositoryConfig holds repository-specific settings keyed by repo name.
type RepositoryConfig struct {
	Name               string            `koanf:"name" json:"name"`
	Description        string            `koanf:"description" json:"description"`
	AbsolutePath       string            `koanf:"absolute_path" json:"absolute_path"`
	TechStack          []string          `koanf:"tech_stack" json:"tech_stack"`
	CommitConventions  map[string]string `koanf:"commit_conventions" json:"commit_conventions"`
	IgnorePatterns     []string          `koanf:"ignore_patterns" json:"ignore_patterns"`
	ContextFiles       []string          `koanf:"context_files" json:"context_files"`
	MaxContextFileSize int               `koanf:"max_context_file_size" json:"max_context_file_size"`
}

// CacheConfig configures the local response cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" json:"dir"`
}

// ValidationConfig holds diff-size thresholds.
type ValidationConfig struct {
	MaxDiffLines int `koanf:"max_diff_lines" json:"max_diff_lines"`
	MaxDiffChars int `koanf:"max_diff_chars" json:"max_diff_chars"`
}

// GlobalConfig is the fully merged configuration for one invocation.
type GlobalConfig struct {
	AI           AIConfig                    `koanf:"ai"`
	Template     TemplateConfig              `koanf:"template"`
	Cache        CacheConfig                 `koanf:"cache"`
	Validation   ValidationConfig            `koanf:"validation"`
	Repositories map[string]RepositoryConfig `koanf:"repositories"`
}

// RepositoryFor returns the repository-specific config for the given repo
// name, or a zero value when none is configured.
func (c *GlobalConfig) RepositoryFor(name string) (RepositoryConfig, bool) {
	rc, ok := c.Repositories[name]
	return rc, ok
}

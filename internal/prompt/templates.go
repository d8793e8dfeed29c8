package prompt

// Template text for the generation prompt. Kept as constants so the prompt
// is deterministic for identical inputs, which the cache key depends on.

const (
	// SystemRole defines the AI role for commit message generation.
	SystemRole = `You are an expert software engineer specializing in writing clear, meaningful git commit messages.
Analyze the provided git diff and repository context to generate a commit message that accurately reflects
the changes and follows best practices.`

	// ConventionalCommitRules is appended when conventional commits are enabled.
	ConventionalCommitRules = `Use the conventional commit format: <type>(<scope>): <subject>
Standard types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert.`

	// OutputInstruction closes every prompt.
	OutputInstruction = `*IMPORTANT: Your output should only contain the commit message, nothing else.*`
)

// Section headers, in the fixed order they appear in the prompt.
const (
	ContextHeader  = "**Repository Context:**"
	CommitsHeader  = "**Recent Commits"
	SignalsHeader  = "**Change Analysis:**"
	DiffHeader     = "**Git Diff:**"
	UserHeader     = "**Additional Context:**"
	ExamplesHeader = "**Example Formats of Commit Messages (each separated in its own code block):**"
)

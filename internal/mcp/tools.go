package mcp

import "encoding/json"

// Tool describes one callable tool in the listing returned by tools/list.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

func toolList() []Tool {
	return []Tool{
		{
			Name:        "analyze_repository",
			Description: "Analyze repository structure and context",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"path": {
						"type": "string",
						"description": "Repository path (optional, defaults to current directory)"
					}
				}
			}`),
		},
		{
			Name:        "generate_commit_message",
			Description: "Generate AI-powered commit message for staged changes",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"additional_context": {
						"type": "string",
						"description": "Additional context for commit message generation"
					},
					"repository_path": {
						"type": "string",
						"description": "Repository path (optional)"
					}
				}
			}`),
		},
		{
			Name:        "get_staged_changes",
			Description: "Get current staged changes in git diff format",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"repository_path": {
						"type": "string",
						"description": "Repository path (optional)"
					}
				}
			}`),
		},
		{
			Name:        "cache_stats",
			Description: "Report commit message cache statistics",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	}
}

package gitrepo

import (
	"strings"
)

// FileChange describes a single changed file within a diff.
type FileChange struct {
	Path      string
	Additions int
	Deletions int
	Status    string // "added", "deleted", "renamed", "modified"
}

// DiffPayload is the parsed form of one staged diff. It is derived once and
// read-only downstream.
type DiffPayload struct {
	RawText        string
	Files          []FileChange
	TotalAdditions int
	TotalDeletions int
}

// ChangedPaths returns the paths of all changed files in diff order.
func (d *DiffPayload) ChangedPaths() []string {
	paths := make([]string, 0, len(d.Files))
	for _, f := range d.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// ParseDiff parses unified git diff output into a DiffPayload. Lines that do
// not belong to a recognized file section are ignored; a malformed diff
// yields a payload with whatever could be extracted.
func ParseDiff(raw string) *DiffPayload {
	payload := &DiffPayload{RawText: raw}
	if raw == "" {
		return payload
	}

	var current *FileChange
	flush := func() {
		if current != nil {
			payload.Files = append(payload.Files, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			path := extractDiffPath(line)
			if path == "" {
				continue
			}
			current = &FileChange{Path: path, Status: "modified"}
		case current == nil:
			continue
		case strings.HasPrefix(line, "new file mode"):
			current.Status = "added"
		case strings.HasPrefix(line, "deleted file mode"):
			current.Status = "deleted"
		case strings.HasPrefix(line, "rename from "):
			current.Status = "renamed"
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// header lines, not content
		case strings.HasPrefix(line, "+"):
			current.Additions++
			payload.TotalAdditions++
		case strings.HasPrefix(line, "-"):
			current.Deletions++
			payload.TotalDeletions++
		}
	}
	flush()
	return payload
}

// extractDiffPath pulls the post-image path out of a "diff --git a/x b/x"
// header. Paths containing spaces are handled by anchoring on " b/".
func extractDiffPath(header string) string {
	idx := strings.LastIndex(header, " b/")
	if idx == -1 {
		return ""
	}
	return header[idx+3:]
}

package scope

import (
	"regexp"
	"strings"
)

// Signal is one heuristic breaking-change indication. The detectors both
// over- and under-report; signals are advisory input for the prompt, never
// a gate.
type Signal struct {
	Kind     string
	Location string // file path the signal was found in
	Snippet  string
}

var (
	funcDefRe   = regexp.MustCompile(`(?:^|\s)(?:def|func|function)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	typeDefRe   = regexp.MustCompile(`(?:^|\s)(?:class|interface|struct|type)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	endpointRe  = regexp.MustCompile(`@\w+\.(?:get|post|put|delete|patch|route)\s*\(|\.route\s*\(|(?:GET|POST|PUT|DELETE|PATCH)\s+/\S`)
	schemaRe    = regexp.MustCompile(`(?i)(?:CREATE|ALTER|DROP)\s+TABLE`)
	versionRe   = regexp.MustCompile(`[=><^~]=?\s*v?\d+\.\d+`)
	depFileRe   = regexp.MustCompile(`(?i)(?:requirements.*\.txt|package\.json|go\.mod|cargo\.toml|pom\.xml|build\.gradle|gemfile|pipfile)$`)
	privateName = regexp.MustCompile(`^_`)
)

// DetectBreakingChanges scans a unified diff for hints that the change may
// require a semantic-version-breaking note: removed or re-signed functions,
// removed types, modified endpoints, schema statements, and dependency
// version bumps in manifest files.
func DetectBreakingChanges(diffText string) []Signal {
	signals := []Signal{}
	if diffText == "" {
		return signals
	}

	currentFile := ""
	// Added function/type names per file, used to tell a signature change
	// apart from an outright removal.
	addedFuncs := make(map[string]bool)
	addedTypes := make(map[string]bool)

	lines := strings.Split(diffText, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			if idx := strings.LastIndex(line, " b/"); idx != -1 {
				currentFile = line[idx+3:]
			}
			continue
		}
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		content := line[1:]
		if m := funcDefRe.FindStringSubmatch(content); m != nil {
			addedFuncs[currentFile+"\x00"+m[1]] = true
		}
		if m := typeDefRe.FindStringSubmatch(content); m != nil {
			addedTypes[currentFile+"\x00"+m[1]] = true
		}
	}

	currentFile = ""
	isDepFile := false
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			if idx := strings.LastIndex(line, " b/"); idx != -1 {
				currentFile = line[idx+3:]
				isDepFile = depFileRe.MatchString(currentFile)
			}
			continue
		}
		if !strings.HasPrefix(line, "-") || strings.HasPrefix(line, "---") {
			continue
		}
		content := strings.TrimSpace(line[1:])
		if content == "" || strings.HasPrefix(content, "#") || strings.HasPrefix(content, "//") {
			continue
		}

		switch {
		case endpointRe.MatchString(content):
			signals = append(signals, Signal{Kind: "API endpoint change", Location: currentFile, Snippet: content})
		case schemaRe.MatchString(content):
			signals = append(signals, Signal{Kind: "Database schema change", Location: currentFile, Snippet: content})
		case funcDefRe.MatchString(content):
			name := funcDefRe.FindStringSubmatch(content)[1]
			kind := "Removed public symbol"
			if addedFuncs[currentFile+"\x00"+name] {
				kind = "Function signature change"
			} else if privateName.MatchString(name) {
				continue
			}
			signals = append(signals, Signal{Kind: kind, Location: currentFile, Snippet: content})
		case typeDefRe.MatchString(content):
			name := typeDefRe.FindStringSubmatch(content)[1]
			kind := "Removed public type"
			if addedTypes[currentFile+"\x00"+name] {
				kind = "Type definition change"
			} else if privateName.MatchString(name) {
				continue
			}
			signals = append(signals, Signal{Kind: kind, Location: currentFile, Snippet: content})
		case isDepFile && versionRe.MatchString(content):
			signals = append(signals, Signal{Kind: "Dependency version change", Location: currentFile, Snippet: content})
		}
	}
	return signals
}

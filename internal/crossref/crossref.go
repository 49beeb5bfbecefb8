// Package crossref links Cucumber tags to JIRA issue keys.
package crossref

import (
	"regexp"
	"strings"
)

// issueKeyPattern matches JIRA issue keys (e.g., PROJ-123, ABC-1).
var issueKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-\d+$`)

// IsIssueKey reports whether s looks like a JIRA issue key.
func IsIssueKey(s string) bool {
	return issueKeyPattern.MatchString(s)
}

// IssueKeyFromTag returns the issue key named by a "@PREFIX-123" tag. Tags
// of other projects and tags whose suffix is not a number are rejected.
func IssueKeyFromTag(tag, prefix string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(tag, "@"+prefix+"-") {
		return "", false
	}
	key := strings.TrimPrefix(tag, "@")
	if !IsIssueKey(key) {
		return "", false
	}
	return key, true
}

// TagIssueKeys extracts the issue keys of project prefix from tags.
// Returns a deduplicated list preserving the order of first occurrence.
func TagIssueKeys(tags []string, prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, tag := range tags {
		key, ok := IssueKeyFromTag(tag, prefix)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	return result
}

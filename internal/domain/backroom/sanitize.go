package backroom

import (
	"regexp"
	"strings"
)

var quoteEdges = regexp.MustCompile(`^["']|["']$`)

// SanitizeContent normalizes raw model output into a transcript-ready line.
// Models frequently echo the speaker name as a prefix and wrap replies in
// quotes; both are stripped before the line is terminated with punctuation.
func SanitizeContent(raw, agentName string) string {
	content := raw

	if agentName != "" {
		prefix := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(agentName) + `:?\s*`)
		content = prefix.ReplaceAllString(content, "")
	}

	content = quoteEdges.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)

	if content != "" && !strings.ContainsAny(string(content[len(content)-1]), ".!?") {
		content += "."
	}

	return content
}

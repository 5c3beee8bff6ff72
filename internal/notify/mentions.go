package notify

import (
	"regexp"
	"strings"
)

// Telegram usernames may only contain lowercase letters, numbers, dashes and
// underscores and must start with a letter or number.
var usernameRe = regexp.MustCompile(`@[a-z0-9][a-z0-9_\-]*`)

// extractUsernames returns the @usernames found in text, deduplicated,
// in first-seen order. Nil when there are none.
func extractUsernames(text string) []string {
	matches := usernameRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// mentionLine renders a "To: @a, @b" line, or "" when text mentions nobody.
func mentionLine(text string) string {
	names := extractUsernames(text)
	if len(names) == 0 {
		return ""
	}
	return "To: " + strings.Join(names, ", ")
}

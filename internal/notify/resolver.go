package notify

import (
	"strings"

	"issuegram/internal/config"
	"issuegram/internal/tracker"
)

// Project custom fields recognized for per-project overrides. The names match
// what tracker admins historically configured for this integration.
const (
	channelFieldName = "Telegram Channel"
	tokenFieldName   = "Telegram BOT Token"

	// sentinelChannel is the reserved channel value meaning "do not notify
	// this project", at either the project or the global level.
	sentinelChannel = "-"
)

func projectValue(refs tracker.Directory, p *tracker.Project, fieldName string) string {
	if refs == nil || p == nil {
		return ""
	}
	v, ok := refs.ProjectCustomValue(p.ID, fieldName)
	if !ok {
		return ""
	}
	return v
}

func firstPresent(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// channelForProject resolves the destination channel: project override first,
// then the global default. Returns "" when no channel applies or the resolved
// value is the suppression sentinel.
func channelForProject(p *tracker.Project, refs tracker.Directory, st config.NotificationConfig) string {
	if p == nil {
		return ""
	}
	val := firstPresent(projectValue(refs, p, channelFieldName), st.Channel)
	if strings.TrimSpace(val) == sentinelChannel {
		return ""
	}
	return val
}

// tokenForProject resolves the bot token with the same fallback order.
// Tokens have no suppression sentinel.
func tokenForProject(p *tracker.Project, refs tracker.Directory, st config.NotificationConfig) string {
	if p == nil {
		return ""
	}
	return firstPresent(projectValue(refs, p, tokenFieldName), st.TelegramBotToken)
}

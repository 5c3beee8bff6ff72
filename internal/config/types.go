package config

type Config struct {
	Tracker      TrackerConfig      `json:"tracker"`
	Notification NotificationConfig `json:"notification"`
	Dispatch     DispatchConfig     `json:"dispatch,omitempty"`
	HTTP         HTTPConfig         `json:"http,omitempty"`
	Logging      LoggingConfig      `json:"logging"`
}

// TrackerConfig describes the host tracker we bridge from.
type TrackerConfig struct {
	// BaseURL is the public URL of the tracker, used to build issue and
	// attachment links in notifications (e.g. "https://redmine.example.com").
	BaseURL string `json:"base_url"`

	// WebhookSecret, when set, must match the X-Tracker-Secret header on
	// inbound webhook requests.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// NotificationConfig carries the notification settings. Field names follow
// the tracker plugin's settings keys so existing setups translate 1:1.
//
// Channel and TelegramBotToken are global defaults; projects may override
// both via the "Telegram Channel" / "Telegram BOT Token" project custom
// fields. A channel of "-" (at either level) suppresses notification.
type NotificationConfig struct {
	TelegramBotToken string `json:"telegram_bot_token"`
	Channel          string `json:"channel"`

	// PriorityIDAdd is the minimum priority rank an issue must have to be
	// notified at all. Zero means notify everything.
	PriorityIDAdd int64 `json:"priority_id_add,omitempty"`

	PostUpdates           bool `json:"post_updates"`
	NewIncludeDescription bool `json:"new_include_description"`
	DisplayWatchers       bool `json:"display_watchers"`
	AutoMentions          bool `json:"auto_mentions"`
}

// DispatchConfig tunes outbound delivery. All durations are Go duration
// strings (e.g. "500ms", "2s").
//
// Defaults (when fields are omitted/zero):
//   - api_base_url: "https://api.telegram.org"
//   - phase_timeout: "2s" (applies to dial, TLS, response header, idle)
//   - attempts: 5
//   - rate_per_sec: 30
type DispatchConfig struct {
	APIBaseURL   string `json:"api_base_url,omitempty"`
	PhaseTimeout string `json:"phase_timeout,omitempty"`
	Attempts     int    `json:"attempts,omitempty"`
	RatePerSec   int    `json:"rate_per_sec,omitempty"`
}

// HTTPConfig controls the inbound webhook listener.
type HTTPConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"` // default: "127.0.0.1:8090"
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

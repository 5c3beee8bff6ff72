package telegram

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"issuegram/internal/notify"
	logx "issuegram/pkg/logx"
)

const (
	defaultAPIBaseURL   = "https://api.telegram.org"
	defaultPhaseTimeout = 2 * time.Second
	defaultAttempts     = 5
	defaultRatePerSec   = 30

	labelDescription = "Description"
)

// Config tunes outbound delivery. Zero fields fall back to the defaults
// above; DefaultToken is used when a send carries no per-project token.
type Config struct {
	APIBaseURL   string
	PhaseTimeout time.Duration
	Attempts     int
	RatePerSec   int
	DefaultToken string
}

// Dispatcher performs fire-and-forget delivery to the Telegram sendMessage
// endpoint. Send never blocks and never surfaces a failure to the caller;
// everything past the hand-off is logged only.
type Dispatcher struct {
	mu      sync.Mutex
	cfg     Config
	limiter *rate.Limiter

	log logx.Logger
	wg  sync.WaitGroup
}

func New(cfg Config, log logx.Logger) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	d := &Dispatcher{log: log}
	d.Apply(cfg)
	return d
}

// Apply swaps delivery settings at runtime. In-flight deliveries keep the
// config they started with.
func (d *Dispatcher) Apply(cfg Config) {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.PhaseTimeout <= 0 {
		cfg.PhaseTimeout = defaultPhaseTimeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = defaultRatePerSec
	}

	d.mu.Lock()
	d.cfg = cfg
	// Token bucket paces our own output; server-side throttling responses are
	// not interpreted.
	d.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	d.mu.Unlock()
}

// Send composes the request and hands it to a detached delivery goroutine.
// An empty token falls back to the configured default; a still-empty token is
// only warned about (the request will fail and be dropped after retries).
func (d *Dispatcher) Send(msg, channel string, att *notify.Attachment, token string) {
	d.mu.Lock()
	cfg := d.cfg
	lim := d.limiter
	d.mu.Unlock()

	if token == "" {
		token = cfg.DefaultToken
	}

	params := url.Values{}
	if channel != "" {
		params.Set("chat_id", channel)
	}
	params.Set("parse_mode", "HTML")
	params.Set("disable_web_page_preview", "1")
	params.Set("text", renderText(msg, att))

	log := d.log.With(logx.String("delivery_id", uuid.NewString()))
	log.Info("telegram send", logx.String("channel", channel))
	if token == "" {
		log.Warn("telegram token empty; set notification.telegram_bot_token or the project custom field")
	}

	endpoint := strings.TrimRight(cfg.APIBaseURL, "/") + "/bot" + token + "/sendMessage"

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic in delivery", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
			}
		}()
		deliver(endpoint, params, cfg, lim, log)
	}()
}

// Stop waits for in-flight deliveries, bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// deliver runs the bounded retry loop. Only transport-level failures retry;
// an HTTP response of any status counts as delivered (the status is logged,
// not interpreted). After the last attempt the failure is dropped.
func deliver(endpoint string, params url.Values, cfg Config, lim *rate.Limiter, log logx.Logger) {
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if lim != nil {
			if err := lim.Wait(context.Background()); err != nil {
				return
			}
		}

		// Fresh client per attempt: no shared state between deliveries, and a
		// broken connection pool can't poison the retry.
		client := newClient(cfg.PhaseTimeout)
		resp, err := client.PostForm(endpoint, params)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			log.Info("telegram send status", logx.Int("status", resp.StatusCode))
			return
		}
		log.Warn("telegram send failed",
			logx.Err(err),
			logx.Int("attempt", attempt),
			logx.Int("max", cfg.Attempts))
	}
	log.Error("telegram delivery abandoned", logx.Int("attempts", cfg.Attempts))
}

// newClient builds a client with per-phase timeouts. There is deliberately no
// overall deadline: each network phase is bounded on its own.
func newClient(phase time.Duration) *http.Client {
	if phase <= 0 {
		phase = defaultPhaseTimeout
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   phase,
				KeepAlive: phase,
			}).DialContext,
			TLSHandshakeTimeout:   phase,
			ResponseHeaderTimeout: phase,
			IdleConnTimeout:       phase,
			ExpectContinueTimeout: phase,
		},
	}
}

// renderText appends the attachment to the message body: the description
// line first, then each field as "<b>Title:</b> Value" in order.
func renderText(msg string, att *notify.Attachment) string {
	if att == nil {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	if att.Text != "" {
		b.WriteString("\r\n<b>" + labelDescription + ":</b> " + att.Text)
	}
	for _, f := range att.Fields {
		b.WriteString("\r\n<b>" + f.Title + ":</b> " + f.Value)
	}
	return b.String()
}

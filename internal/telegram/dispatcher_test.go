package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"issuegram/internal/notify"
	logx "issuegram/pkg/logx"
)

func testConfig(apiURL string) Config {
	return Config{
		APIBaseURL:   apiURL,
		PhaseTimeout: 500 * time.Millisecond,
		RatePerSec:   1000,
		DefaultToken: "default-token",
	}
}

func waitStopped(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("dispatcher did not drain: %v", err)
	}
}

func TestSendPostsExpectedParams(t *testing.T) {
	var gotPath atomic.Value
	var gotForm atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath.Store(r.URL.Path)
		gotForm.Store(r.PostForm)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := New(testConfig(srv.URL), logx.Nop())
	att := &notify.Attachment{
		Text: "broken build",
		Fields: []notify.Field{
			{Title: "Status", Value: "New", Short: true},
			{Title: "Priority", Value: "High", Short: true},
		},
	}
	d.Send("<b>Project: Apollo</b>", "@dev", att, "proj-token")
	waitStopped(t, d)

	if p, _ := gotPath.Load().(string); p != "/botproj-token/sendMessage" {
		t.Fatalf("unexpected path %q", p)
	}
	form, _ := gotForm.Load().(url.Values)
	if form == nil {
		t.Fatal("no request received")
	}
	if got := form["chat_id"]; len(got) != 1 || got[0] != "@dev" {
		t.Fatalf("chat_id = %v", got)
	}
	if got := form["parse_mode"]; len(got) != 1 || got[0] != "HTML" {
		t.Fatalf("parse_mode = %v", got)
	}
	if got := form["disable_web_page_preview"]; len(got) != 1 || got[0] != "1" {
		t.Fatalf("disable_web_page_preview = %v", got)
	}
	wantText := "<b>Project: Apollo</b>" +
		"\r\n<b>Description:</b> broken build" +
		"\r\n<b>Status:</b> New" +
		"\r\n<b>Priority:</b> High"
	if got := form["text"]; len(got) != 1 || got[0] != wantText {
		t.Fatalf("text = %q, want %q", got, wantText)
	}
}

func TestSendFallsBackToDefaultToken(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
	}))
	defer srv.Close()

	d := New(testConfig(srv.URL), logx.Nop())
	d.Send("hi", "@dev", nil, "")
	waitStopped(t, d)

	if p, _ := gotPath.Load().(string); p != "/botdefault-token/sendMessage" {
		t.Fatalf("unexpected path %q", p)
	}
}

func TestTransportErrorRetriesToBound(t *testing.T) {
	var hits int32
	// Hijack and slam the connection so the client sees a transport error,
	// not an HTTP response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer does not support hijacking")
			return
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	d := New(testConfig(srv.URL), logx.Nop())
	d.Send("hi", "@dev", nil, "tok")
	waitStopped(t, d)

	if n := atomic.LoadInt32(&hits); n != defaultAttempts {
		t.Fatalf("expected %d attempts, got %d", defaultAttempts, n)
	}
}

func TestNon2xxIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(testConfig(srv.URL), logx.Nop())
	d.Send("hi", "@dev", nil, "tok")
	waitStopped(t, d)

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", n)
	}
}

func TestSendNeverBlocksOrPanics(t *testing.T) {
	// Unroutable endpoint: every attempt fails, the caller must not notice.
	d := New(Config{
		APIBaseURL:   "http://127.0.0.1:1",
		PhaseTimeout: 50 * time.Millisecond,
		Attempts:     2,
		RatePerSec:   1000,
	}, logx.Nop())

	done := make(chan struct{})
	go func() {
		d.Send("hi", "@dev", nil, "tok")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked the caller")
	}
	waitStopped(t, d)
}

func TestApplyDefaults(t *testing.T) {
	d := New(Config{}, logx.Nop())
	d.mu.Lock()
	cfg := d.cfg
	d.mu.Unlock()

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("api base = %q", cfg.APIBaseURL)
	}
	if cfg.PhaseTimeout != defaultPhaseTimeout {
		t.Fatalf("phase timeout = %v", cfg.PhaseTimeout)
	}
	if cfg.Attempts != defaultAttempts {
		t.Fatalf("attempts = %d", cfg.Attempts)
	}
	if cfg.RatePerSec != defaultRatePerSec {
		t.Fatalf("rate = %d", cfg.RatePerSec)
	}
}

func TestRenderTextWithoutAttachment(t *testing.T) {
	if got := renderText("plain", nil); got != "plain" {
		t.Fatalf("renderText = %q", got)
	}
	if got := renderText("msg", &notify.Attachment{}); got != "msg" {
		t.Fatalf("renderText with empty attachment = %q", got)
	}
}

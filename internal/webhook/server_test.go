package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"issuegram/internal/eventbus"
	"issuegram/internal/tracker"
	logx "issuegram/pkg/logx"
)

func postHook(t *testing.T, h http.Handler, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hooks/issues", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHookPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	ch, unsub := bus.Subscribe(4)
	defer unsub()

	s := NewServer("", "", bus, logx.Nop())
	rec := postHook(t, s.srv.Handler, updatedBody, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	select {
	case ev := <-ch:
		if ev.Type != tracker.EventIssueUpdated {
			t.Fatalf("event type = %q", ev.Type)
		}
		if ev.Data.Issue.ID != 42 {
			t.Fatalf("issue id = %d", ev.Data.Issue.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestHookRejectsBadPayload(t *testing.T) {
	s := NewServer("", "", eventbus.New(), logx.Nop())
	rec := postHook(t, s.srv.Handler, `{"action": "deleted"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHookSecret(t *testing.T) {
	s := NewServer("", "hunter2", eventbus.New(), logx.Nop())

	if rec := postHook(t, s.srv.Handler, updatedBody, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("missing secret: status = %d", rec.Code)
	}
	if rec := postHook(t, s.srv.Handler, updatedBody, "wrong"); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong secret: status = %d", rec.Code)
	}
	if rec := postHook(t, s.srv.Handler, updatedBody, "hunter2"); rec.Code != http.StatusAccepted {
		t.Fatalf("good secret: status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := NewServer("", "", eventbus.New(), logx.Nop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

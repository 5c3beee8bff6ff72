package webhook

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"issuegram/internal/eventbus"
	"issuegram/internal/tracker"
	logx "issuegram/pkg/logx"
)

const (
	defaultAddr = "127.0.0.1:8090"

	// secretHeader authenticates the tracker when a shared secret is set.
	secretHeader = "X-Tracker-Secret"

	maxBodyBytes = 1 << 20 // webhook payloads are small; 1 MiB is generous
)

// Server receives tracker webhooks and publishes them on the bus. Responses
// never wait for delivery: a decoded payload is accepted with 202.
type Server struct {
	addr   string
	secret string
	bus    eventbus.Bus
	log    logx.Logger

	srv *http.Server
}

func NewServer(addr, secret string, bus eventbus.Bus, log logx.Logger) *Server {
	if strings.TrimSpace(addr) == "" {
		addr = defaultAddr
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Server{addr: addr, secret: secret, bus: bus, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/hooks/issues", s.handleIssueHook)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("webhook listener started", logx.String("addr", s.addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIssueHook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" {
		got := r.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
			s.log.Warn("webhook rejected: bad secret", logx.String("remote", r.RemoteAddr))
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	p, err := decodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.log.Warn("webhook rejected: bad payload", logx.Err(err), logx.String("remote", r.RemoteAddr))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	evType := tracker.EventIssueCreated
	if p.Action == actionUpdated {
		evType = tracker.EventIssueUpdated
	}
	s.bus.Publish(eventbus.Event{Type: evType, Data: p.toEvent()})

	s.log.Debug("webhook accepted",
		logx.String("action", p.Action),
		logx.Int64("issue", p.Issue.ID))
	w.WriteHeader(http.StatusAccepted)
}

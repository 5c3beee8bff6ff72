package notify

import (
	"context"
	"runtime/debug"

	"issuegram/internal/eventbus"
	"issuegram/internal/tracker"
	logx "issuegram/pkg/logx"
)

// Listener bridges the event bus to the composer. One goroutine consumes
// events so the publishing side never waits on formatting or dispatch.
type Listener struct {
	bus eventbus.Bus
	c   *Composer
	log logx.Logger
}

func NewListener(bus eventbus.Bus, c *Composer, log logx.Logger) *Listener {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Listener{bus: bus, c: c, log: log}
}

// Run blocks until ctx is cancelled. A panic while handling one event is
// logged and must not stop the loop; events are independent.
func (l *Listener) Run(ctx context.Context) {
	ch, unsub := l.bus.Subscribe(64)
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			l.handle(ev)
		}
	}
}

func (l *Listener) handle(ev eventbus.Event) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("panic handling tracker event",
				logx.String("type", ev.Type),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())))
		}
	}()

	switch ev.Type {
	case tracker.EventIssueCreated:
		l.c.OnIssueCreated(ev.Data.Issue, ev.Data.Refs)
	case tracker.EventIssueUpdated:
		if ev.Data.Journal == nil {
			l.log.Warn("update event without journal; dropping", logx.Int64("issue", ev.Data.Issue.ID))
			return
		}
		l.c.OnIssueUpdated(ev.Data.Issue, *ev.Data.Journal, ev.Data.Refs)
	default:
		l.log.Debug("unknown event type", logx.String("type", ev.Type))
	}
}

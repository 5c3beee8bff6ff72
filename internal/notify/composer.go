package notify

import (
	"strconv"
	"strings"
	"sync"

	"issuegram/internal/config"
	"issuegram/internal/tracker"
	logx "issuegram/pkg/logx"
)

// Attachment is the structured part of a notification: an optional body text
// plus an ordered list of labeled fields.
type Attachment struct {
	Text   string
	Fields []Field
}

// Dispatcher delivers one composed message. Implementations must not block
// and must not let delivery failures escape to the caller.
type Dispatcher interface {
	Send(msg, channel string, att *Attachment, token string)
}

// Composer turns tracker lifecycle events into Telegram-ready messages and
// hands them to the dispatcher. It is safe for concurrent use; settings can
// be swapped at runtime via Apply.
type Composer struct {
	mu       sync.Mutex
	settings config.NotificationConfig
	links    tracker.Links

	out Dispatcher
	log logx.Logger
}

func New(settings config.NotificationConfig, links tracker.Links, out Dispatcher, log logx.Logger) *Composer {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Composer{settings: settings, links: links, out: out, log: log}
}

// Apply swaps notification settings and link base at runtime.
func (c *Composer) Apply(settings config.NotificationConfig, links tracker.Links) {
	c.mu.Lock()
	c.settings = settings
	c.links = links
	c.mu.Unlock()
}

func (c *Composer) snapshot() (config.NotificationConfig, tracker.Links) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings, c.links
}

// priorityAllowed gates on the minimum priority rank. A zero threshold means
// "notify everything" (rank 1).
func priorityAllowed(st config.NotificationConfig, rank int64) bool {
	min := st.PriorityIDAdd
	if min <= 0 {
		min = 1
	}
	return rank >= min
}

// header builds the shared first lines: bold project name, issue link, and an
// optional mentions line scanned from mentionSource.
func (c *Composer) header(issue tracker.Issue, links tracker.Links, st config.NotificationConfig, mentionSource string) *strings.Builder {
	var b strings.Builder

	name := ""
	if issue.Project != nil {
		name = issue.Project.Name
	}
	b.WriteString("<b>" + labelProject + ": " + Escape(name) + "</b>\n")
	b.WriteString("<a href='" + links.IssueURL(strconv.FormatInt(issue.ID, 10)) + "'>" + Escape(issue.Subject) + "</a>")
	if st.AutoMentions {
		if m := mentionLine(mentionSource); m != "" {
			b.WriteString("\n" + m)
		}
	}
	return &b
}

// OnIssueCreated composes and dispatches the "issue created" notification.
// It is a no-op when no channel resolves or the priority is below threshold.
func (c *Composer) OnIssueCreated(issue tracker.Issue, refs tracker.Directory) {
	st, links := c.snapshot()

	channel := channelForProject(issue.Project, refs, st)
	if channel == "" {
		c.log.Debug("no channel for project; skipping", logx.Int64("issue", issue.ID))
		return
	}
	if !priorityAllowed(st, issue.PriorityID) {
		c.log.Debug("priority below threshold; skipping",
			logx.Int64("issue", issue.ID),
			logx.Int64("priority", issue.PriorityID),
			logx.Int64("min", st.PriorityIDAdd))
		return
	}
	token := tokenForProject(issue.Project, refs, st)

	b := c.header(issue, links, st, issue.Description)
	b.WriteString("\n<b>" + labelCreatedBy + ":</b> " + Escape(issue.Author))
	b.WriteString("\n<b>" + labelStartDate + ":</b> " + Escape(issue.StartDate))

	att := &Attachment{}
	if issue.Description != "" && st.NewIncludeDescription {
		att.Text = Escape(issue.Description)
	}
	att.Fields = []Field{
		{Title: labelStatus, Value: Escape(issue.Status), Short: true},
		{Title: labelPriority, Value: Escape(issue.Priority), Short: true},
		{Title: labelAssignee, Value: Escape(issue.AssignedTo), Short: true},
	}
	if st.DisplayWatchers {
		att.Fields = append(att.Fields, Field{
			Title: labelWatchers,
			Value: Escape(strings.Join(issue.Watchers, ", ")),
			Short: true,
		})
	}

	c.out.Send(b.String(), channel, att, token)
}

// OnIssueUpdated composes and dispatches the "issue updated" notification for
// one journal entry. Skips when updates are disabled, no channel resolves, or
// the priority is below threshold.
func (c *Composer) OnIssueUpdated(issue tracker.Issue, journal tracker.Journal, refs tracker.Directory) {
	st, links := c.snapshot()

	channel := channelForProject(issue.Project, refs, st)
	if channel == "" || !st.PostUpdates {
		c.log.Debug("updates not routed; skipping",
			logx.Int64("issue", issue.ID),
			logx.Bool("post_updates", st.PostUpdates))
		return
	}
	if !priorityAllowed(st, issue.PriorityID) {
		c.log.Debug("priority below threshold; skipping",
			logx.Int64("issue", issue.ID),
			logx.Int64("priority", issue.PriorityID),
			logx.Int64("min", st.PriorityIDAdd))
		return
	}
	token := tokenForProject(issue.Project, refs, st)

	b := c.header(issue, links, st, journal.Notes)
	b.WriteString("\n<b>" + labelUpdatedBy + ":</b> " + Escape(journal.Author))
	b.WriteString("\n<b>" + labelPriority + ":</b> " + Escape(issue.Priority))

	att := &Attachment{}
	if journal.Notes != "" {
		att.Text = Escape(journal.Notes)
	}
	mapper := fieldMapper{refs: refs, links: links}
	att.Fields = make([]Field, 0, len(journal.Details))
	for _, d := range journal.Details {
		att.Fields = append(att.Fields, mapper.Map(d))
	}

	c.out.Send(b.String(), channel, att, token)
}

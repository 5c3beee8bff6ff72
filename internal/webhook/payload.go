package webhook

import (
	"encoding/json"
	"fmt"
	"io"

	"issuegram/internal/tracker"
)

// payload is the JSON body the tracker's webhook plugin posts on issue
// lifecycle events. Reference names for anything the journal details point at
// are inlined under "refs" so the bridge needs no tracker API access.
type payload struct {
	Action  string          `json:"action"`
	Issue   issuePayload    `json:"issue"`
	Journal *journalPayload `json:"journal,omitempty"`
	Refs    *refsPayload    `json:"refs,omitempty"`
}

type issuePayload struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description,omitempty"`

	PriorityID int64  `json:"priority_id"`
	Priority   string `json:"priority,omitempty"`
	Status     string `json:"status,omitempty"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Author     string `json:"author,omitempty"`

	Project  *projectPayload `json:"project,omitempty"`
	Watchers []string        `json:"watchers,omitempty"`

	StartDate string `json:"start_date,omitempty"`
}

type projectPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// CustomValues carries project custom fields by field name, including the
	// channel/token overrides this bridge recognizes.
	CustomValues map[string]string `json:"custom_values,omitempty"`
}

type journalPayload struct {
	Author  string          `json:"author,omitempty"`
	Notes   string          `json:"notes,omitempty"`
	Details []detailPayload `json:"details,omitempty"`
}

type detailPayload struct {
	Property string `json:"property"`
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
}

type refsPayload struct {
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	Trackers     map[string]string `json:"trackers,omitempty"`
	Projects     map[string]string `json:"projects,omitempty"`
	Statuses     map[string]string `json:"statuses,omitempty"`
	Priorities   map[string]string `json:"priorities,omitempty"`
	Categories   map[string]string `json:"categories,omitempty"`
	Users        map[string]string `json:"users,omitempty"`
	Versions     map[string]string `json:"versions,omitempty"`
	Attachments  []string          `json:"attachments,omitempty"`
	Issues       []string          `json:"issues,omitempty"`
}

const (
	actionCreated = "created"
	actionUpdated = "updated"
)

func decodePayload(r io.Reader) (*payload, error) {
	var p payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	switch p.Action {
	case actionCreated:
	case actionUpdated:
		if p.Journal == nil {
			return nil, fmt.Errorf("updated payload is missing journal")
		}
	default:
		return nil, fmt.Errorf("unknown action %q", p.Action)
	}
	if p.Issue.ID == 0 {
		return nil, fmt.Errorf("payload is missing issue id")
	}
	return &p, nil
}

// toEvent flattens the payload into the domain event, building a map-backed
// directory from the inlined reference names.
func (p *payload) toEvent() tracker.IssueEvent {
	issue := tracker.Issue{
		ID:          p.Issue.ID,
		Subject:     p.Issue.Subject,
		Description: p.Issue.Description,
		PriorityID:  p.Issue.PriorityID,
		Priority:    p.Issue.Priority,
		Status:      p.Issue.Status,
		AssignedTo:  p.Issue.AssignedTo,
		Author:      p.Issue.Author,
		Watchers:    p.Issue.Watchers,
		StartDate:   p.Issue.StartDate,
	}
	if p.Issue.Project != nil {
		issue.Project = &tracker.Project{ID: p.Issue.Project.ID, Name: p.Issue.Project.Name}
	}

	dir := &tracker.MapDirectory{}
	if r := p.Refs; r != nil {
		dir.CustomFields = r.CustomFields
		dir.Trackers = r.Trackers
		dir.Projects = r.Projects
		dir.Statuses = r.Statuses
		dir.Priorities = r.Priorities
		dir.Categories = r.Categories
		dir.Users = r.Users
		dir.Versions = r.Versions
		dir.Attachments = toSet(r.Attachments)
		dir.Issues = toSet(r.Issues)
	}
	if p.Issue.Project != nil {
		dir.ProjectValues = p.Issue.Project.CustomValues
	}

	ev := tracker.IssueEvent{Issue: issue, Refs: dir}
	if p.Journal != nil {
		j := &tracker.Journal{Author: p.Journal.Author, Notes: p.Journal.Notes}
		for _, d := range p.Journal.Details {
			j.Details = append(j.Details, tracker.DetailChange{
				Property: detailProperty(d.Property),
				Key:      d.Key,
				Value:    d.Value,
			})
		}
		ev.Journal = j
	}
	return ev
}

// detailProperty maps the tracker's wire names onto the domain tags.
// Unknown values fall back to a regular attribute change.
func detailProperty(s string) tracker.Property {
	switch s {
	case "cf":
		return tracker.PropertyCustomField
	case "attachment":
		return tracker.PropertyAttachment
	default:
		return tracker.PropertyAttr
	}
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

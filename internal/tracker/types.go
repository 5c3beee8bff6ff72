package tracker

// Property classifies what kind of field a DetailChange touched.
type Property string

const (
	// PropertyAttr is a regular issue attribute (status_id, priority_id, subject, ...).
	PropertyAttr Property = "attr"
	// PropertyCustomField is a custom field; Key holds the custom field id.
	PropertyCustomField Property = "cf"
	// PropertyAttachment is a file attachment; Key holds the attachment id.
	PropertyAttachment Property = "attachment"
)

// Project is the slice of a tracker project the bridge cares about.
type Project struct {
	ID   int64
	Name string
}

// Issue carries the already-resolved display values the tracker hands us on
// a lifecycle event. Foreign keys only appear inside DetailChange values.
type Issue struct {
	ID          int64
	Subject     string
	Description string

	// PriorityID is the priority rank used for the minimum-priority gate.
	PriorityID int64

	Priority   string
	Status     string
	AssignedTo string
	Author     string

	Project  *Project
	Watchers []string

	// StartDate is passed through in whatever format the tracker uses.
	StartDate string
}

// Journal is one edit event on an issue: a free-text note plus the ordered
// list of field deltas recorded for that edit.
type Journal struct {
	Author  string
	Notes   string
	Details []DetailChange
}

// DetailChange is a single field delta.
//
// For PropertyAttr, Key is the attribute key (e.g. "status_id") and Value the
// new raw value (often a foreign key). For PropertyCustomField, Key is the
// custom field id. For PropertyAttachment, Key is the attachment id.
type DetailChange struct {
	Property Property
	Key      string
	Value    string
}

// Event types published on the bus.
const (
	EventIssueCreated = "issue.created"
	EventIssueUpdated = "issue.updated"
)

// IssueEvent is the bus payload for both lifecycle events.
// Journal is nil for created events. Refs resolves foreign keys found in the
// journal details; it may be nil (everything then renders unresolved).
type IssueEvent struct {
	Issue   Issue
	Journal *Journal
	Refs    Directory
}

package notify

import (
	"testing"

	"issuegram/internal/tracker"
)

func testMapper() fieldMapper {
	return fieldMapper{
		refs: &tracker.MapDirectory{
			CustomFields: map[string]string{"7": "Severity"},
			Statuses:     map[string]string{"3": "In Progress"},
			Users:        map[string]string{"12": "Anna <QA>"},
			Attachments:  map[string]bool{"99": true},
			Issues:       map[string]bool{"41": true},
		},
		links: tracker.Links{BaseURL: "https://tracker.example.com"},
	}
}

func TestMapDetailChange(t *testing.T) {
	m := testMapper()

	cases := []struct {
		name string
		in   tracker.DetailChange
		want Field
	}{
		{
			"unresolved status yields placeholder",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "status_id", Value: "404"},
			Field{Title: "Status", Value: "-", Short: true},
		},
		{
			"resolved status is escaped",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "status_id", Value: "3"},
			Field{Title: "Status", Value: "In Progress", Short: true},
		},
		{
			"assignee name is escaped",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "assigned_to_id", Value: "12"},
			Field{Title: "Assignee", Value: "Anna &lt;QA&gt;", Short: true},
		},
		{
			"subject renders full width",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "subject", Value: "new <title>"},
			Field{Title: "Subject", Value: "new &lt;title&gt;", Short: false},
		},
		{
			"description renders full width",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "description", Value: ""},
			Field{Title: "Description", Value: "-", Short: false},
		},
		{
			"custom field keeps value when field is gone",
			tracker.DetailChange{Property: tracker.PropertyCustomField, Key: "404", Value: "high"},
			Field{Title: "", Value: "high", Short: true},
		},
		{
			"custom field resolves display name",
			tracker.DetailChange{Property: tracker.PropertyCustomField, Key: "7", Value: "low"},
			Field{Title: "Severity", Value: "low", Short: true},
		},
		{
			"attachment links to the file",
			tracker.DetailChange{Property: tracker.PropertyAttachment, Key: "99"},
			Field{Title: "Attachment", Value: "https://tracker.example.com/attachments/99", Short: true},
		},
		{
			"missing attachment yields placeholder",
			tracker.DetailChange{Property: tracker.PropertyAttachment, Key: "100"},
			Field{Title: "Attachment", Value: "-", Short: true},
		},
		{
			"parent links to the issue",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "parent_id", Value: "41"},
			Field{Title: "Parent issue", Value: "https://tracker.example.com/issues/41", Short: true},
		},
		{
			"missing parent yields placeholder",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "parent_id", Value: "42"},
			Field{Title: "Parent issue", Value: "-", Short: true},
		},
		{
			"unknown key strips _id and humanizes",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "sprint_id", Value: "S4"},
			Field{Title: "Sprint", Value: "S4", Short: true},
		},
		{
			"known plain key uses label table",
			tracker.DetailChange{Property: tracker.PropertyAttr, Key: "start_date", Value: "2026-09-01"},
			Field{Title: "Start date", Value: "2026-09-01", Short: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Map(tc.in)
			if got != tc.want {
				t.Fatalf("Map(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMapWithoutDirectory(t *testing.T) {
	// No directory at all: every reference is unresolved, nothing panics.
	m := fieldMapper{links: tracker.Links{BaseURL: "https://t.example.com"}}
	got := m.Map(tracker.DetailChange{Property: tracker.PropertyAttr, Key: "priority_id", Value: "2"})
	want := Field{Title: "Priority", Value: "-", Short: true}
	if got != want {
		t.Fatalf("Map = %+v, want %+v", got, want)
	}
}

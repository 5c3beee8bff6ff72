package notify

import "strings"

// Display labels for well-known tracker fields. The host tracker owns real
// localization; the bridge only needs stable English labels.
const (
	labelProject    = "Project"
	labelCreatedBy  = "Created by"
	labelUpdatedBy  = "Updated by"
	labelStartDate  = "Start date"
	labelPriority   = "Priority"
	labelStatus     = "Status"
	labelAssignee   = "Assignee"
	labelWatchers   = "Watchers"
	labelAttachment = "Attachment"
)

var fieldLabels = map[string]string{
	"subject":         "Subject",
	"title":           "Title",
	"description":     "Description",
	"tracker":         "Tracker",
	"project":         labelProject,
	"status":          labelStatus,
	"priority":        labelPriority,
	"category":        "Category",
	"assigned_to":     labelAssignee,
	"fixed_version":   "Target version",
	"parent":          "Parent issue",
	"start_date":      labelStartDate,
	"due_date":        "Due date",
	"done_ratio":      "% Done",
	"estimated_hours": "Estimated time",
	"is_private":      "Private",
}

// fieldLabel resolves the display label for an attribute key, falling back to
// a humanized form of the key itself for fields we don't know.
func fieldLabel(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	h := strings.ReplaceAll(key, "_", " ")
	if h == "" {
		return h
	}
	return strings.ToUpper(h[:1]) + h[1:]
}

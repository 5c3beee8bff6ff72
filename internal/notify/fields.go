package notify

import (
	"strings"

	"issuegram/internal/tracker"
)

// Field is one labeled value inside a message attachment. Short fields render
// side by side; Short=false fields (subject/description style) take the full
// width.
type Field struct {
	Title string
	Value string
	Short bool
}

// attrKind tags the finite set of attribute keys that need special rendering.
// Everything not listed falls through to attrDefault.
type attrKind int

const (
	attrDefault attrKind = iota
	attrWide
	attrTracker
	attrProject
	attrStatus
	attrPriority
	attrCategory
	attrAssignee
	attrVersion
	attrParent
)

var attrKinds = map[string]attrKind{
	"title":       attrWide,
	"subject":     attrWide,
	"description": attrWide,

	"tracker":       attrTracker,
	"project":       attrProject,
	"status":        attrStatus,
	"priority":      attrPriority,
	"category":      attrCategory,
	"assigned_to":   attrAssignee,
	"fixed_version": attrVersion,
	"parent":        attrParent,
}

// entityLookup returns the lookup that resolves an attrKind's foreign key,
// or nil for kinds that use the raw value.
func entityLookup(refs tracker.Directory, kind attrKind) func(string) (string, bool) {
	if refs == nil {
		return nil
	}
	switch kind {
	case attrTracker:
		return refs.Tracker
	case attrProject:
		return refs.Project
	case attrStatus:
		return refs.Status
	case attrPriority:
		return refs.Priority
	case attrCategory:
		return refs.Category
	case attrAssignee:
		return refs.User
	case attrVersion:
		return refs.Version
	default:
		return nil
	}
}

type fieldMapper struct {
	refs  tracker.Directory
	links tracker.Links
}

// Map converts one detail change into a display field. A dangling reference
// never fails the mapping; it just renders as the "-" placeholder.
func (m fieldMapper) Map(d tracker.DetailChange) Field {
	f := Field{Short: true}

	switch d.Property {
	case tracker.PropertyCustomField:
		// Title stays empty when the custom field no longer exists; the field
		// is still emitted so the change is not silently lost.
		if m.refs != nil {
			f.Title, _ = m.refs.CustomField(d.Key)
		}
		f.Value = Escape(d.Value)

	case tracker.PropertyAttachment:
		f.Title = labelAttachment
		if m.refs != nil && m.refs.Attachment(d.Key) {
			f.Value = m.links.AttachmentURL(d.Key)
		}

	default:
		key := strings.TrimSuffix(d.Key, "_id")
		f.Title = fieldLabel(key)
		kind := attrKinds[key]

		switch {
		case kind == attrWide:
			f.Short = false
			f.Value = Escape(d.Value)
		case kind == attrParent:
			if m.refs != nil && m.refs.Issue(d.Value) {
				f.Value = m.links.IssueURL(d.Value)
			}
		default:
			if resolve := entityLookup(m.refs, kind); resolve != nil {
				name, ok := resolve(d.Value)
				if ok {
					f.Value = Escape(name)
				}
			} else if kind == attrDefault {
				f.Value = Escape(d.Value)
			}
		}
	}

	// Never emit a blank field; a visible placeholder reads better in chat.
	if f.Value == "" {
		f.Value = "-"
	}
	return f
}

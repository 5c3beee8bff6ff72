package tracker

// Directory resolves tracker foreign keys into display values.
//
// Every lookup is fallible: the boolean reports whether the reference
// resolved. "Not found" is a normal value here, never an error — a notifier
// must not abort a whole notification over one dangling reference.
type Directory interface {
	// CustomField returns the display name of a custom field.
	CustomField(id string) (string, bool)

	Tracker(id string) (string, bool)
	Project(id string) (string, bool)
	Status(id string) (string, bool)
	Priority(id string) (string, bool)
	Category(id string) (string, bool)
	User(id string) (string, bool)
	Version(id string) (string, bool)

	// Attachment and Issue only need to confirm existence; the caller builds
	// the link from the id.
	Attachment(id string) bool
	Issue(id string) bool

	// ProjectCustomValue returns the value of a project-level custom field
	// (looked up by field name), used for per-project channel/token overrides.
	ProjectCustomValue(projectID int64, fieldName string) (string, bool)
}

// MapDirectory is a Directory backed by plain maps. Webhook payloads that
// inline their reference names decode into one; tests use it directly.
// The zero value resolves nothing.
type MapDirectory struct {
	CustomFields map[string]string
	Trackers     map[string]string
	Projects     map[string]string
	Statuses     map[string]string
	Priorities   map[string]string
	Categories   map[string]string
	Users        map[string]string
	Versions     map[string]string
	Attachments  map[string]bool
	Issues       map[string]bool

	// ProjectValues is keyed by custom field name; one notification concerns
	// exactly one project, so no per-project dimension is needed.
	ProjectValues map[string]string
}

func lookup(m map[string]string, id string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[id]
	return v, ok
}

func (d *MapDirectory) CustomField(id string) (string, bool) { return lookup(d.CustomFields, id) }
func (d *MapDirectory) Tracker(id string) (string, bool)     { return lookup(d.Trackers, id) }
func (d *MapDirectory) Project(id string) (string, bool)     { return lookup(d.Projects, id) }
func (d *MapDirectory) Status(id string) (string, bool)      { return lookup(d.Statuses, id) }
func (d *MapDirectory) Priority(id string) (string, bool)    { return lookup(d.Priorities, id) }
func (d *MapDirectory) Category(id string) (string, bool)    { return lookup(d.Categories, id) }
func (d *MapDirectory) User(id string) (string, bool)        { return lookup(d.Users, id) }
func (d *MapDirectory) Version(id string) (string, bool)     { return lookup(d.Versions, id) }

func (d *MapDirectory) Attachment(id string) bool { return d.Attachments[id] }
func (d *MapDirectory) Issue(id string) bool      { return d.Issues[id] }

func (d *MapDirectory) ProjectCustomValue(projectID int64, fieldName string) (string, bool) {
	return lookup(d.ProjectValues, fieldName)
}

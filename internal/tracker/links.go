package tracker

import "strings"

// Links builds URLs into the host tracker. The bridge never generates routes
// itself; it only joins the configured base URL with well-known paths.
type Links struct {
	BaseURL string
}

func (l Links) join(path string) string {
	base := strings.TrimRight(strings.TrimSpace(l.BaseURL), "/")
	return base + path
}

func (l Links) IssueURL(id string) string      { return l.join("/issues/" + id) }
func (l Links) AttachmentURL(id string) string { return l.join("/attachments/" + id) }

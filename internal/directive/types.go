package directive

import (
	"sort"
	"strings"
)

// Record is one parsed directive block: an issue header or a comment.
// The parser is record-agnostic and stores directive arguments into
// whichever record is currently open; structurally only issues carry a
// title, labels, or the closed flag.
type Record struct {
	Title     string
	CreatedAt string // RFC3339, Z suffix appended at parse time
	UpdatedAt string
	ClosedAt  string
	Closed    bool
	Labels    []string

	body strings.Builder
}

// Body returns the accumulated body text, trimmed of surrounding
// whitespace. Trimming happens here rather than during accumulation so
// mid-body blank lines survive verbatim.
func (r *Record) Body() string {
	return strings.TrimSpace(r.body.String())
}

// appendLine accumulates one verbatim body line, newline included.
func (r *Record) appendLine(line string) {
	r.body.WriteString(line)
	r.body.WriteByte('\n')
}

// ParsedIssue groups an issue record with its ordered comments.
type ParsedIssue struct {
	Issue    *Record
	Comments []*Record
}

// Document is the result of parsing a directive stream: issue records
// keyed by id, with ids retained in encounter order.
type Document struct {
	IDs    []int
	Issues map[int]*ParsedIssue
}

// SortedIDs returns the issue ids in ascending order.
func (d *Document) SortedIDs() []int {
	out := make([]int, len(d.IDs))
	copy(out, d.IDs)
	sort.Ints(out)
	return out
}

// Package directive implements the line-oriented interchange format:
// lines beginning with the `## ` marker are typed directives, all other
// lines are body content. One directive block per issue, with nested
// comment blocks. The serialized text is the durable artifact between
// the conversion and import halves of a migration.
package directive

import (
	"fmt"
	"strings"

	"github.com/dt-pm-tools/tracker-port/internal/model"
)

// marker introduces a directive line.
const marker = "## "

// Marshal serializes the normalized model as directive text. Directive
// order within a header is fixed: title before timestamps, closed-at
// before the bare closed marker, labels last. The parser's state
// machine depends on body text never preceding its record's header.
func Marshal(issues []model.Issue) string {
	var b strings.Builder
	for _, issue := range issues {
		writeIssue(&b, issue)
	}
	return b.String()
}

func writeIssue(b *strings.Builder, issue model.Issue) {
	fmt.Fprintf(b, "%sissue %d\n", marker, issue.ID)
	fmt.Fprintf(b, "%stitle %s\n", marker, issue.Title)
	fmt.Fprintf(b, "%screated-at %s\n", marker, issue.CreatedAt)
	fmt.Fprintf(b, "%supdated-at %s\n", marker, issue.UpdatedAt)
	if issue.ClosedAt != "" {
		fmt.Fprintf(b, "%sclosed-at %s\n", marker, issue.ClosedAt)
	}
	if issue.Closed {
		fmt.Fprintf(b, "%sclosed\n", marker)
	}
	if len(issue.Labels) > 0 {
		fmt.Fprintf(b, "%slabels %s\n", marker, strings.Join(issue.Labels, " "))
	}
	b.WriteString("\n")
	writeBody(b, issue.Body, attribution("Issue reported by", issue.Reporter))

	for _, c := range issue.Comments {
		fmt.Fprintf(b, "%scomment\n", marker)
		fmt.Fprintf(b, "%screated-at %s\n", marker, c.CreatedAt)
		b.WriteString("\n")
		writeBody(b, c.Body, attribution("Original comment by", c.Author))
	}
}

func writeBody(b *strings.Builder, body, attrib string) {
	if attrib != "" {
		b.WriteString(attrib)
		b.WriteString("\n\n")
	}
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// attribution renders the synthetic authorship line prefixed to a body.
// Suppressed identities produce no line.
func attribution(prefix string, id model.Identity) string {
	switch id.Kind {
	case model.IdentitySource:
		system := "Bitbucket"
		if id.Origin == model.OriginGoogleCode {
			system = "Google Code"
		}
		return fmt.Sprintf("%s %s at %s.", prefix, id.Handle, system)
	case model.IdentityTarget:
		return fmt.Sprintf("%s @%s.", prefix, id.Handle)
	}
	return ""
}

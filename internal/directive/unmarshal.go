package directive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Unmarshal parses a directive stream back into per-issue structured
// records. It is a line-driven state machine with a single mutable
// "current open record" reference, reassigned on issue and comment
// directives. Structural violations (duplicate issue id, comment with
// no open issue, header directives before any record) are fatal.
func Unmarshal(r io.Reader) (*Document, error) {
	doc := &Document{Issues: make(map[int]*ParsedIssue)}

	var current *Record
	var currentIssue *ParsedIssue

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		keyword, arg, ok := splitDirective(line)
		if !ok {
			// Body continuation for the open record. Blank lines before
			// the first issue are tolerated; any other text is not.
			if current == nil {
				if strings.TrimSpace(line) == "" {
					continue
				}
				return nil, fmt.Errorf("line %d: body text before any issue directive", lineNo)
			}
			current.appendLine(line)
			continue
		}

		switch keyword {
		case "issue":
			id, err := strconv.Atoi(arg)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad issue id %q", lineNo, arg)
			}
			if _, dup := doc.Issues[id]; dup {
				return nil, fmt.Errorf("line %d: duplicate issue id %d", lineNo, id)
			}
			currentIssue = &ParsedIssue{Issue: &Record{}}
			doc.Issues[id] = currentIssue
			doc.IDs = append(doc.IDs, id)
			current = currentIssue.Issue

		case "comment":
			if currentIssue == nil {
				return nil, fmt.Errorf("line %d: comment directive with no open issue", lineNo)
			}
			current = &Record{}
			currentIssue.Comments = append(currentIssue.Comments, current)

		case "title":
			if current == nil {
				return nil, fmt.Errorf("line %d: title directive with no open record", lineNo)
			}
			current.Title = arg

		case "created-at", "updated-at", "closed-at":
			if current == nil {
				return nil, fmt.Errorf("line %d: %s directive with no open record", lineNo, keyword)
			}
			// Directive timestamps are offset-stripped UTC; the remote
			// payload wants an explicit zone.
			switch keyword {
			case "created-at":
				current.CreatedAt = arg + "Z"
			case "updated-at":
				current.UpdatedAt = arg + "Z"
			case "closed-at":
				current.ClosedAt = arg + "Z"
			}

		case "closed":
			if current == nil {
				return nil, fmt.Errorf("line %d: closed directive with no open record", lineNo)
			}
			current.Closed = true

		case "labels":
			if current == nil {
				return nil, fmt.Errorf("line %d: labels directive with no open record", lineNo)
			}
			current.Labels = strings.Fields(arg)

		default:
			// Not part of the directive vocabulary; the line is body
			// content that happens to start with the marker (e.g. a
			// Markdown h2 heading).
			if current == nil {
				return nil, fmt.Errorf("line %d: body text before any issue directive", lineNo)
			}
			current.appendLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading directive stream: %w", err)
	}
	return doc, nil
}

// splitDirective classifies a line. A directive starts with the marker
// and carries a keyword plus an optional single argument spanning the
// rest of the line.
func splitDirective(line string) (keyword, arg string, ok bool) {
	if !strings.HasPrefix(line, marker) {
		return "", "", false
	}
	rest := line[len(marker):]
	keyword, arg, _ = strings.Cut(rest, " ")
	return keyword, arg, true
}

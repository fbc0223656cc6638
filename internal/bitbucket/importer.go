// Package bitbucket reads a Bitbucket/Google Code issue export and
// produces the normalized issue model: status and kind vocabularies are
// reconciled into a closed flag plus labels, reporter and commenter
// identities are resolved against the identity map, embedded revision
// references are rewritten against the commit map, and empty or
// sentinel comments are dropped.
package bitbucket

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/dt-pm-tools/tracker-port/internal/mapping"
	"github.com/dt-pm-tools/tracker-port/internal/model"
)

// Options configures one import run. The maps are loaded once by the
// caller and never mutated here.
type Options struct {
	// WontfixClosed controls whether "wontfix" issues count as closed.
	WontfixClosed bool
	// Login is the acting operator's target-system handle. A resolved
	// identity equal to it is suppressed (no attribution rendered).
	Login      string
	Identities mapping.IdentityMap
	Commits    mapping.CommitMap
}

// noTextSentinel is the placeholder Google Code inserts for status
// changes submitted without a comment. Comments carrying only this text
// are never materialized.
const noTextSentinel = "(No text was entered with this change)"

// googleCodeAnnotation matches the synthetic attribution line the
// Google Code migration appends to message bodies.
var googleCodeAnnotation = regexp.MustCompile("(?m)^Original (?:issue|comment) reported on code\\.google\\.com by `?([^`\\s]+)`? on .*$")

// Import decodes an export document and builds the normalized model in
// ascending issue id order. Any vocabulary, timestamp, or structural
// violation aborts the whole run with no partial output.
func Import(r io.Reader, opts Options) ([]model.Issue, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return convert(&export, opts)
}

func convert(export *Export, opts Options) ([]model.Issue, error) {
	commentsByIssue := make(map[int][]ExportComment)
	for _, c := range export.Comments {
		commentsByIssue[c.Issue] = append(commentsByIssue[c.Issue], c)
	}
	for _, cs := range commentsByIssue {
		sort.SliceStable(cs, func(i, j int) bool {
			if cs[i].CreatedOn != cs[j].CreatedOn {
				return cs[i].CreatedOn < cs[j].CreatedOn
			}
			return cs[i].ID < cs[j].ID
		})
	}

	logsByIssue := make(map[int][]ExportLog)
	for _, l := range export.Logs {
		logsByIssue[l.Issue] = append(logsByIssue[l.Issue], l)
	}
	for _, ls := range logsByIssue {
		sort.SliceStable(ls, func(i, j int) bool {
			return ls[i].CreatedOn < ls[j].CreatedOn
		})
	}

	sorted := make([]ExportIssue, len(export.Issues))
	copy(sorted, export.Issues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	seen := make(map[int]bool)
	issues := make([]model.Issue, 0, len(sorted))
	for _, src := range sorted {
		if seen[src.ID] {
			return nil, fmt.Errorf("duplicate issue id %d in export", src.ID)
		}
		seen[src.ID] = true

		issue, err := convertIssue(src, commentsByIssue[src.ID], logsByIssue[src.ID], opts)
		if err != nil {
			return nil, fmt.Errorf("issue %d: %w", src.ID, err)
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func convertIssue(src ExportIssue, comments []ExportComment, logs []ExportLog, opts Options) (model.Issue, error) {
	closed, labels, err := statusEffect(src.Status, opts.WontfixClosed)
	if err != nil {
		return model.Issue{}, err
	}

	kindLabel, err := kindEffect(src.Kind)
	if err != nil {
		return model.Issue{}, err
	}
	// Validity label wins: "invalid" suppresses the kind label.
	if kindLabel != "" && !containsLabel(labels, "invalid") {
		labels = append(labels, kindLabel)
	}

	createdAt, err := model.NormalizeTimestamp(src.CreatedOn)
	if err != nil {
		return model.Issue{}, fmt.Errorf("created_on: %w", err)
	}
	updatedAt, err := model.NormalizeTimestamp(src.UpdatedOn)
	if err != nil {
		return model.Issue{}, fmt.Errorf("updated_on: %w", err)
	}

	closedAt := ""
	if closed {
		closedAt, err = inferClosedAt(logs, comments)
		if err != nil {
			return model.Issue{}, fmt.Errorf("closing timestamp: %w", err)
		}
	}

	body := model.NormalizeBody(src.Content)
	reporter, body := resolveIdentity(src.Reporter, body, opts)
	body = model.NormalizeBody(opts.Commits.Rewrite(body))

	issue := model.Issue{
		ID:        src.ID,
		Title:     src.Title,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		ClosedAt:  closedAt,
		Closed:    closed,
		Labels:    labels,
		Body:      body,
		Reporter:  reporter,
	}

	for _, c := range comments {
		comment, keep, err := convertComment(c, opts)
		if err != nil {
			return model.Issue{}, fmt.Errorf("comment %d: %w", c.ID, err)
		}
		if keep {
			issue.Comments = append(issue.Comments, comment)
		}
	}
	return issue, nil
}

func convertComment(src ExportComment, opts Options) (model.Comment, bool, error) {
	createdAt, err := model.NormalizeTimestamp(src.CreatedOn)
	if err != nil {
		return model.Comment{}, false, fmt.Errorf("created_on: %w", err)
	}

	body := model.NormalizeBody(src.Content)
	author, body := resolveIdentity(src.User, body, opts)
	body = model.NormalizeBody(opts.Commits.Rewrite(body))

	if isEmptyComment(body) {
		return model.Comment{}, false, nil
	}
	return model.Comment{CreatedAt: createdAt, Body: body, Author: author}, true, nil
}

// isEmptyComment reports whether a normalized body carries no content
// worth materializing: nothing at all, or the Google Code no-text
// sentinel (bare or wrapped in a code fence).
func isEmptyComment(body string) bool {
	switch body {
	case "", noTextSentinel, "```\n" + noTextSentinel + "\n```":
		return true
	}
	return false
}

// statusEffect maps a recognized source status to a closed flag and its
// derived labels. The vocabulary is closed; anything else is an error.
func statusEffect(status string, wontfixClosed bool) (bool, []string, error) {
	switch status {
	case "new", "open":
		return false, nil, nil
	case "resolved", "closed":
		return true, nil, nil
	case "invalid":
		return true, []string{"invalid"}, nil
	case "duplicate":
		return true, []string{"duplicate"}, nil
	case "wontfix":
		return wontfixClosed, []string{"wontfix"}, nil
	case "on hold":
		return false, []string{"on-hold"}, nil
	}
	return false, nil, fmt.Errorf("unrecognized status %q", status)
}

// kindEffect maps a recognized issue kind to its label.
func kindEffect(kind string) (string, error) {
	switch kind {
	case "bug", "enhancement", "task", "proposal":
		return kind, nil
	}
	return "", fmt.Errorf("unrecognized kind %q", kind)
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// inferClosedAt picks the closing time of a closed issue: the last
// status-change log entry if any, else the last comment, else none.
// Both inputs arrive pre-sorted by creation time.
func inferClosedAt(logs []ExportLog, comments []ExportComment) (string, error) {
	if len(logs) > 0 {
		return model.NormalizeTimestamp(logs[len(logs)-1].CreatedOn)
	}
	if len(comments) > 0 {
		return model.NormalizeTimestamp(comments[len(comments)-1].CreatedOn)
	}
	return "", nil
}

// resolveIdentity determines how a reporter or comment author is
// attributed, possibly consuming a migration annotation from the body.
// Three cases: no recorded author (scan for the Google Code annotation
// and strip it), a recorded handle resolved through the identity map,
// and a recorded handle with no mapping (rendered as the literal source
// handle). A resolved handle equal to the operator's own login is
// suppressed entirely.
func resolveIdentity(user, body string, opts Options) (model.Identity, string) {
	if user == "" {
		m := googleCodeAnnotation.FindStringSubmatch(body)
		if m == nil {
			return model.Identity{Kind: model.IdentityNone}, body
		}
		body = model.NormalizeBody(googleCodeAnnotation.ReplaceAllString(body, ""))
		handle := m[1]
		// Google Code recorded bare usernames; default to the implied
		// mail address before consulting the identity map.
		if !strings.Contains(handle, "@") {
			handle += "@gmail.com"
		}
		if target, ok := opts.Identities.Lookup(handle); ok {
			return mappedIdentity(target, opts.Login), body
		}
		return model.Identity{Kind: model.IdentitySource, Handle: handle, Origin: model.OriginGoogleCode}, body
	}

	if target, ok := opts.Identities.Lookup(user); ok {
		return mappedIdentity(target, opts.Login), body
	}
	return model.Identity{Kind: model.IdentitySource, Handle: user, Origin: model.OriginBitbucket}, body
}

func mappedIdentity(target, login string) model.Identity {
	if target == login {
		return model.Identity{Kind: model.IdentityNone}
	}
	return model.Identity{Kind: model.IdentityTarget, Handle: target}
}

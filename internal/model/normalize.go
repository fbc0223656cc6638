package model

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts covers the shapes seen in tracker exports: T- or
// space-separated, with or without fractional seconds, with or without
// a UTC offset.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// normalizedLayout is the canonical 19-character timestamp form used in
// the directive format: UTC, second precision, no offset suffix.
const normalizedLayout = "2006-01-02T15:04:05"

// NormalizeTimestamp converts an ISO-8601-like timestamp to the
// canonical 19-character UTC form. Fractional seconds and offsets are
// normalized away; anything unparseable is an error, never coerced.
func NormalizeTimestamp(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		out := t.UTC().Format(normalizedLayout)
		if len(out) != len(normalizedLayout) {
			return "", fmt.Errorf("timestamp %q normalized to unexpected length %d", s, len(out))
		}
		return out, nil
	}
	return "", fmt.Errorf("unparseable timestamp %q", s)
}

// NormalizeBody canonicalizes free text: CRLF to LF, surrounding
// whitespace trimmed. Interior blank lines are preserved.
func NormalizeBody(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}

package directive_test

import (
	"strings"
	"testing"

	"github.com/dt-pm-tools/tracker-port/internal/bitbucket"
	"github.com/dt-pm-tools/tracker-port/internal/directive"
	"github.com/dt-pm-tools/tracker-port/internal/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the full conversion path: export JSON through the importer,
// out as directive text, and back through the parser.
func TestExportToDirectiveAndBack(t *testing.T) {
	export := `{
		"issues": [{
			"id": 4,
			"title": "Everything is broken",
			"content": "Since deadbeef00 nothing works.",
			"created_on": "2016-03-01T10:00:00.123456+00:00",
			"updated_on": "2016-03-05T10:00:00+00:00",
			"status": "duplicate",
			"kind": "bug",
			"reporter": "bbuser"
		}],
		"comments": [
			{"id": 1, "issue": 4, "user": "ghmapped-src", "content": "Agreed.", "created_on": "2016-03-02T10:00:00+00:00"}
		],
		"logs": [
			{"issue": 4, "created_on": "2016-03-04T10:00:00+00:00"}
		]
	}`

	commits := make(mapping.CommitMap)
	commits.Add("abcdef1234567890", "deadbeef00")
	identities := mapping.IdentityMap{"ghmapped-src": "ghmapped"}

	issues, err := bitbucket.Import(strings.NewReader(export), bitbucket.Options{
		Identities: identities,
		Commits:    commits,
	})
	require.NoError(t, err)

	doc, err := directive.Unmarshal(strings.NewReader(directive.Marshal(issues)))
	require.NoError(t, err)

	parsed := doc.Issues[4]
	require.NotNil(t, parsed)
	assert.Equal(t, "Everything is broken", parsed.Issue.Title)
	assert.Equal(t, "2016-03-01T10:00:00Z", parsed.Issue.CreatedAt)
	assert.Equal(t, "2016-03-04T10:00:00Z", parsed.Issue.ClosedAt, "closing time inferred from the status log")
	assert.True(t, parsed.Issue.Closed)
	assert.Equal(t, []string{"duplicate", "bug"}, parsed.Issue.Labels)
	assert.Equal(t, "Issue reported by bbuser at Bitbucket.\n\nSince abcdef1234567890 nothing works.", parsed.Issue.Body())
	require.Len(t, parsed.Comments, 1)
	assert.Equal(t, "Original comment by @ghmapped.\n\nAgreed.", parsed.Comments[0].Body())
}

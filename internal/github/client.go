// Package github drives the remote half of a migration: it serializes
// parsed issue records into issue-import API payloads, submits them one
// at a time, and polls each import until it reaches a terminal status.
package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dt-pm-tools/tracker-port/internal/config"
)

// acceptHeader selects the issue-import preview API.
const acceptHeader = "application/vnd.github.golden-comet-preview+json"

// Client is a GitHub issue-import API client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a new client from the given config.
func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		authHeader: "token " + cfg.Token,
		httpClient: &http.Client{},
	}
}

// ImportPayload is the wire shape for one issue submission.
type ImportPayload struct {
	Issue    ImportIssue     `json:"issue"`
	Comments []ImportComment `json:"comments,omitempty"`
}

// ImportIssue carries the issue fields of an import payload.
type ImportIssue struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
	ClosedAt  string   `json:"closed_at,omitempty"`
	Closed    bool     `json:"closed"`
	Labels    []string `json:"labels,omitempty"`
}

// ImportComment carries one comment of an import payload.
type ImportComment struct {
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ImportStatus is the service's acknowledgement: a polling URL plus a
// status token, and on success the URL of the created issue.
type ImportStatus struct {
	ID       int             `json:"id"`
	Status   string          `json:"status"`
	URL      string          `json:"url"`
	IssueURL string          `json:"issue_url"`
	Errors   json.RawMessage `json:"errors,omitempty"`
}

// SubmitImport posts one issue to the import endpoint of owner/repo.
func (c *Client) SubmitImport(repo string, payload ImportPayload) (*ImportStatus, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/import/issues", c.baseURL, repo)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling payload: %w", err)
	}

	req, err := http.NewRequest("POST", reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	return c.do(req)
}

// CheckImport polls a previously returned status URL. The URL must
// share the configured API origin; anything else is refused outright
// rather than followed.
func (c *Client) CheckImport(statusURL string) (*ImportStatus, error) {
	if err := c.CheckOrigin(statusURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	return c.do(req)
}

// CheckOrigin verifies that a service-returned URL belongs to the
// trusted API origin.
func (c *Client) CheckOrigin(rawURL string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parsing API base URL: %w", err)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing returned URL %q: %w", rawURL, err)
	}
	if u.Scheme != base.Scheme || u.Host != base.Host {
		return fmt.Errorf("refusing to follow %q: origin does not match %s", rawURL, c.baseURL)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*ImportStatus, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("import API returned %d: %s", resp.StatusCode, string(body))
	}

	var status ImportStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &status, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", acceptHeader)
}

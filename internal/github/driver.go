package github

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dt-pm-tools/tracker-port/internal/directive"
)

// Poll pacing. Each issue gets a fresh backoff: the first pending
// status waits pollBaseDelay, every subsequent one 1.5x the previous.
const (
	pollBaseDelay  = 1 * time.Second
	pollMultiplier = 1.5
)

// Driver submits parsed issues in ascending id order and polls each
// import until terminal. Strictly sequential: the whole run blocks
// during every poll-sleep interval.
type Driver struct {
	client *Client
	repo   string

	// Out receives progress output; defaults to stdout.
	Out io.Writer

	baseDelay  time.Duration
	multiplier float64
	sleep      func(time.Duration)
}

// NewDriver creates a driver targeting owner/repo.
func NewDriver(client *Client, repo string) *Driver {
	return &Driver{
		client:     client,
		repo:       repo,
		Out:        os.Stdout,
		baseDelay:  pollBaseDelay,
		multiplier: pollMultiplier,
		sleep:      time.Sleep,
	}
}

// Run imports every issue in the document. A status outside
// {pending, imported} aborts the entire run: the service's status
// vocabulary is trusted completely and deviation is treated as an
// outage, not a transient condition.
func (d *Driver) Run(doc *directive.Document) error {
	for _, id := range doc.SortedIDs() {
		if err := d.importOne(id, doc.Issues[id]); err != nil {
			return fmt.Errorf("importing issue %d: %w", id, err)
		}
	}
	return nil
}

func (d *Driver) importOne(id int, parsed *directive.ParsedIssue) error {
	fmt.Fprintf(d.Out, "creating issue %d ...", id)

	status, err := d.client.SubmitImport(d.repo, PayloadFor(parsed))
	if err != nil {
		fmt.Fprintln(d.Out)
		return err
	}

	bo := d.newBackoff()
	for status.Status == "pending" {
		if err := d.client.CheckOrigin(status.URL); err != nil {
			fmt.Fprintln(d.Out)
			return err
		}
		d.sleep(bo.NextBackOff())
		fmt.Fprint(d.Out, ".")
		status, err = d.client.CheckImport(status.URL)
		if err != nil {
			fmt.Fprintln(d.Out)
			return err
		}
	}

	if status.Status != "imported" {
		fmt.Fprintln(d.Out)
		if len(status.Errors) > 0 {
			return fmt.Errorf("import ended with status %q: %s", status.Status, status.Errors)
		}
		return fmt.Errorf("import ended with status %q", status.Status)
	}

	fmt.Fprintf(d.Out, " %s\n", status.IssueURL)
	return nil
}

// newBackoff returns a fresh poll backoff. BackOff implementations are
// stateful; always return a fresh instance per submission.
func (d *Driver) newBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.baseDelay
	bo.Multiplier = d.multiplier
	bo.RandomizationFactor = 0
	bo.MaxInterval = 5 * time.Minute
	bo.MaxElapsedTime = 0
	return bo
}

// PayloadFor converts one parsed issue block into the wire payload.
func PayloadFor(parsed *directive.ParsedIssue) ImportPayload {
	rec := parsed.Issue
	payload := ImportPayload{
		Issue: ImportIssue{
			Title:     rec.Title,
			Body:      rec.Body(),
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			ClosedAt:  rec.ClosedAt,
			Closed:    rec.Closed,
			Labels:    rec.Labels,
		},
	}
	for _, c := range parsed.Comments {
		payload.Comments = append(payload.Comments, ImportComment{
			Body:      c.Body(),
			CreatedAt: c.CreatedAt,
		})
	}
	return payload
}

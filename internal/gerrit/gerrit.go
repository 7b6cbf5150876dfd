package gerrit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"
)

// xssiPrefix is prepended by Gerrit to all JSON responses to prevent
// cross-site script inclusion.
const xssiPrefix = ")]}'"

// Client provides access to the Gerrit REST API.
type Client struct {
	baseURL  string
	username string
	password string
	httpCli  *http.Client
}

// NewClient creates a new Gerrit client. The base URL comes from the
// argument or the GERRIT_URL env var; credentials come from
// GERRIT_USERNAME and GERRIT_PASSWORD.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = os.Getenv("GERRIT_URL")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("gerrit URL is not configured (set GERRIT_URL or gerrit.url)")
	}
	username := os.Getenv("GERRIT_USERNAME")
	password := os.Getenv("GERRIT_PASSWORD")
	if username == "" || password == "" {
		return nil, fmt.Errorf("GERRIT_USERNAME and GERRIT_PASSWORD environment variables are not set")
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpCli:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// doJSON performs an authenticated request against /a/<endpoint>, strips
// the XSSI prefix, and decodes the JSON body into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, payload, out any) error {
	u := c.baseURL + "/a/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("gerrit request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return fmt.Errorf("gerrit resource not found: %s", endpoint)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("gerrit authentication failed: %s", string(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gerrit API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	trimmed := bytes.TrimPrefix(respBody, []byte(xssiPrefix))
	if len(bytes.TrimSpace(trimmed)) == 0 {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("parsing gerrit response: %w", err)
	}
	return nil
}

// ChangeInfo identifies a change and the patch set under review.
type ChangeInfo struct {
	ChangeID     string `json:"change_id"`
	ChangeNumber string `json:"change_number"`
	RevisionID   string `json:"revision_id"`
	Project      string `json:"project"`
	Branch       string `json:"branch"`
	Subject      string `json:"subject"`
	Owner        string `json:"owner"`
	OwnerEmail   string `json:"owner_email"`
}

// WebhookEvent is the payload Gerrit sends on patchset events.
type WebhookEvent struct {
	EventType string `json:"eventType"`
	Change    struct {
		ID      string      `json:"id"`
		Number  json.Number `json:"number"`
		Project string      `json:"project"`
		Branch  string      `json:"branch"`
		Subject string      `json:"subject"`
		Owner   struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"owner"`
	} `json:"change"`
	PatchSet struct {
		Revision string `json:"revision"`
	} `json:"patchSet"`
}

// ErrIgnoredEvent reports a webhook event type this integration does not
// act on. Callers should treat it as a no-op, not a failure.
var ErrIgnoredEvent = errors.New("event type not handled")

// ExtractChangeInfo validates a webhook payload and extracts the change
// identifiers. It owns the event filter: anything but patchset-created
// (including an absent eventType) comes back as ErrIgnoredEvent.
func ExtractChangeInfo(ev WebhookEvent) (ChangeInfo, error) {
	if ev.EventType != "patchset-created" {
		return ChangeInfo{}, fmt.Errorf("%w: %q", ErrIgnoredEvent, ev.EventType)
	}
	if ev.Change.ID == "" || ev.PatchSet.Revision == "" {
		return ChangeInfo{}, fmt.Errorf("webhook payload missing change or patchSet")
	}
	return ChangeInfo{
		ChangeID:     ev.Change.ID,
		ChangeNumber: ev.Change.Number.String(),
		RevisionID:   ev.PatchSet.Revision,
		Project:      ev.Change.Project,
		Branch:       ev.Change.Branch,
		Subject:      ev.Change.Subject,
		Owner:        ev.Change.Owner.Name,
		OwnerEmail:   ev.Change.Owner.Email,
	}, nil
}

// GetCommitMessage fetches the commit message for a revision.
func (c *Client) GetCommitMessage(ctx context.Context, changeID, revisionID string) (string, error) {
	var commit struct {
		Message string `json:"message"`
	}
	endpoint := fmt.Sprintf("changes/%s/revisions/%s/commit", changeID, revisionID)
	if err := c.doJSON(ctx, "GET", endpoint, nil, nil, &commit); err != nil {
		return "", err
	}
	return commit.Message, nil
}

// GetChangeFiles fetches the set of files changed in a revision.
func (c *Client) GetChangeFiles(ctx context.Context, changeID, revisionID string) ([]string, error) {
	files := map[string]json.RawMessage{}
	endpoint := fmt.Sprintf("changes/%s/revisions/%s/files", changeID, revisionID)
	if err := c.doJSON(ctx, "GET", endpoint, nil, nil, &files); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		if name == "/COMMIT_MSG" {
			continue
		}
		names = append(names, name)
	}
	// Map iteration order would otherwise leak into the assembled patch,
	// changing the prompt (and its cache key) between identical webhooks.
	sort.Strings(names)
	return names, nil
}

// diffContent mirrors Gerrit's diff content blocks: ab for context lines,
// a for deletions, b for additions.
type diffContent struct {
	AB []string `json:"ab"`
	A  []string `json:"a"`
	B  []string `json:"b"`
}

// GetFileDiff fetches the diff of one file and renders it as unified text.
func (c *Client) GetFileDiff(ctx context.Context, changeID, revisionID, path string) (string, error) {
	var diff struct {
		Content []diffContent `json:"content"`
	}
	endpoint := fmt.Sprintf("changes/%s/revisions/%s/files/%s/diff", changeID, revisionID, url.PathEscape(path))
	query := url.Values{"context": {"ALL"}, "intraline": {"true"}}
	if err := c.doJSON(ctx, "GET", endpoint, query, nil, &diff); err != nil {
		return "", err
	}
	return formatDiff(diff.Content), nil
}

func formatDiff(content []diffContent) string {
	var sb strings.Builder
	for _, block := range content {
		for _, line := range block.AB {
			sb.WriteString(" " + line + "\n")
		}
		for _, line := range block.A {
			sb.WriteString("-" + line + "\n")
		}
		for _, line := range block.B {
			sb.WriteString("+" + line + "\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// GetPatch assembles the commit message and all file diffs of a revision
// into a single text blob suitable for analysis.
func (c *Client) GetPatch(ctx context.Context, info ChangeInfo) (string, error) {
	msg, err := c.GetCommitMessage(ctx, info.ChangeID, info.RevisionID)
	if err != nil {
		return "", fmt.Errorf("fetching commit message: %w", err)
	}
	files, err := c.GetChangeFiles(ctx, info.ChangeID, info.RevisionID)
	if err != nil {
		return "", fmt.Errorf("fetching changed files: %w", err)
	}

	var sb strings.Builder
	if msg != "" {
		sb.WriteString("Commit message:\n")
		sb.WriteString(msg)
		sb.WriteString("\n\n")
	}
	for _, path := range files {
		diff, err := c.GetFileDiff(ctx, info.ChangeID, info.RevisionID, path)
		if err != nil {
			return "", fmt.Errorf("fetching diff for %s: %w", path, err)
		}
		if diff == "" {
			continue
		}
		sb.WriteString("File: " + path + "\n")
		sb.WriteString(diff)
		sb.WriteString("\n\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// ReviewInput is the payload for posting a review on a revision.
type ReviewInput struct {
	Message string         `json:"message"`
	Labels  map[string]int `json:"labels,omitempty"`
}

// PostReview posts a review message and Code-Review vote on a revision.
func (c *Client) PostReview(ctx context.Context, changeID, revisionID string, input ReviewInput) error {
	endpoint := fmt.Sprintf("changes/%s/revisions/%s/review", changeID, revisionID)
	return c.doJSON(ctx, "POST", endpoint, nil, input, nil)
}

// ScoreLabel maps an overall analysis score to a Code-Review vote:
// +1 at or above the minimum passing score, -1 below it.
func ScoreLabel(overall, minScore float64) int {
	if overall >= minScore {
		return 1
	}
	return -1
}

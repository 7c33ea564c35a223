package toggl

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toggl-report/internal/coerce"
	"toggl-report/internal/domain"
)

// DefaultBaseURL is the public Toggl Track host.
const DefaultBaseURL = "https://api.track.toggl.com"

// StatusError is returned when Toggl answers with a non-200 status.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("toggl: %s: unexpected status %d: %s", e.Path, e.Code, e.Body)
}

// Client implements ports.TogglClient using the Toggl Track API v9.
type Client struct {
	baseURL   string
	apiToken  string
	http      *http.Client
	workspace int64
	log       *slog.Logger
}

func NewClient(baseURL, apiToken string, workspaceID int64, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiToken:  apiToken,
		workspace: workspaceID,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListTimeEntries fetches one page of the caller's entries.
// Toggl v9: GET /api/v9/me/time_entries?meta=true&(before=...|start_date=...&end_date=...)
func (c *Client) ListTimeEntries(ctx context.Context, start, end *time.Time) ([]domain.TimeEntry, error) {
	var raw []map[string]any
	if err := c.get(ctx, "/api/v9/me/time_entries", RangeParams(start, end), &raw); err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(raw))
	for _, r := range raw {
		rec := coerce.Coerce(domain.TimeEntrySchema, r)
		c.warnMissing("time entry", rec)
		out = append(out, domain.TimeEntryFromRecord(rec))
	}
	return out, nil
}

// GetProject fetches a single project. A zero workspaceID falls back to the
// configured workspace.
func (c *Client) GetProject(ctx context.Context, workspaceID, projectID int64) (domain.Project, error) {
	if workspaceID == 0 {
		workspaceID = c.workspace
	}
	if workspaceID == 0 {
		return domain.Project{}, fmt.Errorf("toggl: project %d: no workspace id", projectID)
	}
	var raw map[string]any
	path := fmt.Sprintf("/api/v9/workspaces/%d/projects/%d", workspaceID, projectID)
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return domain.Project{}, err
	}
	rec := coerce.Coerce(domain.ProjectSchema, raw)
	c.warnMissing("project", rec)
	return domain.ProjectFromRecord(rec), nil
}

// ListProjects fetches projects accessible to the configured token.
// If a workspace ID is configured, it scopes the request to that workspace.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	path := "/api/v9/me/projects"
	if c.workspace != 0 {
		path = fmt.Sprintf("/api/v9/workspaces/%d/projects", c.workspace)
	}
	var raw []map[string]any
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(raw))
	for _, r := range raw {
		rec := coerce.Coerce(domain.ProjectSchema, r)
		c.warnMissing("project", rec)
		out = append(out, domain.ProjectFromRecord(rec))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiToken == "" {
		return errors.New("missing api token")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	u.Path = path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	// Basic auth: token:api_token
	auth := base64.StdEncoding.EncodeToString([]byte(c.apiToken + ":api_token"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("toggl request", slog.String("path", path), slog.String("query", u.RawQuery))
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("toggl: decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) warnMissing(kind string, rec coerce.Record) {
	if missing := rec.Missing(); len(missing) > 0 {
		c.log.Warn("toggl payload missing required fields",
			slog.String("record", kind),
			slog.Any("fields", missing),
		)
	}
}

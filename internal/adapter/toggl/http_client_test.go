package toggl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListTimeEntries(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v9/me/time_entries", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 1, "project_id": 3, "start": "2024-01-01T09:00:00Z", "stop": "2024-01-01T10:00:00Z", "duration": 3600, "tags": ["a"], "surprise": {"x": 1}},
			{"id": 2, "project_id": null, "start": "2024-01-01T11:00:00", "stop": null, "duration": -1704106800}
		]`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "tok", 0, testLogger())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	entries, err := c.ListTimeEntries(context.Background(), &start, &end)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "end_date=2024-01-02T00%3A00%3A00Z&meta=true&start_date=2024-01-01T00%3A00%3A00Z", gotQuery)
	// base64("tok:api_token")
	assert.Equal(t, "Basic dG9rOmFwaV90b2tlbg==", gotAuth)

	assert.Equal(t, int64(3), *entries[0].ProjectID)
	assert.Equal(t, time.Hour, *entries[0].Duration)
	assert.Nil(t, entries[1].ProjectID)
	assert.True(t, entries[1].Running())
	assert.Nil(t, entries[1].Duration)
}

func TestListTimeEntries_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "start_date must not be after end_date", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "tok", 0, testLogger())
	_, err := c.ListTimeEntries(context.Background(), nil, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "/api/v9/me/time_entries", se.Path)
	assert.Contains(t, se.Body, "start_date must not be after end_date")
}

func TestGetProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v9/workspaces/456/projects/3":
			_, _ = io.WriteString(w, `{"id": 3, "workspace_id": 456, "name": "Backend", "active": true, "billable": false, "rate": 10, "estimated_duration": 7200}`)
		case "/api/v9/workspaces/789/projects/4":
			_, _ = io.WriteString(w, `{"id": 4, "name": "Other"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", "tok", 456, testLogger())

	p, err := c.GetProject(context.Background(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, "Backend", *p.Name)
	assert.Equal(t, 2*time.Hour, *p.EstimatedDuration)
	assert.Equal(t, float64(10), *p.Rate)

	p, err = c.GetProject(context.Background(), 789, 4)
	require.NoError(t, err)
	assert.Equal(t, "Other", *p.Name)

	_, err = c.GetProject(context.Background(), 0, 99)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestGetProject_NoWorkspace(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "tok", 0, testLogger())
	_, err := c.GetProject(context.Background(), 0, 3)
	assert.ErrorContains(t, err, "no workspace id")
}

func TestListProjects_ScopedToWorkspace(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `[{"id": 1, "name": "A"}, {"name": "no id"}]`)
	}))
	t.Cleanup(srv.Close)

	projects, err := NewClient(srv.URL, "tok", 456, testLogger()).ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Nil(t, projects[1].ID)

	_, err = NewClient(srv.URL, "tok", 0, testLogger()).ListProjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/v9/workspaces/456/projects", "/api/v9/me/projects"}, paths)
}

func TestMissingToken(t *testing.T) {
	c := NewClient("", "", 0, testLogger())
	_, err := c.ListTimeEntries(context.Background(), nil, nil)
	assert.EqualError(t, err, "missing api token")
}

func TestNewClient_BaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("", "tok", 0, testLogger()).baseURL)
	assert.Equal(t, "http://localhost:8080", NewClient("http://localhost:8080/", "tok", 0, testLogger()).baseURL)
}

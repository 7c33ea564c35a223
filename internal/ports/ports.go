package ports

import (
	"context"
	"time"

	"toggl-report/internal/domain"
)

// TogglClient defines methods to fetch time entries and projects from Toggl.
type TogglClient interface {
	// ListTimeEntries returns entries before end, or in [start, end] when start is set.
	// A nil end means now.
	ListTimeEntries(ctx context.Context, start, end *time.Time) ([]domain.TimeEntry, error)
	GetProject(ctx context.Context, workspaceID, projectID int64) (domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Sink receives fetched records and writes them to an export target.
// Nothing is read back from a sink.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
	SyncProjects(ctx context.Context, projects []domain.Project) error
}

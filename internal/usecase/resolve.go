package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"toggl-report/internal/domain"
)

// DefaultFetchInterval is the fixed pause before each project request.
const DefaultFetchInterval = time.Second

// ProjectFetcher loads one project by id.
type ProjectFetcher func(ctx context.Context, projectID int64) (domain.Project, error)

// ProjectResolver loads the projects referenced by a batch of entries, one
// request at a time.
type ProjectResolver struct {
	Log      *slog.Logger
	Interval time.Duration                                    // default: DefaultFetchInterval
	Sleep    func(ctx context.Context, d time.Duration) error // default: sleepContext
}

// DistinctProjectIDs returns each non-absent project id once, ascending.
func DistinctProjectIDs(entries []domain.TimeEntry) []int64 {
	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if e.ProjectID == nil {
			continue
		}
		if _, ok := seen[*e.ProjectID]; ok {
			continue
		}
		seen[*e.ProjectID] = struct{}{}
		ids = append(ids, *e.ProjectID)
	}
	slices.Sort(ids)
	return ids
}

// Resolve fetches every distinct project referenced by entries, pausing
// Interval before each request. A failed id is logged and skipped; the
// returned error joins all failures while projects holds every success.
// Cancelling ctx stops the loop.
func (r *ProjectResolver) Resolve(ctx context.Context, entries []domain.TimeEntry, fetch ProjectFetcher) ([]domain.Project, error) {
	interval := r.Interval
	if interval < DefaultFetchInterval {
		interval = DefaultFetchInterval
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	ids := DistinctProjectIDs(entries)
	projects := make([]domain.Project, 0, len(ids))
	var errs []error
	for _, id := range ids {
		if err := sleep(ctx, interval); err != nil {
			errs = append(errs, err)
			break
		}
		p, err := fetch(ctx, id)
		if err != nil {
			log.Error("failed to fetch project", slog.Int64("project_id", id), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("project %d: %w", id, err))
			continue
		}
		projects = append(projects, p)
	}
	log.Debug("resolved projects", slog.Int("requested", len(ids)), slog.Int("resolved", len(projects)))
	return projects, errors.Join(errs...)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"toggl-report/internal/domain"
	"toggl-report/internal/ports"
)

// Window selects the entries to fetch. A nil Start issues the open-ended
// "everything before End" query; a nil End means now.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Report is the outcome of one run.
type Report struct {
	RunID    string
	Entries  []domain.TimeEntry // sorted by start
	Projects []domain.Project
}

// SyncUseCase coordinates fetching from Toggl, resolving referenced projects
// and optionally exporting to a Sink.
type SyncUseCase struct {
	Log      *slog.Logger
	Toggl    ports.TogglClient
	Sink     ports.Sink // optional
	Resolver *ProjectResolver
	// WorkspaceID is used for project lookups when an entry carries none.
	WorkspaceID int64
}

// Run fetches entries for w and resolves their projects. Project failures do
// not fail the run: they are logged and the Report carries what resolved.
func (uc *SyncUseCase) Run(ctx context.Context, w Window) (Report, error) {
	if uc.Toggl == nil || uc.Resolver == nil {
		return Report{}, errors.New("usecase not initialized: missing dependencies")
	}
	rep := Report{RunID: uuid.NewString()}
	log := uc.Log.With(slog.String("run_id", rep.RunID))
	log.Info("fetching time entries", slog.Any("from", w.Start), slog.Any("to", w.End))

	entries, err := uc.Toggl.ListTimeEntries(ctx, w.Start, w.End)
	if err != nil {
		return rep, err
	}
	SortByStart(entries)
	rep.Entries = entries
	log.Info("fetched time entries", slog.Int("count", len(entries)))

	if len(entries) == 0 {
		log.Info("no entries to sync")
		return rep, nil
	}

	workspaces := projectWorkspaces(entries)
	projects, err := uc.Resolver.Resolve(ctx, entries, func(ctx context.Context, id int64) (domain.Project, error) {
		ws := workspaces[id]
		if ws == 0 {
			ws = uc.WorkspaceID
		}
		return uc.Toggl.GetProject(ctx, ws, id)
	})
	rep.Projects = projects
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rep, ctxErr
		}
		log.Warn("some projects could not be resolved", slog.String("error", err.Error()))
	}

	if uc.Sink == nil {
		return rep, nil
	}
	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return rep, err
	}
	if err := uc.Sink.SyncProjects(ctx, projects); err != nil {
		return rep, err
	}
	log.Info("sync completed", slog.Int("entries", len(entries)), slog.Int("projects", len(projects)))
	return rep, nil
}

// SortByStart orders entries by start time; entries without a start come first.
func SortByStart(entries []domain.TimeEntry) {
	slices.SortStableFunc(entries, func(a, b domain.TimeEntry) int {
		switch {
		case a.Start == nil && b.Start == nil:
			return 0
		case a.Start == nil:
			return -1
		case b.Start == nil:
			return 1
		}
		return a.Start.Compare(*b.Start)
	})
}

func projectWorkspaces(entries []domain.TimeEntry) map[int64]int64 {
	m := make(map[int64]int64)
	for _, e := range entries {
		if e.ProjectID != nil && e.WorkspaceID != nil {
			m[*e.ProjectID] = *e.WorkspaceID
		}
	}
	return m
}

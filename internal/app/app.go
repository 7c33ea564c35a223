package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	msql "toggl-report/internal/adapter/mysql"
	tg "toggl-report/internal/adapter/toggl"
	"toggl-report/internal/config"
	"toggl-report/internal/domain"
	"toggl-report/internal/migrate"
	"toggl-report/internal/ports"
	"toggl-report/internal/usecase"
)

// ErrSyncRunning is returned when a run is requested while another is in flight.
var ErrSyncRunning = errors.New("sync already running")

// App wires adapters and use cases.
type App struct {
	log   *slog.Logger
	toggl ports.TogglClient
	uc    *usecase.SyncUseCase
	sink  *msql.Client
	mu    sync.Mutex
}

// New builds the app. The MySQL sink is only opened when withSink is true,
// in which case cfg.MySQL.DSN is required and migrations run first.
func New(ctx context.Context, log *slog.Logger, cfg config.Config, withSink bool) (*App, error) {
	togglClient := tg.NewClient(cfg.Toggl.BaseURL, cfg.Toggl.APIToken, cfg.Toggl.WorkspaceID, log)
	a := &App{log: log, toggl: togglClient}
	a.uc = &usecase.SyncUseCase{
		Log:         log,
		Toggl:       togglClient,
		Resolver:    &usecase.ProjectResolver{Log: log, Interval: cfg.Toggl.FetchInterval},
		WorkspaceID: cfg.Toggl.WorkspaceID,
	}
	if !withSink {
		return a, nil
	}

	if cfg.MySQL.DSN == "" {
		return nil, errors.New("MYSQL_DSN is required for syncing")
	}
	// Run migrations before opening the sink for use
	if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
		return nil, err
	}
	sink, err := msql.NewClient(ctx, cfg.MySQL.DSN, log)
	if err != nil {
		return nil, err
	}
	a.sink = sink
	a.uc.Sink = sink
	return a, nil
}

// newWithUseCase is used by tests to inject fakes.
func newWithUseCase(log *slog.Logger, toggl ports.TogglClient, uc *usecase.SyncUseCase) *App {
	return &App{log: log, toggl: toggl, uc: uc}
}

// RunOnce performs one fetch/resolve (and export, when a sink is configured).
// Concurrent calls fail fast with ErrSyncRunning.
func (a *App) RunOnce(ctx context.Context, w usecase.Window) (usecase.Report, error) {
	if !a.mu.TryLock() {
		return usecase.Report{}, ErrSyncRunning
	}
	defer a.mu.Unlock()
	return a.uc.Run(ctx, w)
}

// Projects lists the workspace projects.
func (a *App) Projects(ctx context.Context) ([]domain.Project, error) {
	return a.toggl.ListProjects(ctx)
}

// Close releases the sink, if any.
func (a *App) Close() error {
	if a.sink == nil {
		return nil
	}
	return a.sink.Close()
}

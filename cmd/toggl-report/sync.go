package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"toggl-report/internal/app"
	"toggl-report/internal/usecase"
)

var (
	syncOnce     bool
	syncDaily    bool
	syncInterval time.Duration
	syncFrom     string
	syncTo       string
	serveAddr    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export entries and projects to MySQL (requires MYSQL_DSN)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := checkInterval(syncOnce, syncDaily, syncInterval); err != nil {
			return err
		}
		ctx := cmd.Context()
		win, err := app.ParseWindow(syncFrom, syncTo, false, time.Now().UTC())
		if err != nil {
			return err
		}
		a, err := app.New(ctx, log, cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		if syncOnce {
			if _, err := a.RunOnce(ctx, win); err != nil {
				return err
			}
			log.Info("sync completed")
			return nil
		}

		// Daily-at-midnight mode (default for container)
		if syncDaily {
			loc, err := time.LoadLocation(cfg.Sync.Timezone)
			if err != nil {
				return err
			}
			log.Info("starting daily sync at midnight", slog.String("tz", cfg.Sync.Timezone))
			return runDaily(ctx, log, a, loc)
		}

		return runPeriodic(ctx, log, a, win, syncInterval)
	},
}

// checkInterval rejects a non-positive --interval when the periodic loop would use it.
func checkInterval(once, daily bool, interval time.Duration) error {
	if once || daily || interval > 0 {
		return nil
	}
	return fmt.Errorf("--interval must be positive, got %s", interval)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose /sync and /healthz over HTTP (exports to MySQL when MYSQL_DSN is set)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := app.New(ctx, log, cfg, cfg.MySQL.DSN != "")
		if err != nil {
			return err
		}
		defer a.Close()

		addr := cfg.HTTP.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := a.HTTPServer(addr)
		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncOnce, "once", false, "Run a single sync and exit")
	syncCmd.Flags().BoolVar(&syncDaily, "daily", false, "Run at local midnight each day (uses SYNC_TZ, default UTC)")
	syncCmd.Flags().DurationVar(&syncInterval, "interval", 15*time.Minute, "Sync interval when not running once")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "Start time for the first run (default: to - 24h)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "End time for the first run (default: now)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: HTTP_ADDR or :8080)")
}

func runDaily(ctx context.Context, log *slog.Logger, a *app.App, loc *time.Location) error {
	for {
		next := nextMidnight(time.Now().In(loc))
		dur := time.Until(next)
		log.Info("sleeping until next midnight", slog.Time("next", next), slog.Duration("sleep", dur))
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-time.After(dur):
			// Window is [midnight-24h, midnight) in local tz, expressed in UTC
			end := next.UTC()
			start := end.Add(-24 * time.Hour)
			if _, err := a.RunOnce(ctx, usecase.Window{Start: &start, End: &end}); err != nil {
				log.Error("daily sync failed", slog.String("error", err.Error()))
			} else {
				log.Info("daily sync completed", slog.Time("from", start), slog.Time("to", end))
			}
		}
	}
}

func runPeriodic(ctx context.Context, log *slog.Logger, a *app.App, first usecase.Window, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("starting periodic sync", slog.Duration("interval", interval))
	// Kick off immediately
	if _, err := a.RunOnce(ctx, first); err != nil {
		log.Error("initial sync failed", slog.String("error", err.Error()))
	}
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-ticker.C:
			end := time.Now().UTC()
			start := end.Add(-24 * time.Hour)
			if _, err := a.RunOnce(ctx, usecase.Window{Start: &start, End: &end}); err != nil {
				log.Error("periodic sync failed", slog.String("error", err.Error()))
			}
		}
	}
}

// nextMidnight returns the next midnight strictly after t in t's location.
func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"toggl-report/internal/instant"
	"toggl-report/internal/usecase"
)

// HTTPServer returns a configured http.Server that exposes endpoints to trigger syncs.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(a.log, a.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http trigger server configured", slog.String("addr", addr))
	return srv
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// /sync?from=...&to=...&open=true&timeout=5m
	// from/to accept anything ParseWindow does. If omitted, defaults to [now-24h, now].
	mux.HandleFunc("/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		open, _ := strconv.ParseBool(q.Get("open"))
		win, err := ParseWindow(q.Get("from"), q.Get("to"), open, time.Now().UTC())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": err.Error()})
			return
		}

		ctx := r.Context()
		if tStr := q.Get("timeout"); tStr != "" {
			if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
		}

		rep, err := a.RunOnce(ctx, win)
		body := windowFields(win)
		body["run_id"] = rep.RunID
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrSyncRunning) {
				status = http.StatusConflict
			}
			body["status"] = "error"
			body["error"] = err.Error()
			writeJSON(w, status, body)
			return
		}
		body["status"] = "ok"
		body["entries"] = len(rep.Entries)
		body["projects"] = len(rep.Projects)
		writeJSON(w, http.StatusOK, body)
	})

	return mux
}

func windowFields(w usecase.Window) map[string]any {
	m := map[string]any{}
	if w.Start != nil {
		m["from"] = instant.RFC3339UTC(*w.Start)
	}
	if w.End != nil {
		m["to"] = instant.RFC3339UTC(*w.End)
	}
	return m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

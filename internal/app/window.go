package app

import (
	"fmt"
	"time"

	"toggl-report/internal/instant"
	"toggl-report/internal/usecase"
)

// ParseWindow turns --from/--to style strings into a run window.
// Empty to means now. Empty from means to-24h unless open is set, in which
// case the window has no start. A date-only to is inclusive: it becomes the
// following midnight UTC. Anything else goes through instant.Parse.
func ParseWindow(from, to string, open bool, now time.Time) (usecase.Window, error) {
	end := now
	if to != "" {
		t, err := parseBoundary(to, true)
		if err != nil {
			return usecase.Window{}, fmt.Errorf("invalid to: %w", err)
		}
		end = t
	}
	w := usecase.Window{End: &end}
	if from == "" {
		if !open {
			start := end.Add(-24 * time.Hour)
			w.Start = &start
		}
		return w, nil
	}
	start, err := parseBoundary(from, false)
	if err != nil {
		return usecase.Window{}, fmt.Errorf("invalid from: %w", err)
	}
	w.Start = &start
	return w, nil
}

func parseBoundary(val string, isEnd bool) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, val); err == nil {
		if isEnd {
			return d.AddDate(0, 0, 1), nil
		}
		return d, nil
	}
	return instant.Parse(val)
}

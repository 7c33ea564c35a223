// Package instant parses and renders the timestamps exchanged with Toggl.
package instant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DisplayLayout is the layout used for human-facing timestamps.
const DisplayLayout = "2006-01-02 15:04"

// ParseError reports a string that is not a recognizable date/time.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("instant: cannot parse %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads an ISO-8601-like or common date/time string.
// A string without zone information is taken to be UTC.
func Parse(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, &ParseError{Text: text, Err: errors.New("empty input")}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Text: text, Err: err}
	}
	return t, nil
}

// Display renders t in loc as YYYY-MM-DD HH:MM. A nil loc means the process's local zone.
func Display(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// LocalDisplay renders t in the process's local zone.
func LocalDisplay(t time.Time) string { return Display(t, nil) }

// RFC3339UTC renders t in UTC for outbound query parameters.
func RFC3339UTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

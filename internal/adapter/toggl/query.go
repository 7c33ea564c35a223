package toggl

import (
	"net/url"
	"time"

	"toggl-report/internal/instant"
)

// now is swapped in tests.
var now = time.Now

// RangeParams builds the query for GET /me/time_entries.
// A nil end means now. Without a start the query is open ended ("before");
// otherwise it is the closed range [start, end]. Inverted ranges are passed through.
func RangeParams(start, end *time.Time) url.Values {
	e := now()
	if end != nil {
		e = *end
	}
	q := url.Values{}
	q.Set("meta", "true")
	if start == nil {
		q.Set("before", instant.RFC3339UTC(e))
		return q
	}
	q.Set("start_date", instant.RFC3339UTC(*start))
	q.Set("end_date", instant.RFC3339UTC(e))
	return q
}

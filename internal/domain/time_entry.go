package domain

import (
	"fmt"
	"strings"
	"time"

	"toggl-report/internal/coerce"
	"toggl-report/internal/instant"
)

// RunningMarker is printed in place of the end time of an entry that has not stopped.
const RunningMarker = "still running"

// TimeEntrySchema is the Toggl v9 time entry payload.
var TimeEntrySchema = coerce.Schema{
	"at":                {Kind: coerce.Instant},
	"billable":          {Kind: coerce.Boolean},
	"client_name":       {Kind: coerce.String},
	"description":       {Kind: coerce.String},
	"duration":          {Kind: coerce.Duration},
	"duronly":           {Kind: coerce.Boolean},
	"id":                {Kind: coerce.Integer, Required: true},
	"project_color":     {Kind: coerce.String},
	"project_id":        {Kind: coerce.Integer},
	"project_name":      {Kind: coerce.String},
	"server_deleted_at": {Kind: coerce.Instant},
	"start":             {Kind: coerce.Instant, Required: true},
	"stop":              {Kind: coerce.Instant},
	"tag_ids":           {Kind: coerce.List},
	"tags":              {Kind: coerce.List},
	"task_id":           {Kind: coerce.Integer},
	"user_id":           {Kind: coerce.Integer},
	"workspace_id":      {Kind: coerce.Integer},
}

// TimeEntry represents a Toggl time entry in the domain.
// A nil field was absent or malformed in the payload.
type TimeEntry struct {
	ID              *int64
	At              *time.Time
	Billable        *bool
	ClientName      *string
	Description     *string
	Duration        *time.Duration // nil while running: Toggl reports a negative value
	DurOnly         *bool
	ProjectColor    *string
	ProjectID       *int64
	ProjectName     *string
	ServerDeletedAt *time.Time
	Start           *time.Time
	Stop            *time.Time
	TagIDs          []any
	Tags            []any
	TaskID          *int64
	UserID          *int64
	WorkspaceID     *int64
}

// TimeEntryFromRecord copies a coerced record into a TimeEntry.
func TimeEntryFromRecord(r coerce.Record) TimeEntry {
	return TimeEntry{
		ID:              r.Int("id"),
		At:              r.Time("at"),
		Billable:        r.Bool("billable"),
		ClientName:      r.Text("client_name"),
		Description:     r.Text("description"),
		Duration:        r.Duration("duration"),
		DurOnly:         r.Bool("duronly"),
		ProjectColor:    r.Text("project_color"),
		ProjectID:       r.Int("project_id"),
		ProjectName:     r.Text("project_name"),
		ServerDeletedAt: r.Time("server_deleted_at"),
		Start:           r.Time("start"),
		Stop:            r.Time("stop"),
		TagIDs:          r.List("tag_ids"),
		Tags:            r.List("tags"),
		TaskID:          r.Int("task_id"),
		UserID:          r.Int("user_id"),
		WorkspaceID:     r.Int("workspace_id"),
	}
}

// DecodeTimeEntry coerces one raw JSON object into a TimeEntry.
func DecodeTimeEntry(raw map[string]any) TimeEntry {
	return TimeEntryFromRecord(coerce.Coerce(TimeEntrySchema, raw))
}

// Running reports whether the entry has no stop time yet.
func (e TimeEntry) Running() bool { return e.Stop == nil }

// TagNames returns the string tags, skipping anything else.
func (e TimeEntry) TagNames() []string {
	out := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (e TimeEntry) String() string {
	end := RunningMarker
	if e.Stop != nil {
		end = instant.LocalDisplay(*e.Stop)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s (%s)\n", textOr(e.ProjectName), intOr(e.ID))
	fmt.Fprintf(&b, "Description: %s\n", textOr(e.Description))
	fmt.Fprintf(&b, "Tags: [%s]\n", strings.Join(e.TagNames(), ", "))
	fmt.Fprintf(&b, "Start: %s\n", timeOr(e.Start))
	fmt.Fprintf(&b, "End: %s", end)
	return b.String()
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"toggl-report/internal/coerce"
	"toggl-report/internal/instant"
)

// ProjectSchema is the Toggl v9 project payload.
var ProjectSchema = coerce.Schema{
	"active":               {Kind: coerce.Boolean},
	"actual_duration":      {Kind: coerce.Duration},
	"at":                   {Kind: coerce.Instant},
	"auto_estimates":       {Kind: coerce.Boolean},
	"billable":             {Kind: coerce.Boolean},
	"client_id":            {Kind: coerce.Integer},
	"color":                {Kind: coerce.String},
	"created_at":           {Kind: coerce.Instant},
	"currency":             {Kind: coerce.String},
	"current_period":       {Kind: coerce.Map},
	"end_date":             {Kind: coerce.Instant},
	"estimated_duration":   {Kind: coerce.Duration},
	"fixed_fee":            {Kind: coerce.Float},
	"id":                   {Kind: coerce.Integer, Required: true},
	"is_private":           {Kind: coerce.Boolean},
	"name":                 {Kind: coerce.String, Required: true},
	"permissions":          {Kind: coerce.String},
	"rate":                 {Kind: coerce.Float},
	"rate_last_updated":    {Kind: coerce.Instant},
	"recurring":            {Kind: coerce.Boolean},
	"recurring_parameters": {Kind: coerce.List},
	"server_deleted_at":    {Kind: coerce.Instant}, // a timestamp on the wire, like time entries
	"start_date":           {Kind: coerce.Date},
	"status":               {Kind: coerce.String},
	"template":             {Kind: coerce.Boolean},
	"template_id":          {Kind: coerce.Integer},
	"workspace_id":         {Kind: coerce.Integer},
}

// Project represents a Toggl project in the domain layer.
type Project struct {
	ID                  *int64
	WorkspaceID         *int64
	Name                *string
	Active              *bool
	ActualDuration      *time.Duration
	At                  *time.Time // Last update timestamp from Toggl
	AutoEstimates       *bool
	Billable            *bool
	ClientID            *int64
	Color               *string
	CreatedAt           *time.Time
	Currency            *string
	CurrentPeriod       map[string]any
	EndDate             *time.Time
	EstimatedDuration   *time.Duration
	FixedFee            *float64
	Private             *bool
	Permissions         *string
	Rate                *float64
	RateLastUpdated     *time.Time
	Recurring           *bool
	RecurringParameters []any
	ServerDeletedAt     *time.Time
	StartDate           *time.Time
	Status              *string
	Template            *bool
	TemplateID          *int64
}

// ProjectFromRecord copies a coerced record into a Project.
func ProjectFromRecord(r coerce.Record) Project {
	return Project{
		ID:                  r.Int("id"),
		WorkspaceID:         r.Int("workspace_id"),
		Name:                r.Text("name"),
		Active:              r.Bool("active"),
		ActualDuration:      r.Duration("actual_duration"),
		At:                  r.Time("at"),
		AutoEstimates:       r.Bool("auto_estimates"),
		Billable:            r.Bool("billable"),
		ClientID:            r.Int("client_id"),
		Color:               r.Text("color"),
		CreatedAt:           r.Time("created_at"),
		Currency:            r.Text("currency"),
		CurrentPeriod:       r.Map("current_period"),
		EndDate:             r.Time("end_date"),
		EstimatedDuration:   r.Duration("estimated_duration"),
		FixedFee:            r.Float("fixed_fee"),
		Private:             r.Bool("is_private"),
		Permissions:         r.Text("permissions"),
		Rate:                r.Float("rate"),
		RateLastUpdated:     r.Time("rate_last_updated"),
		Recurring:           r.Bool("recurring"),
		RecurringParameters: r.List("recurring_parameters"),
		ServerDeletedAt:     r.Time("server_deleted_at"),
		StartDate:           r.Date("start_date"),
		Status:              r.Text("status"),
		Template:            r.Bool("template"),
		TemplateID:          r.Int("template_id"),
	}
}

// DecodeProject coerces one raw JSON object into a Project.
func DecodeProject(raw map[string]any) Project {
	return ProjectFromRecord(coerce.Coerce(ProjectSchema, raw))
}

func (p Project) String() string {
	rate := absent
	if p.Rate != nil {
		rate = strconv.FormatFloat(*p.Rate, 'f', -1, 64)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", intOr(p.ID))
	fmt.Fprintf(&b, "Name: %s\n", textOr(p.Name))
	fmt.Fprintf(&b, "Active: %s\n", boolOr(p.Active))
	fmt.Fprintf(&b, "Billable: %s\n", boolOr(p.Billable))
	fmt.Fprintf(&b, "Rate: %s", rate)
	return b.String()
}

// absent is rendered for fields the payload did not carry.
const absent = "-"

func textOr(s *string) string {
	if s == nil {
		return absent
	}
	return *s
}

func intOr(i *int64) string {
	if i == nil {
		return absent
	}
	return strconv.FormatInt(*i, 10)
}

func boolOr(v *bool) string {
	if v == nil {
		return absent
	}
	return strconv.FormatBool(*v)
}

func timeOr(t *time.Time) string {
	if t == nil {
		return absent
	}
	return instant.LocalDisplay(*t)
}

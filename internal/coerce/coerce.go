// Package coerce builds typed records out of loosely typed JSON objects.
//
// A record shape is described once by a Schema. Coerce applies the schema to a
// decoded JSON object: unknown keys are dropped, every declared field starts
// absent, instants are parsed, durations must be non-negative seconds, and all
// other kinds are kept as decoded. Typed accessors on Record convert a slot on
// read and report absence with a nil result.
package coerce

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"time"

	"toggl-report/internal/instant"
)

// Kind is the semantic type of a schema field.
type Kind int

const (
	Instant Kind = iota + 1
	Duration
	Boolean
	Integer
	Float
	String
	Date
	List
	Map
)

var kindNames = map[Kind]string{
	Instant:  "instant",
	Duration: "duration",
	Boolean:  "boolean",
	Integer:  "integer",
	Float:    "float",
	String:   "string",
	Date:     "date",
	List:     "list-of-opaque",
	Map:      "map-of-opaque",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Field declares one slot of a record shape.
// Required marks fields whose absence means the payload is malformed.
type Field struct {
	Kind     Kind
	Required bool
}

// Schema maps JSON field names to their declared slot.
// Schemas are package-level values and must not be modified after init.
type Schema map[string]Field

// Names returns the declared field names in sorted order.
func (s Schema) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Record is the result of applying a Schema to one raw object.
type Record struct {
	schema Schema
	values map[string]any
}

// Coerce builds a Record from raw. It never fails: a value that does not fit
// an instant or duration slot leaves that slot absent.
func Coerce(schema Schema, raw map[string]any) Record {
	values := make(map[string]any, len(schema))
	for key, val := range raw {
		f, ok := schema[key]
		if !ok || val == nil {
			continue
		}
		switch f.Kind {
		case Instant:
			s, ok := val.(string)
			if !ok {
				continue
			}
			t, err := instant.Parse(s)
			if err != nil {
				continue
			}
			values[key] = t
		case Duration:
			secs, ok := toFloat(val)
			if !ok || secs < 0 {
				continue
			}
			// Past ~292 years the nanosecond count no longer fits a Duration.
			ns := secs * float64(time.Second)
			if ns >= math.MaxInt64 {
				continue
			}
			values[key] = time.Duration(ns)
		default:
			values[key] = clone(val)
		}
	}
	return Record{schema: schema, values: values}
}

// Has reports whether name holds a value.
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Missing lists required fields that ended up absent, sorted by name.
func (r Record) Missing() []string {
	var out []string
	for _, name := range r.schema.Names() {
		if r.schema[name].Required && !r.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Time returns an instant slot.
func (r Record) Time(name string) *time.Time {
	if t, ok := r.values[name].(time.Time); ok {
		return &t
	}
	return nil
}

// Duration returns a duration slot.
func (r Record) Duration(name string) *time.Duration {
	if d, ok := r.values[name].(time.Duration); ok {
		return &d
	}
	return nil
}

// Int returns an integer slot. Floats with a fractional part are absent.
func (r Record) Int(name string) *int64 {
	switch v := r.values[name].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return &i
		}
		if f, err := v.Float64(); err == nil {
			return wholeInt(f)
		}
	case float64:
		return wholeInt(v)
	case int:
		i := int64(v)
		return &i
	case int64:
		return &v
	}
	return nil
}

// wholeInt converts f when it is integral and inside the int64 range.
func wholeInt(f float64) *int64 {
	if f < math.MinInt64 || f >= math.MaxInt64 || f != math.Trunc(f) {
		return nil
	}
	i := int64(f)
	return &i
}

// Float returns a float slot.
func (r Record) Float(name string) *float64 {
	if f, ok := toFloat(r.values[name]); ok {
		return &f
	}
	return nil
}

// Bool returns a boolean slot.
func (r Record) Bool(name string) *bool {
	if b, ok := r.values[name].(bool); ok {
		return &b
	}
	return nil
}

// Text returns a string slot.
func (r Record) Text(name string) *string {
	if s, ok := r.values[name].(string); ok {
		return &s
	}
	return nil
}

// Date returns a YYYY-MM-DD slot as midnight UTC.
func (r Record) Date(name string) *time.Time {
	s, ok := r.values[name].(string)
	if !ok {
		return nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &d
}

// List returns a list slot. The slice belongs to the caller.
func (r Record) List(name string) []any {
	if l, ok := r.values[name].([]any); ok {
		return clone(l).([]any)
	}
	return nil
}

// Map returns an object slot. The map belongs to the caller.
func (r Record) Map(name string) map[string]any {
	if m, ok := r.values[name].(map[string]any); ok {
		return clone(m).(map[string]any)
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// clone deep-copies decoded JSON containers so a Record shares nothing with its input.
func clone(v any) any {
	switch c := v.(type) {
	case []any:
		out := make([]any, len(c))
		for i, e := range c {
			out[i] = clone(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(c))
		for k, e := range c {
			out[k] = clone(e)
		}
		return out
	}
	return v
}

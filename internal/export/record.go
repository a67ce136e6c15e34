// Package export turns babeltrace events into plain records and writes them
// as text, JSON lines or msgpack.
package export

import (
	"errors"

	"github.com/majorcontext/babeltrace"
)

// Record is a copy of one event that outlives the iterator step.
type Record struct {
	Name        string                    `json:"name" msgpack:"name"`
	Timestamp   uint64                    `json:"timestamp" msgpack:"timestamp"`
	NoTimestamp bool                      `json:"no_timestamp,omitempty" msgpack:"no_timestamp,omitempty"`
	Scopes      map[string]map[string]any `json:"scopes,omitempty" msgpack:"scopes,omitempty"`

	// Missing lists requested fields absent from the event.
	Missing []string `json:"-" msgpack:"-"`
}

// Builder copies events into records.
type Builder struct {
	// Scopes to copy. Defaults to EventFields only.
	Scopes []babeltrace.Scope
	// Fields, if set, restricts the EventFields scope to these names.
	Fields []string
}

// Build copies ev. Scopes the event does not have are left out.
func (b Builder) Build(ev *babeltrace.Event) (Record, error) {
	rec := Record{Name: ev.Name()}

	ts, err := ev.Timestamp()
	switch {
	case errors.Is(err, babeltrace.ErrInvalidTimestamp):
		rec.NoTimestamp = true
	case err != nil:
		return Record{}, err
	default:
		rec.Timestamp = ts
	}

	scopes := b.Scopes
	if len(scopes) == 0 {
		scopes = []babeltrace.Scope{babeltrace.ScopeEventFields}
	}
	for _, scope := range scopes {
		def, err := ev.TopLevelScope(scope)
		if errors.Is(err, babeltrace.ErrEventScope) {
			continue
		}
		if err != nil {
			return Record{}, err
		}

		var fields map[string]any
		if scope == babeltrace.ScopeEventFields && len(b.Fields) > 0 {
			fields, rec.Missing, err = selectFields(ev, def, b.Fields)
		} else {
			fields, err = structValue(ev, def)
		}
		if err != nil {
			return Record{}, err
		}
		if rec.Scopes == nil {
			rec.Scopes = make(map[string]map[string]any, len(scopes))
		}
		rec.Scopes[scope.String()] = fields
	}
	return rec, nil
}

func selectFields(ev *babeltrace.Event, scope *babeltrace.Definition, names []string) (map[string]any, []string, error) {
	out := make(map[string]any, len(names))
	var missing []string
	for _, name := range names {
		def := ev.Field(scope, name)
		if def == nil {
			missing = append(missing, name)
			continue
		}
		v, err := value(ev, def)
		if err != nil {
			return nil, nil, err
		}
		out[name] = v
	}
	return out, missing, nil
}

func structValue(ev *babeltrace.Event, def *babeltrace.Definition) (map[string]any, error) {
	children, err := ev.Fields(def)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(children))
	for _, child := range children {
		v, err := value(ev, child)
		if err != nil {
			return nil, err
		}
		out[child.Name()] = v
	}
	return out, nil
}

// value copies a definition: structures and variants become maps, arrays and
// sequences slices, scalars their Go value.
func value(ev *babeltrace.Event, def *babeltrace.Definition) (any, error) {
	switch def.Type() {
	case babeltrace.FieldStruct, babeltrace.FieldVariant, babeltrace.FieldUntaggedVariant:
		return structValue(ev, def)
	case babeltrace.FieldArray, babeltrace.FieldSequence:
		elems, err := ev.Fields(def)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, elem := range elems {
			if out[i], err = value(ev, elem); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return def.Value()
	}
}

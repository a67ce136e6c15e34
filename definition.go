package babeltrace

import (
	"sync"

	"github.com/majorcontext/babeltrace/internal/native"
)

// fieldMu serialises each value extraction with the read of the native error
// flag, which is a single process-wide variable in babeltrace.
var fieldMu sync.Mutex

// Definition is a view of one field value of an Event. It shares the
// validity window of its event. Values are extracted only when a getter is
// called.
type Definition struct {
	ev     *Event
	handle native.DefinitionHandle
}

func (d *Definition) valid() bool {
	return d != nil && d.ev.Valid()
}

// Name returns the declared field name, or "" for array elements and stale
// definitions.
func (d *Definition) Name() string {
	if !d.valid() {
		return ""
	}
	return d.ev.it.lib.FieldName(d.handle)
}

// Type returns the declaration kind of the field.
func (d *Definition) Type() FieldType {
	if !d.valid() {
		return FieldUnknown
	}
	return fieldTypeFromNative(d.ev.it.lib.FieldType(d.handle))
}

// Signed reports whether an integer field is signed. It is false for every
// other type, enums included.
func (d *Definition) Signed() bool {
	if !d.valid() {
		return false
	}
	lib := d.ev.it.lib

	// Non-integer declarations set the error flag; clear it here.
	fieldMu.Lock()
	ret := lib.IntSignedness(d.handle)
	failed := lib.FieldError() < 0
	fieldMu.Unlock()

	return !failed && ret > 0
}

// Uint64 extracts an unsigned integer.
func (d *Definition) Uint64() (uint64, error) {
	return extract(d, func(lib native.Library) (uint64, bool) {
		return lib.Uint64(d.handle), true
	})
}

// Int64 extracts a signed integer.
func (d *Definition) Int64() (int64, error) {
	return extract(d, func(lib native.Library) (int64, bool) {
		return lib.Int64(d.handle), true
	})
}

// Float64 extracts a floating point value.
func (d *Definition) Float64() (float64, error) {
	return extract(d, func(lib native.Library) (float64, bool) {
		return lib.Float(d.handle), true
	})
}

// Str extracts a string. The returned string is a copy and stays valid after
// the iterator moves.
func (d *Definition) Str() (string, error) {
	return extract(d, func(lib native.Library) (string, bool) {
		return lib.String(d.handle)
	})
}

// EnumString returns the label of an enumeration value.
func (d *Definition) EnumString() (string, error) {
	return extract(d, func(lib native.Library) (string, bool) {
		return lib.EnumString(d.handle)
	})
}

// Value extracts a scalar according to the field type: uint64 or int64 for
// integers, float64 for floats, string for strings and enum labels.
// Compound fields have no scalar value; walk them with Event.Fields.
func (d *Definition) Value() (any, error) {
	if !d.valid() {
		return nil, ErrStaleView
	}
	switch t := d.Type(); t {
	case FieldInteger:
		if d.Signed() {
			return d.Int64()
		}
		return d.Uint64()
	case FieldFloat:
		return d.Float64()
	case FieldString:
		return d.Str()
	case FieldEnum:
		return d.EnumString()
	default:
		return nil, ErrInvalidDefinition
	}
}

// extract runs one native getter and checks the error flag before the value
// is used. ok=false from get means the native call returned NULL.
func extract[T any](d *Definition, get func(native.Library) (T, bool)) (T, error) {
	var zero T
	if !d.valid() {
		return zero, ErrStaleView
	}
	lib := d.ev.it.lib

	fieldMu.Lock()
	v, ok := get(lib)
	failed := lib.FieldError() < 0
	fieldMu.Unlock()

	if failed || !ok {
		return zero, ErrInvalidValueForField
	}
	return v, nil
}

package babeltrace

import (
	"math"
	"strings"

	"github.com/majorcontext/babeltrace/internal/native"
)

// Event is a view of the event under an Iterator's cursor. It is valid only
// until the iterator moves; afterwards every accessor fails with
// ErrStaleView or returns its zero result.
type Event struct {
	it     *Iterator
	gen    uint64
	handle native.EventHandle
}

// Valid reports whether the event can still be read.
func (e *Event) Valid() bool {
	return e != nil && e.it.valid(e.gen)
}

// Name returns the event name, or "" if the event is no longer valid.
func (e *Event) Name() string {
	if !e.Valid() {
		return ""
	}
	return e.it.lib.EventName(e.handle)
}

// Timestamp returns the event time in nanoseconds. ErrInvalidTimestamp is
// returned when the native library has no timestamp for the event.
func (e *Event) Timestamp() (uint64, error) {
	if !e.Valid() {
		return 0, ErrStaleView
	}
	ts := e.it.lib.Timestamp(e.handle)
	if ts == math.MaxUint64 {
		return 0, ErrInvalidTimestamp
	}
	return ts, nil
}

// Cycles returns the raw clock value of the event, with the same sentinel
// rule as Timestamp.
func (e *Event) Cycles() (uint64, error) {
	if !e.Valid() {
		return 0, ErrStaleView
	}
	c := e.it.lib.Cycles(e.handle)
	if c == math.MaxUint64 {
		return 0, ErrInvalidTimestamp
	}
	return c, nil
}

// TopLevelScope resolves one of the six scopes of the event. ErrEventScope is
// returned when the event layout has no such region.
func (e *Event) TopLevelScope(scope Scope) (*Definition, error) {
	if !e.Valid() {
		return nil, ErrStaleView
	}
	ns, ok := scope.native()
	if !ok {
		return nil, ErrEventScope
	}
	h := e.it.lib.TopLevelScope(e.handle, ns)
	if h == nil {
		return nil, ErrEventScope
	}
	return &Definition{ev: e, handle: h}, nil
}

// Field looks up a field by name inside scope. A nil scope means the
// EventFields scope. Field returns nil when the field is absent, which is
// common and not an error.
func (e *Event) Field(scope *Definition, name string) *Definition {
	scope, err := e.resolve(scope)
	if err != nil {
		return nil
	}
	if strings.IndexByte(name, 0) >= 0 {
		return nil
	}
	h := e.it.lib.Field(e.handle, scope.handle, name)
	if h == nil {
		return nil
	}
	return &Definition{ev: e, handle: h}
}

// Fields returns the children of a compound definition: structure members
// and variant fields by declaration order, array and sequence elements by
// index. A nil scope means the EventFields scope.
func (e *Event) Fields(scope *Definition) ([]*Definition, error) {
	scope, err := e.resolve(scope)
	if err != nil {
		return nil, err
	}
	handles, ret := e.it.lib.FieldList(e.handle, scope.handle)
	if ret < 0 {
		return nil, ErrInvalidDefinition
	}
	defs := make([]*Definition, len(handles))
	for i, h := range handles {
		defs[i] = &Definition{ev: e, handle: h}
	}
	return defs, nil
}

// Uint64 reads an unsigned integer field. A nil scope means EventFields.
func (e *Event) Uint64(scope *Definition, name string) (uint64, error) {
	def, err := e.lookup(scope, name)
	if err != nil {
		return 0, err
	}
	return def.Uint64()
}

// Int64 reads a signed integer field. A nil scope means EventFields.
func (e *Event) Int64(scope *Definition, name string) (int64, error) {
	def, err := e.lookup(scope, name)
	if err != nil {
		return 0, err
	}
	return def.Int64()
}

// Float64 reads a floating point field. A nil scope means EventFields.
func (e *Event) Float64(scope *Definition, name string) (float64, error) {
	def, err := e.lookup(scope, name)
	if err != nil {
		return 0, err
	}
	return def.Float64()
}

// Str reads a string field. A nil scope means EventFields.
func (e *Event) Str(scope *Definition, name string) (string, error) {
	def, err := e.lookup(scope, name)
	if err != nil {
		return "", err
	}
	return def.Str()
}

func (e *Event) lookup(scope *Definition, name string) (*Definition, error) {
	scope, err := e.resolve(scope)
	if err != nil {
		return nil, err
	}
	def := e.Field(scope, name)
	if def == nil {
		return nil, &UnknownFieldError{Name: name}
	}
	return def, nil
}

// resolve checks that scope belongs to e, defaulting to EventFields.
func (e *Event) resolve(scope *Definition) (*Definition, error) {
	if !e.Valid() {
		return nil, ErrStaleView
	}
	if scope == nil {
		return e.TopLevelScope(ScopeEventFields)
	}
	if scope.ev != e {
		return nil, ErrInvalidDefinition
	}
	return scope, nil
}

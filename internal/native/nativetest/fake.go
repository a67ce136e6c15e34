// Package nativetest provides an in-memory native.Library for tests.
//
// The fake follows babeltrace's observable contract: trace registration
// returns small positive ids, iterators merge events of all registered traces
// by timestamp, value extraction on a mismatched type sets a process-wide
// error flag that FieldError reads and clears, and missing timestamps are
// reported as math.MaxUint64.
package nativetest

import (
	"math"
	"sort"
	"sync"
	"unsafe"

	"github.com/majorcontext/babeltrace/internal/native"
)

// Field describes one field of a fake event.
//
// Value holds uint64 or int64 for integers (the Go type decides signedness),
// float64 for floats, string for strings, and []Field for structs, variants,
// arrays and sequences. Enum fields carry their integer in Value and their
// label in Label.
type Field struct {
	Name  string
	Type  native.TypeID
	Value any
	Label string
}

// Event is one event of a fake trace.
type Event struct {
	Name      string
	Timestamp uint64
	Cycles    uint64
	// Scopes maps each present scope to its top-level fields. A scope absent
	// from the map resolves to NULL.
	Scopes map[native.Scope][]Field
}

// NoTimestamp is the value babeltrace returns when an event has no timestamp.
const NoTimestamp = math.MaxUint64

// Uint returns an unsigned integer field.
func Uint(name string, v uint64) Field {
	return Field{Name: name, Type: native.TypeInteger, Value: v}
}

// Int returns a signed integer field.
func Int(name string, v int64) Field {
	return Field{Name: name, Type: native.TypeInteger, Value: v}
}

// Float returns a floating point field.
func Float(name string, v float64) Field {
	return Field{Name: name, Type: native.TypeFloat, Value: v}
}

// String returns a string field.
func String(name, v string) Field {
	return Field{Name: name, Type: native.TypeString, Value: v}
}

// Enum returns an unsigned enumeration field.
func Enum(name string, v uint64, label string) Field {
	return Field{Name: name, Type: native.TypeEnum, Value: v, Label: label}
}

// Struct returns a structure field.
func Struct(name string, fields ...Field) Field {
	return Field{Name: name, Type: native.TypeStruct, Value: fields}
}

// Array returns an array field. Element names are ignored by babeltrace.
func Array(name string, elems ...Field) Field {
	return Field{Name: name, Type: native.TypeArray, Value: elems}
}

// Trace is the content of one fake trace directory.
type Trace struct {
	Events []Event
}

// Fake is a native.Library backed by Go values. Safe for concurrent use.
type Fake struct {
	// FailContextCreate makes CreateContext return NULL.
	FailContextCreate bool
	// FailIterCreate makes CreateIter return NULL.
	FailIterCreate bool
	// FailNextAt makes NextIter return a negative value instead of moving
	// the cursor onto this event index. Zero disables the failure.
	FailNextAt int

	mu       sync.Mutex
	calls    map[string]int
	traces   map[string]Trace
	contexts map[*context]struct{}
	iters    map[*iterator]struct{}
	fieldErr int
}

type context struct {
	nextID int
	open   map[int]string
	order  []int
}

type iterator struct {
	events []*event
	pos    int
}

type event struct {
	src    Event
	scopes map[native.Scope]*node
}

type node struct {
	field    Field
	children []*node
}

// New returns an empty fake.
func New() *Fake {
	return &Fake{
		calls:    make(map[string]int),
		traces:   make(map[string]Trace),
		contexts: make(map[*context]struct{}),
		iters:    make(map[*iterator]struct{}),
	}
}

// Register makes path resolvable by AddTrace.
func (f *Fake) Register(path string, t Trace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.traces[path] = t
}

// Calls returns how many times the named Library method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// LiveContexts returns the number of contexts created and not yet put.
func (f *Fake) LiveContexts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contexts)
}

// LiveIters returns the number of iterators created and not yet destroyed.
func (f *Fake) LiveIters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.iters)
}

func (f *Fake) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *Fake) CreateContext() native.ContextHandle {
	f.record("CreateContext")
	if f.FailContextCreate {
		return nil
	}
	c := &context{nextID: 1, open: make(map[int]string)}
	f.mu.Lock()
	f.contexts[c] = struct{}{}
	f.mu.Unlock()
	return native.ContextHandle(unsafe.Pointer(c))
}

func (f *Fake) PutContext(h native.ContextHandle) {
	f.record("PutContext")
	f.mu.Lock()
	delete(f.contexts, (*context)(h))
	f.mu.Unlock()
}

func (f *Fake) AddTrace(h native.ContextHandle, path, format string) int {
	f.record("AddTrace")
	c := (*context)(h)
	f.mu.Lock()
	defer f.mu.Unlock()
	if format != native.FormatCTF {
		return -1
	}
	if _, ok := f.traces[path]; !ok {
		return -1
	}
	id := c.nextID
	c.nextID++
	c.open[id] = path
	c.order = append(c.order, id)
	return id
}

func (f *Fake) RemoveTrace(h native.ContextHandle, id int) int {
	f.record("RemoveTrace")
	c := (*context)(h)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.open[id]; !ok {
		return -1
	}
	delete(c.open, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return 0
}

func (f *Fake) CreateIter(h native.ContextHandle) native.IterHandle {
	f.record("CreateIter")
	if f.FailIterCreate {
		return nil
	}
	c := (*context)(h)
	f.mu.Lock()
	defer f.mu.Unlock()

	it := &iterator{}
	for _, id := range c.order {
		for _, ev := range f.traces[c.open[id]].Events {
			it.events = append(it.events, newEvent(ev))
		}
	}
	// Stable so equal timestamps keep trace registration order.
	sort.SliceStable(it.events, func(i, j int) bool {
		return it.events[i].src.Timestamp < it.events[j].src.Timestamp
	})
	f.iters[it] = struct{}{}
	return native.IterHandle(unsafe.Pointer(it))
}

func (f *Fake) DestroyIter(h native.IterHandle) {
	f.record("DestroyIter")
	f.mu.Lock()
	delete(f.iters, (*iterator)(h))
	f.mu.Unlock()
}

func (f *Fake) NextIter(h native.IterHandle) int {
	f.record("NextIter")
	it := (*iterator)(h)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNextAt > 0 && it.pos+1 == f.FailNextAt {
		return -1
	}
	if it.pos < len(it.events) {
		it.pos++
	}
	return 0
}

func (f *Fake) ReadEvent(h native.IterHandle) native.EventHandle {
	f.record("ReadEvent")
	it := (*iterator)(h)
	f.mu.Lock()
	defer f.mu.Unlock()
	if it.pos >= len(it.events) {
		return nil
	}
	return native.EventHandle(unsafe.Pointer(it.events[it.pos]))
}

func (f *Fake) EventName(h native.EventHandle) string {
	f.record("EventName")
	return (*event)(h).src.Name
}

func (f *Fake) Timestamp(h native.EventHandle) uint64 {
	f.record("Timestamp")
	return (*event)(h).src.Timestamp
}

func (f *Fake) Cycles(h native.EventHandle) uint64 {
	f.record("Cycles")
	return (*event)(h).src.Cycles
}

func (f *Fake) TopLevelScope(h native.EventHandle, scope native.Scope) native.DefinitionHandle {
	f.record("TopLevelScope")
	n, ok := (*event)(h).scopes[scope]
	if !ok {
		return nil
	}
	return native.DefinitionHandle(unsafe.Pointer(n))
}

func (f *Fake) Field(_ native.EventHandle, scope native.DefinitionHandle, name string) native.DefinitionHandle {
	f.record("Field")
	if scope == nil {
		return nil
	}
	for _, child := range (*node)(scope).children {
		if child.field.Name == name {
			return native.DefinitionHandle(unsafe.Pointer(child))
		}
	}
	return nil
}

func (f *Fake) FieldList(_ native.EventHandle, scope native.DefinitionHandle) ([]native.DefinitionHandle, int) {
	f.record("FieldList")
	if scope == nil {
		return nil, -1
	}
	n := (*node)(scope)
	if !isCompound(n.field.Type) {
		return nil, -1
	}
	defs := make([]native.DefinitionHandle, len(n.children))
	for i, child := range n.children {
		defs[i] = native.DefinitionHandle(unsafe.Pointer(child))
	}
	return defs, 0
}

func (f *Fake) FieldName(h native.DefinitionHandle) string {
	f.record("FieldName")
	return (*node)(h).field.Name
}

func (f *Fake) FieldType(h native.DefinitionHandle) native.TypeID {
	f.record("FieldType")
	return (*node)(h).field.Type
}

func (f *Fake) IntSignedness(h native.DefinitionHandle) int {
	f.record("IntSignedness")
	n := (*node)(h)
	if n.field.Type != native.TypeInteger {
		f.setFieldErr()
		return -1
	}
	if _, ok := n.field.Value.(int64); ok {
		return 1
	}
	return 0
}

func (f *Fake) Uint64(h native.DefinitionHandle) uint64 {
	f.record("Uint64")
	n := (*node)(h)
	v, ok := n.field.Value.(uint64)
	if !ok || n.field.Type != native.TypeInteger {
		f.setFieldErr()
		return 0
	}
	return v
}

func (f *Fake) Int64(h native.DefinitionHandle) int64 {
	f.record("Int64")
	n := (*node)(h)
	v, ok := n.field.Value.(int64)
	if !ok || n.field.Type != native.TypeInteger {
		f.setFieldErr()
		return 0
	}
	return v
}

func (f *Fake) Float(h native.DefinitionHandle) float64 {
	f.record("Float")
	n := (*node)(h)
	v, ok := n.field.Value.(float64)
	if !ok || n.field.Type != native.TypeFloat {
		f.setFieldErr()
		return 0
	}
	return v
}

func (f *Fake) String(h native.DefinitionHandle) (string, bool) {
	f.record("String")
	n := (*node)(h)
	v, ok := n.field.Value.(string)
	if !ok || n.field.Type != native.TypeString {
		f.setFieldErr()
		return "", false
	}
	return v, true
}

func (f *Fake) EnumString(h native.DefinitionHandle) (string, bool) {
	f.record("EnumString")
	n := (*node)(h)
	if n.field.Type != native.TypeEnum {
		f.setFieldErr()
		return "", false
	}
	return n.field.Label, true
}

func (f *Fake) FieldError() int {
	f.record("FieldError")
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := f.fieldErr
	f.fieldErr = 0
	return ret
}

func (f *Fake) setFieldErr() {
	f.mu.Lock()
	f.fieldErr = -22 // -EINVAL
	f.mu.Unlock()
}

func newEvent(src Event) *event {
	ev := &event{src: src, scopes: make(map[native.Scope]*node, len(src.Scopes))}
	for scope, fields := range src.Scopes {
		ev.scopes[scope] = newNode(Field{Type: native.TypeStruct, Value: fields})
	}
	return ev
}

func newNode(f Field) *node {
	n := &node{field: f}
	if children, ok := f.Value.([]Field); ok {
		for _, c := range children {
			n.children = append(n.children, newNode(c))
		}
	}
	return n
}

func isCompound(t native.TypeID) bool {
	switch t {
	case native.TypeStruct, native.TypeVariant, native.TypeUntaggedVariant,
		native.TypeArray, native.TypeSequence:
		return true
	}
	return false
}

// Compile-time check
var _ native.Library = (*Fake)(nil)

// Package native is the boundary between the Go binding and the babeltrace 1
// C library.
//
// # Build Modes
//
// With cgo enabled and the "babeltrace" build tag set, Default returns a
// Library backed by libbabeltrace and libbabeltrace-ctf (located through
// pkg-config). Otherwise Default returns a stub whose session creation always
// fails, so callers see a creation error instead of a link failure.
//
// # Handles
//
// Native objects are passed around as opaque pointer handles. A nil handle is
// the native NULL. Handles carry no ownership; the binding above this package
// decides who releases what.
//
// # Error Flag
//
// Value extraction reports failure through FieldError, which reads and clears
// a process-wide flag. Callers must pair each extraction with FieldError
// without interleaving other extractions.
package native

import "unsafe"

// Opaque handles to native objects.
type (
	ContextHandle    unsafe.Pointer
	IterHandle       unsafe.Pointer
	EventHandle      unsafe.Pointer
	DefinitionHandle unsafe.Pointer
)

// Scope mirrors enum bt_ctf_scope.
type Scope int32

const (
	ScopeTracePacketHeader   Scope = 0
	ScopeStreamPacketContext Scope = 1
	ScopeStreamEventHeader   Scope = 2
	ScopeStreamEventContext  Scope = 3
	ScopeEventContext        Scope = 4
	ScopeEventFields         Scope = 5
)

// TypeID mirrors enum ctf_type_id.
type TypeID int32

const (
	TypeUnknown         TypeID = 0
	TypeInteger         TypeID = 1
	TypeFloat           TypeID = 2
	TypeEnum            TypeID = 3
	TypeString          TypeID = 4
	TypeStruct          TypeID = 5
	TypeUntaggedVariant TypeID = 6
	TypeVariant         TypeID = 7
	TypeArray           TypeID = 8
	TypeSequence        TypeID = 9
)

// FormatCTF is the format tag babeltrace uses for CTF traces.
const FormatCTF = "ctf"

// Library is the set of native entry points used by the binding.
// Integer returns follow the C convention: negative means failure.
type Library interface {
	CreateContext() ContextHandle
	PutContext(ctx ContextHandle)
	AddTrace(ctx ContextHandle, path, format string) int
	RemoveTrace(ctx ContextHandle, id int) int

	CreateIter(ctx ContextHandle) IterHandle
	DestroyIter(it IterHandle)
	NextIter(it IterHandle) int
	ReadEvent(it IterHandle) EventHandle

	EventName(ev EventHandle) string
	Timestamp(ev EventHandle) uint64
	Cycles(ev EventHandle) uint64
	TopLevelScope(ev EventHandle, scope Scope) DefinitionHandle
	Field(ev EventHandle, scope DefinitionHandle, name string) DefinitionHandle
	FieldList(ev EventHandle, scope DefinitionHandle) ([]DefinitionHandle, int)

	FieldName(def DefinitionHandle) string
	FieldType(def DefinitionHandle) TypeID
	IntSignedness(def DefinitionHandle) int

	Uint64(def DefinitionHandle) uint64
	Int64(def DefinitionHandle) int64
	Float(def DefinitionHandle) float64
	String(def DefinitionHandle) (string, bool)
	EnumString(def DefinitionHandle) (string, bool)
	FieldError() int
}

// Default returns the Library selected at build time.
func Default() Library {
	return defaultLibrary()
}

// Available reports whether Default is backed by the real C library.
func Available() bool {
	return available
}

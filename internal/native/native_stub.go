//go:build !cgo || !babeltrace

package native

import "log/slog"

const available = false

// stubLibrary stands in for babeltrace when the binary is built without it.
// Session creation fails, so no other entry point is reachable through the
// binding; the remaining methods return the native failure values anyway.
type stubLibrary struct{}

func defaultLibrary() Library {
	return stubLibrary{}
}

func (stubLibrary) CreateContext() ContextHandle {
	slog.Debug("babeltrace not compiled in (build with -tags babeltrace)")
	return nil
}

func (stubLibrary) PutContext(ContextHandle) {}
func (stubLibrary) AddTrace(ContextHandle, string, string) int { return -1 }
func (stubLibrary) RemoveTrace(ContextHandle, int) int { return -1 }
func (stubLibrary) CreateIter(ContextHandle) IterHandle { return nil }
func (stubLibrary) DestroyIter(IterHandle) {}
func (stubLibrary) NextIter(IterHandle) int { return -1 }
func (stubLibrary) ReadEvent(IterHandle) EventHandle { return nil }
func (stubLibrary) EventName(EventHandle) string { return "" }
func (stubLibrary) Timestamp(EventHandle) uint64 { return ^uint64(0) }
func (stubLibrary) Cycles(EventHandle) uint64 { return ^uint64(0) }
func (stubLibrary) TopLevelScope(EventHandle, Scope) DefinitionHandle { return nil }

func (stubLibrary) Field(EventHandle, DefinitionHandle, string) DefinitionHandle {
	return nil
}

func (stubLibrary) FieldList(EventHandle, DefinitionHandle) ([]DefinitionHandle, int) {
	return nil, -1
}

func (stubLibrary) FieldName(DefinitionHandle) string { return "" }
func (stubLibrary) FieldType(DefinitionHandle) TypeID { return TypeUnknown }
func (stubLibrary) IntSignedness(DefinitionHandle) int { return -1 }
func (stubLibrary) Uint64(DefinitionHandle) uint64 { return 0 }
func (stubLibrary) Int64(DefinitionHandle) int64 { return 0 }
func (stubLibrary) Float(DefinitionHandle) float64 { return 0 }
func (stubLibrary) String(DefinitionHandle) (string, bool) { return "", false }
func (stubLibrary) EnumString(DefinitionHandle) (string, bool) { return "", false }
func (stubLibrary) FieldError() int { return -1 }

// Compile-time check
var _ Library = stubLibrary{}

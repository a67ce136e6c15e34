//go:build cgo && babeltrace

package native

/*
#cgo pkg-config: babeltrace babeltrace-ctf
#include <stdlib.h>
#include <babeltrace/babeltrace.h>
#include <babeltrace/context.h>
#include <babeltrace/ctf/events.h>
#include <babeltrace/ctf/iterator.h>

static int bt_add_trace(struct bt_context *ctx, const char *path, const char *format) {
	return bt_context_add_trace(ctx, path, format, NULL, NULL, NULL);
}

static struct bt_ctf_iter *bt_iter_create_all(struct bt_context *ctx) {
	return bt_ctf_iter_create(ctx, NULL, NULL);
}

static int bt_iter_advance(struct bt_ctf_iter *iter) {
	return bt_iter_next(bt_ctf_get_iter(iter));
}

static int bt_field_list(const struct bt_ctf_event *ev, const struct bt_definition *scope,
		const struct bt_definition ***list, unsigned int *count) {
	return bt_ctf_get_field_list(ev, scope, (struct bt_definition const * const **)list, count);
}

static int bt_field_type(const struct bt_definition *def) {
	return bt_ctf_field_type(bt_ctf_get_decl_from_def(def));
}

static int bt_int_signedness(const struct bt_definition *def) {
	return bt_ctf_get_int_signedness(bt_ctf_get_decl_from_def(def));
}
*/
import "C"

import (
	"unsafe"

	"fortio.org/safecast"
)

const available = true

type cLibrary struct{}

func defaultLibrary() Library {
	return cLibrary{}
}

func cctx(h ContextHandle) *C.struct_bt_context { return (*C.struct_bt_context)(h) }
func citer(h IterHandle) *C.struct_bt_ctf_iter { return (*C.struct_bt_ctf_iter)(h) }
func cevent(h EventHandle) *C.struct_bt_ctf_event { return (*C.struct_bt_ctf_event)(h) }
func cdef(h DefinitionHandle) *C.struct_bt_definition { return (*C.struct_bt_definition)(h) }

func (cLibrary) CreateContext() ContextHandle {
	return ContextHandle(unsafe.Pointer(C.bt_context_create()))
}

func (cLibrary) PutContext(ctx ContextHandle) {
	C.bt_context_put(cctx(ctx))
}

func (cLibrary) AddTrace(ctx ContextHandle, path, format string) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cformat := C.CString(format)
	defer C.free(unsafe.Pointer(cformat))
	return int(C.bt_add_trace(cctx(ctx), cpath, cformat))
}

func (cLibrary) RemoveTrace(ctx ContextHandle, id int) int {
	cid, err := safecast.Conv[C.int](id)
	if err != nil {
		return -1
	}
	return int(C.bt_context_remove_trace(cctx(ctx), cid))
}

func (cLibrary) CreateIter(ctx ContextHandle) IterHandle {
	return IterHandle(unsafe.Pointer(C.bt_iter_create_all(cctx(ctx))))
}

func (cLibrary) DestroyIter(it IterHandle) {
	C.bt_ctf_iter_destroy(citer(it))
}

func (cLibrary) NextIter(it IterHandle) int {
	return int(C.bt_iter_advance(citer(it)))
}

func (cLibrary) ReadEvent(it IterHandle) EventHandle {
	return EventHandle(unsafe.Pointer(C.bt_ctf_iter_read_event(citer(it))))
}

func (cLibrary) EventName(ev EventHandle) string {
	return C.GoString(C.bt_ctf_event_name(cevent(ev)))
}

func (cLibrary) Timestamp(ev EventHandle) uint64 {
	return uint64(C.bt_ctf_get_timestamp(cevent(ev)))
}

func (cLibrary) Cycles(ev EventHandle) uint64 {
	return uint64(C.bt_ctf_get_cycles(cevent(ev)))
}

func (cLibrary) TopLevelScope(ev EventHandle, scope Scope) DefinitionHandle {
	def := C.bt_ctf_get_top_level_scope(cevent(ev), C.enum_bt_ctf_scope(scope))
	return DefinitionHandle(unsafe.Pointer(def))
}

func (cLibrary) Field(ev EventHandle, scope DefinitionHandle, name string) DefinitionHandle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	def := C.bt_ctf_get_field(cevent(ev), cdef(scope), cname)
	return DefinitionHandle(unsafe.Pointer(def))
}

func (cLibrary) FieldList(ev EventHandle, scope DefinitionHandle) ([]DefinitionHandle, int) {
	var list **C.struct_bt_definition
	var count C.uint
	if ret := C.bt_field_list(cevent(ev), cdef(scope), &list, &count); ret < 0 {
		return nil, int(ret)
	}
	n, err := safecast.Conv[int](count)
	if err != nil {
		return nil, -1
	}
	if n == 0 || list == nil {
		return nil, 0
	}
	// The list is owned by the definition; copy the pointers out.
	defs := make([]DefinitionHandle, n)
	for i, d := range unsafe.Slice(list, n) {
		defs[i] = DefinitionHandle(unsafe.Pointer(d))
	}
	return defs, 0
}

func (cLibrary) FieldName(def DefinitionHandle) string {
	return C.GoString(C.bt_ctf_field_name(cdef(def)))
}

func (cLibrary) FieldType(def DefinitionHandle) TypeID {
	return TypeID(C.bt_field_type(cdef(def)))
}

func (cLibrary) IntSignedness(def DefinitionHandle) int {
	return int(C.bt_int_signedness(cdef(def)))
}

func (cLibrary) Uint64(def DefinitionHandle) uint64 {
	return uint64(C.bt_ctf_get_uint64(cdef(def)))
}

func (cLibrary) Int64(def DefinitionHandle) int64 {
	return int64(C.bt_ctf_get_int64(cdef(def)))
}

func (cLibrary) Float(def DefinitionHandle) float64 {
	return float64(C.bt_ctf_get_float(cdef(def)))
}

func (cLibrary) String(def DefinitionHandle) (string, bool) {
	s := C.bt_ctf_get_string(cdef(def))
	if s == nil {
		return "", false
	}
	return C.GoString(s), true
}

func (cLibrary) EnumString(def DefinitionHandle) (string, bool) {
	s := C.bt_ctf_get_enum_str(cdef(def))
	if s == nil {
		return "", false
	}
	return C.GoString(s), true
}

func (cLibrary) FieldError() int {
	return int(C.bt_ctf_field_get_error())
}

// Compile-time check
var _ Library = cLibrary{}

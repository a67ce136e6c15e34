package babeltrace

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/majorcontext/babeltrace/internal/native"
)

// TraceHandleID identifies a trace registered in a Context. It carries no
// ownership and is only meaningful to the Context that returned it.
type TraceHandleID int32

func (id TraceHandleID) String() string {
	return strconv.Itoa(int(id))
}

// Trace describes a registered trace.
type Trace struct {
	ID   TraceHandleID
	Path string
}

// Option configures a Context.
type Option func(*Context)

// WithLibrary selects the native layer. The default is native.Default().
func WithLibrary(lib native.Library) Option {
	return func(c *Context) {
		c.lib = lib
	}
}

// Context owns one native trace-reading session.
//
// A Context may be handed to another goroutine but must not be used from two
// goroutines at once. Close releases the session; it must outlive every
// Iterator created from it.
type Context struct {
	lib    native.Library
	handle native.ContextHandle
	traces []Trace
	closed bool
}

// NewContext creates a native session.
func NewContext(opts ...Option) (*Context, error) {
	c := &Context{}
	for _, opt := range opts {
		opt(c)
	}
	if c.lib == nil {
		c.lib = native.Default()
	}

	c.handle = c.lib.CreateContext()
	if c.handle == nil {
		return nil, ErrContextCreation
	}
	slog.Debug("babeltrace context created")
	return c, nil
}

// AddTrace registers the trace directory at path. The path must be valid
// UTF-8 without NUL bytes; otherwise ErrInvalidTracePath is returned and the
// native library is not consulted.
func (c *Context) AddTrace(path string, format Format) (TraceHandleID, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if !utf8.ValidString(path) || strings.IndexByte(path, 0) >= 0 {
		return 0, ErrInvalidTracePath
	}
	tag, ok := format.tag()
	if !ok {
		return 0, ErrUnsupportedFormat
	}

	ret := c.lib.AddTrace(c.handle, path, tag)
	if ret < 0 {
		slog.Debug("babeltrace rejected trace", "path", path, "format", tag, "ret", ret)
		return 0, ErrTraceAdd
	}
	id, err := safecast.Conv[int32](ret)
	if err != nil {
		return 0, ErrTraceAdd
	}

	handle := TraceHandleID(id)
	c.traces = append(c.traces, Trace{ID: handle, Path: path})
	slog.Debug("trace added", "path", path, "id", handle)
	return handle, nil
}

// RemoveTrace unregisters a trace previously returned by AddTrace.
func (c *Context) RemoveTrace(id TraceHandleID) error {
	if c.closed {
		return ErrClosed
	}
	if ret := c.lib.RemoveTrace(c.handle, int(id)); ret < 0 {
		return &TraceRemoveError{ID: id}
	}
	for i, t := range c.traces {
		if t.ID == id {
			c.traces = append(c.traces[:i], c.traces[i+1:]...)
			break
		}
	}
	slog.Debug("trace removed", "id", id)
	return nil
}

// Traces returns the registered traces in registration order.
func (c *Context) Traces() []Trace {
	out := make([]Trace, len(c.traces))
	copy(out, c.traces)
	return out
}

// Iterator returns an iterator over the events of every registered trace,
// in the native library's timestamp merge order.
func (c *Context) Iterator() (*Iterator, error) {
	if c.closed {
		return nil, ErrClosed
	}
	h := c.lib.CreateIter(c.handle)
	if h == nil {
		return nil, ErrIteratorCreation
	}
	slog.Debug("iterator created", "traces", len(c.traces))
	return &Iterator{ctx: c, lib: c.lib, handle: h}, nil
}

// Close releases the native session. Calling Close more than once is a no-op.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.lib.PutContext(c.handle)
	c.handle = nil
	c.traces = nil
	slog.Debug("babeltrace context released")
	return nil
}

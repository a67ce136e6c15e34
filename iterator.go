package babeltrace

import (
	"iter"
	"log/slog"

	"github.com/majorcontext/babeltrace/internal/native"
)

// Iterator walks the merged event stream of a Context once, forward only.
//
//	it, err := ctx.Iterator()
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for it.Next() {
//	    ev := it.Event()
//	    ...
//	}
//
// The native cursor starts positioned on the first event, so the first call
// to Next reads without advancing. A failed advance ends the sequence the
// same way exhaustion does; the native library offers no way to tell them
// apart.
type Iterator struct {
	ctx    *Context
	lib    native.Library
	handle native.IterHandle

	started bool
	done    bool
	closed  bool

	// gen increments on every step; views compare it to detect staleness.
	gen uint64
	cur *Event
}

// Next moves to the next event and reports whether there is one. Once Next
// returns false it keeps returning false.
func (it *Iterator) Next() bool {
	if it.done || it.closed || it.ctx.closed {
		it.finish()
		return false
	}
	it.gen++
	it.cur = nil

	if it.started {
		if ret := it.lib.NextIter(it.handle); ret < 0 {
			slog.Debug("iterator advance failed", "ret", ret)
			it.finish()
			return false
		}
	}
	it.started = true

	h := it.lib.ReadEvent(it.handle)
	if h == nil {
		it.finish()
		return false
	}
	it.cur = &Event{it: it, gen: it.gen, handle: h}
	return true
}

// Event returns the event read by the last successful Next, or nil. The
// event is valid until the following call to Next or Close.
func (it *Iterator) Event() *Event {
	return it.cur
}

// All returns the remaining events as a single-use sequence. Each yielded
// event is valid only during its loop iteration.
func (it *Iterator) All() iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		for it.Next() {
			if !yield(it.cur) {
				return
			}
		}
	}
}

// Close releases the native cursor. Calling Close more than once is a no-op.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.finish()
	it.lib.DestroyIter(it.handle)
	it.handle = nil
	return nil
}

func (it *Iterator) finish() {
	if !it.done {
		it.done = true
		it.gen++
	}
	it.cur = nil
}

func (it *Iterator) valid(gen uint64) bool {
	return !it.closed && !it.done && !it.ctx.closed && it.gen == gen
}

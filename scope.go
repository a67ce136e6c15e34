package babeltrace

import (
	"fmt"

	"github.com/majorcontext/babeltrace/internal/native"
)

// Scope selects one structural region of an event. The same field name may
// exist in several scopes; the scope disambiguates lookups.
type Scope int

const (
	ScopeTracePacketHeader Scope = iota
	ScopeStreamPacketContext
	ScopeStreamEventHeader
	ScopeStreamEventContext
	ScopeEventContext
	ScopeEventFields
)

var scopeNames = [...]string{
	ScopeTracePacketHeader:   "trace_packet_header",
	ScopeStreamPacketContext: "stream_packet_context",
	ScopeStreamEventHeader:   "stream_event_header",
	ScopeStreamEventContext:  "stream_event_context",
	ScopeEventContext:        "event_context",
	ScopeEventFields:         "event_fields",
}

// Scopes returns every scope from the outermost to the innermost.
func Scopes() []Scope {
	return []Scope{
		ScopeTracePacketHeader,
		ScopeStreamPacketContext,
		ScopeStreamEventHeader,
		ScopeStreamEventContext,
		ScopeEventContext,
		ScopeEventFields,
	}
}

func (s Scope) String() string {
	if s >= 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// ParseScope parses the snake_case name returned by Scope.String.
func ParseScope(name string) (Scope, error) {
	for i, n := range scopeNames {
		if n == name {
			return Scope(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scope %q", name)
}

func (s Scope) native() (native.Scope, bool) {
	switch s {
	case ScopeTracePacketHeader:
		return native.ScopeTracePacketHeader, true
	case ScopeStreamPacketContext:
		return native.ScopeStreamPacketContext, true
	case ScopeStreamEventHeader:
		return native.ScopeStreamEventHeader, true
	case ScopeStreamEventContext:
		return native.ScopeStreamEventContext, true
	case ScopeEventContext:
		return native.ScopeEventContext, true
	case ScopeEventFields:
		return native.ScopeEventFields, true
	default:
		return 0, false
	}
}

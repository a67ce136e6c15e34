package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/majorcontext/babeltrace/internal/ui"
)

// Encoder writes records to an output stream.
type Encoder interface {
	Encode(Record) error
	// Flush writes buffered output.
	Flush() error
}

// NewEncoder returns an encoder for format: "text", "json" or "msgpack".
func NewEncoder(format string, w io.Writer) (Encoder, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case "text":
		return &textEncoder{w: bw, style: ui.StyleFor(w)}, nil
	case "json":
		return &jsonEncoder{w: bw, enc: json.NewEncoder(bw)}, nil
	case "msgpack":
		enc := msgpack.NewEncoder(bw)
		enc.SetSortMapKeys(true)
		return &msgpackEncoder{w: bw, enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type jsonEncoder struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func (e *jsonEncoder) Encode(r Record) error {
	if r.Scopes != nil {
		scopes := make(map[string]map[string]any, len(r.Scopes))
		for name, fields := range r.Scopes {
			scopes[name] = jsonSafe(fields).(map[string]any)
		}
		r.Scopes = scopes
	}
	return e.enc.Encode(r)
}

func (e *jsonEncoder) Flush() error { return e.w.Flush() }

// jsonSafe copies v with NaN and infinite floats replaced by the strings
// "NaN", "+Inf" and "-Inf", which JSON cannot otherwise represent.
func jsonSafe(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[k] = jsonSafe(elem)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = jsonSafe(elem)
		}
		return out
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		return v
	default:
		return v
	}
}

type msgpackEncoder struct {
	w   *bufio.Writer
	enc *msgpack.Encoder
}

func (e *msgpackEncoder) Encode(r Record) error { return e.enc.Encode(r) }
func (e *msgpackEncoder) Flush() error { return e.w.Flush() }

// textEncoder prints one line per event:
//
//	[1700000000.000000123] sched_switch: event_fields = { next_tid = 42, prev_comm = "swapper" }
type textEncoder struct {
	w     *bufio.Writer
	style ui.Style
}

func (e *textEncoder) Encode(r Record) error {
	var b strings.Builder
	b.WriteString(e.style.Dim("[" + FormatTimestamp(r) + "]"))
	b.WriteByte(' ')
	b.WriteString(e.style.EventName(r.Name))
	b.WriteByte(':')

	names := make([]string, 0, len(r.Scopes))
	for name := range r.Scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(e.style.Yellow(name))
		b.WriteString(" = ")
		writeValue(&b, r.Scopes[name])
	}
	b.WriteByte('\n')
	_, err := e.w.WriteString(b.String())
	return err
}

func (e *textEncoder) Flush() error { return e.w.Flush() }

// FormatTimestamp renders nanoseconds as seconds.nanoseconds, or "unknown".
func FormatTimestamp(r Record) string {
	if r.NoTimestamp {
		return "unknown"
	}
	return fmt.Sprintf("%d.%09d", r.Timestamp/1e9, r.Timestamp%1e9)
}

func writeValue(b *strings.Builder, v any) {
	switch v := v.(type) {
	case map[string]any:
		if len(v) == 0 {
			b.WriteString("{ }")
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("{ ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(" = ")
			writeValue(b, v[k])
		}
		b.WriteString(" }")
	case []any:
		b.WriteString("[ ")
		for i, elem := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, elem)
		}
		b.WriteString(" ]")
	case string:
		b.WriteString(strconv.Quote(v))
	default:
		fmt.Fprint(b, v)
	}
}

package export

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/majorcontext/babeltrace"
	"github.com/majorcontext/babeltrace/internal/native"
	"github.com/majorcontext/babeltrace/internal/native/nativetest"
	"github.com/majorcontext/babeltrace/internal/ui"
)

func openEvents(t *testing.T, events ...nativetest.Event) *babeltrace.Iterator {
	t.Helper()
	fake := nativetest.New()
	fake.Register("/trace", nativetest.Trace{Events: events})

	ctx, err := babeltrace.NewContext(babeltrace.WithLibrary(fake))
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	_, err = ctx.AddTrace("/trace", babeltrace.FormatCTF)
	require.NoError(t, err)

	it, err := ctx.Iterator()
	require.NoError(t, err)
	t.Cleanup(func() { it.Close() })
	return it
}

func syscallEvent() nativetest.Event {
	return nativetest.Event{
		Name:      "syscall_entry_openat",
		Timestamp: 1_700_000_000_000_000_042,
		Scopes: map[native.Scope][]nativetest.Field{
			native.ScopeStreamEventContext: {
				nativetest.Int("vtid", 311),
			},
			native.ScopeEventFields: {
				nativetest.String("filename", "/etc/passwd"),
				nativetest.Int("dfd", -100),
				nativetest.Enum("flags", 0, "O_RDONLY"),
				nativetest.Array("args",
					nativetest.Uint("", 1),
					nativetest.Uint("", 2),
				),
				nativetest.Struct("mode",
					nativetest.Uint("bits", 0o644),
				),
			},
		},
	}
}

func TestBuild(t *testing.T) {
	it := openEvents(t, syscallEvent())
	require.True(t, it.Next())

	rec, err := Builder{
		Scopes: []babeltrace.Scope{babeltrace.ScopeStreamEventContext, babeltrace.ScopeEventFields},
	}.Build(it.Event())
	require.NoError(t, err)

	assert.Equal(t, Record{
		Name:      "syscall_entry_openat",
		Timestamp: 1_700_000_000_000_000_042,
		Scopes: map[string]map[string]any{
			"stream_event_context": {"vtid": int64(311)},
			"event_fields": {
				"filename": "/etc/passwd",
				"dfd":      int64(-100),
				"flags":    "O_RDONLY",
				"args":     []any{uint64(1), uint64(2)},
				"mode":     map[string]any{"bits": uint64(0o644)},
			},
		},
	}, rec)
}

func TestBuildSkipsAbsentScopes(t *testing.T) {
	it := openEvents(t, syscallEvent())
	require.True(t, it.Next())

	rec, err := Builder{
		Scopes: []babeltrace.Scope{babeltrace.ScopeTracePacketHeader, babeltrace.ScopeEventFields},
	}.Build(it.Event())
	require.NoError(t, err)
	assert.NotContains(t, rec.Scopes, "trace_packet_header")
	assert.Contains(t, rec.Scopes, "event_fields")
}

func TestBuildSelectedFields(t *testing.T) {
	it := openEvents(t, syscallEvent())
	require.True(t, it.Next())

	rec, err := Builder{Fields: []string{"filename", "ret"}}.Build(it.Event())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"filename": "/etc/passwd"}, rec.Scopes["event_fields"])
	assert.Equal(t, []string{"ret"}, rec.Missing)
}

func TestBuildNoTimestamp(t *testing.T) {
	it := openEvents(t, nativetest.Event{Name: "lost", Timestamp: nativetest.NoTimestamp})
	require.True(t, it.Next())

	rec, err := Builder{}.Build(it.Event())
	require.NoError(t, err)
	assert.True(t, rec.NoTimestamp)
	assert.Zero(t, rec.Timestamp)
	assert.Nil(t, rec.Scopes)
	assert.Equal(t, "unknown", FormatTimestamp(rec))
}

func TestBuildStaleEvent(t *testing.T) {
	second := syscallEvent()
	second.Timestamp++
	it := openEvents(t, syscallEvent(), second)
	require.True(t, it.Next())
	ev := it.Event()
	require.True(t, it.Next())

	_, err := Builder{}.Build(ev)
	assert.ErrorIs(t, err, babeltrace.ErrStaleView)
}

func sampleRecord() Record {
	return Record{
		Name:      "sched_switch",
		Timestamp: 1_700_000_000_000_000_123,
		Scopes: map[string]map[string]any{
			"event_fields": {
				"prev_comm": "swapper/0",
				"next_tid":  uint64(42),
				"cpus":      []any{uint64(0), uint64(1)},
				"empty":     map[string]any{},
			},
		},
	}
}

func TestTextEncoder(t *testing.T) {
	ui.SetColorEnabled(false)
	defer ui.ResetColor()

	var buf bytes.Buffer
	enc, err := NewEncoder("text", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(sampleRecord()))
	require.NoError(t, enc.Flush())

	want := `[1700000000.000000123] sched_switch: event_fields = { cpus = [ 0, 1 ], empty = { }, next_tid = 42, prev_comm = "swapper/0" }` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder("json", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(sampleRecord()))
	require.NoError(t, enc.Encode(Record{Name: "lost", NoTimestamp: true}))
	require.NoError(t, enc.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "sched_switch", got["name"])
	assert.NotContains(t, got, "no_timestamp")
	assert.Contains(t, lines[1], `"no_timestamp":true`)
}

func TestJSONEncoderNonFiniteFloats(t *testing.T) {
	it := openEvents(t, nativetest.Event{
		Name:      "sensor",
		Timestamp: 5,
		Scopes: map[native.Scope][]nativetest.Field{
			native.ScopeEventFields: {
				nativetest.Float("nan", math.NaN()),
				nativetest.Float("ratio", 0.5),
				nativetest.Array("bounds",
					nativetest.Float("", math.Inf(-1)),
					nativetest.Float("", math.Inf(1)),
				),
			},
		},
	})
	require.True(t, it.Next())
	rec, err := Builder{}.Build(it.Event())
	require.NoError(t, err)

	var buf bytes.Buffer
	enc, err := NewEncoder("json", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(rec))
	require.NoError(t, enc.Flush())

	var got struct {
		Scopes map[string]map[string]any `json:"scopes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	fields := got.Scopes["event_fields"]
	assert.Equal(t, "NaN", fields["nan"])
	assert.Equal(t, 0.5, fields["ratio"])
	assert.Equal(t, []any{"-Inf", "+Inf"}, fields["bounds"])

	// The record itself keeps the float values.
	assert.True(t, math.IsNaN(rec.Scopes["event_fields"]["nan"].(float64)))
}

func TestMsgpackEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder("msgpack", &buf)
	require.NoError(t, err)
	require.NoError(t, enc.Encode(sampleRecord()))
	require.NoError(t, enc.Encode(Record{Name: "second", Timestamp: 7}))
	require.NoError(t, enc.Flush())

	dec := msgpack.NewDecoder(&buf)
	var first, second Record
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "sched_switch", first.Name)
	assert.Equal(t, uint64(1_700_000_000_000_000_123), first.Timestamp)
	assert.Equal(t, "swapper/0", first.Scopes["event_fields"]["prev_comm"])
	assert.Equal(t, "second", second.Name)
	assert.Equal(t, uint64(7), second.Timestamp)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewEncoder("xml", &bytes.Buffer{})
	assert.Error(t, err)
}

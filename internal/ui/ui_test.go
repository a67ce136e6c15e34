package ui

import (
	"bytes"
	"os"
	"testing"
)

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	SetColorEnabled(false)
	defer func() {
		SetWriter(nil)
		ResetColor()
	}()

	Warnf("field %q missing from %d events", "prev_comm", 3)

	want := "Warning: field \"prev_comm\" missing from 3 events\n"
	if got := buf.String(); got != want {
		t.Errorf("Warnf output = %q, want %q", got, want)
	}
}

func TestErrorfColoredPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetWriter(&buf)
	SetColorEnabled(true)
	defer func() {
		SetWriter(nil)
		ResetColor()
	}()

	Errorf("failed to add trace %s", "/tmp/t")

	want := "\033[31mError:\033[0m failed to add trace /tmp/t\n"
	if got := buf.String(); got != want {
		t.Errorf("Errorf with color = %q, want %q", got, want)
	}
}

func TestStyleEnabled(t *testing.T) {
	s := Style{enabled: true}

	tests := []struct {
		name string
		fn   func(string) string
		code string
	}{
		{"Dim", s.Dim, "2"},
		{"Yellow", s.Yellow, "33"},
		{"EventName", s.EventName, "1;36"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("hello")
			want := "\033[" + tt.code + "mhello\033[0m"
			if got != want {
				t.Errorf("%s(\"hello\") = %q, want %q", tt.name, got, want)
			}
		})
	}
}

func TestStyleForBuffer(t *testing.T) {
	ResetColor()
	var buf bytes.Buffer
	if got := StyleFor(&buf).Dim("x"); got != "x" {
		t.Errorf("non-terminal writer should not be colored, got %q", got)
	}
}

func TestNO_COLOR(t *testing.T) {
	ResetColor()
	t.Setenv("NO_COLOR", "1")

	f, err := os.CreateTemp("", "ui-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if ColorFor(f) {
		t.Error("ColorFor should return false when NO_COLOR is set")
	}
}

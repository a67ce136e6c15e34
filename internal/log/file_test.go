package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestFileWriter_Write(t *testing.T) {
	tmpDir := t.TempDir()
	clock := clockz.NewFakeClockAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local))

	fw, err := NewFileWriter(tmpDir, clock)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	if _, err := fw.Write([]byte(`{"msg":"trace added"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, "2026-03-14.jsonl"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), `{"msg":"trace added"}`) {
		t.Errorf("expected content to contain test message, got: %s", content)
	}
}

func TestFileWriter_RotatesAtMidnight(t *testing.T) {
	tmpDir := t.TempDir()
	clock := clockz.NewFakeClockAt(time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local))

	fw, err := NewFileWriter(tmpDir, clock)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer fw.Close()

	fw.Write([]byte("before\n"))
	clock.Advance(2 * time.Minute)
	fw.Write([]byte("after\n"))

	before, _ := os.ReadFile(filepath.Join(tmpDir, "2026-03-14.jsonl"))
	after, _ := os.ReadFile(filepath.Join(tmpDir, "2026-03-15.jsonl"))
	if string(before) != "before\n" {
		t.Errorf("first day file = %q, want %q", before, "before\n")
	}
	if string(after) != "after\n" {
		t.Errorf("second day file = %q, want %q", after, "after\n")
	}

	target, err := os.Readlink(filepath.Join(tmpDir, "latest"))
	if err != nil {
		t.Fatalf("reading symlink: %v", err)
	}
	if target != "2026-03-15.jsonl" {
		t.Errorf("expected symlink to point to 2026-03-15.jsonl, got %s", target)
	}
}

func TestCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	files := map[string]bool{
		"2026-02-01.jsonl": false, // older than retention
		"2026-03-10.jsonl": true,
		"2026-03-14.jsonl": true,
		"notes.txt":        true, // not a log file
	}
	for name := range files {
		os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644)
	}

	Cleanup(tmpDir, 14, now)

	for name, keep := range files {
		_, err := os.Stat(filepath.Join(tmpDir, name))
		if keep && err != nil {
			t.Errorf("%s should have been kept: %v", name, err)
		}
		if !keep && !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", name)
		}
	}
}

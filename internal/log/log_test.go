package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestInit_FileLogging(t *testing.T) {
	tmpDir := t.TempDir()
	clock := clockz.NewFakeClockAt(time.Date(2026, 5, 2, 10, 0, 0, 0, time.Local))

	err := Init(Options{
		DebugDir: tmpDir,
		Stderr:   &bytes.Buffer{},
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Debug("iterator created", "traces", 2)
	Close()

	content, err := os.ReadFile(filepath.Join(tmpDir, "2026-05-02.jsonl"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), "iterator created") {
		t.Errorf("expected log file to contain 'iterator created', got: %s", content)
	}
}

func TestInit_RetentionCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	clock := clockz.NewFakeClockAt(time.Date(2026, 5, 2, 10, 0, 0, 0, time.Local))
	old := filepath.Join(tmpDir, "2026-04-01.jsonl")
	os.WriteFile(old, []byte("old log"), 0644)

	if err := Init(Options{
		DebugDir:      tmpDir,
		RetentionDays: 14,
		Stderr:        &bytes.Buffer{},
		Clock:         clock,
	}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old log file should have been cleaned up")
	}
}

func TestInit_StderrLevels(t *testing.T) {
	var stderr bytes.Buffer

	if err := Init(Options{Stderr: &stderr}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Debug("debug message")
	Info("info message")
	Warn("warn message")

	output := stderr.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug should not appear on stderr in non-verbose mode")
	}
	if strings.Contains(output, "info message") {
		t.Error("info should not appear on stderr in non-verbose mode")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn should appear on stderr")
	}
}

func TestInit_Verbose(t *testing.T) {
	var stderr bytes.Buffer

	if err := Init(Options{Verbose: true, Stderr: &stderr}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	Debug("debug message")
	Info("info message")

	output := stderr.String()
	if !strings.Contains(output, "debug message") {
		t.Error("debug should appear on stderr in verbose mode")
	}
	if !strings.Contains(output, "info message") {
		t.Error("info should appear on stderr in verbose mode")
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var stderr bytes.Buffer

	if err := Init(Options{JSONFormat: true, Stderr: &stderr}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Warn("trace rejected", "path", "/tmp/trace")

	if !strings.Contains(stderr.String(), `"path":"/tmp/trace"`) {
		t.Errorf("expected JSON attributes, got: %s", stderr.String())
	}
}

func TestSetCommand(t *testing.T) {
	var stderr bytes.Buffer

	if err := Init(Options{Stderr: &stderr}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	SetCommand("dump")
	Warn("no events")

	if !strings.Contains(stderr.String(), "cmd=dump") {
		t.Errorf("expected cmd attribute, got: %s", stderr.String())
	}
}

func TestInit_FileErrorKeepsStderr(t *testing.T) {
	var stderr bytes.Buffer
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := Init(Options{
		Verbose:    true,
		JSONFormat: true,
		DebugDir:   filepath.Join(blocker, "debug"),
		Stderr:     &stderr,
	})
	if err == nil {
		t.Fatal("Init should report the debug directory failure")
	}

	Debug("still logging", "trace", "/tmp/kernel")
	if !strings.Contains(stderr.String(), `"msg":"still logging"`) {
		t.Errorf("verbose JSON stderr logging should survive a file error, got: %s", stderr.String())
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".ctfread")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	writeConfig(t, tmpHome, `
output:
  format: json
  scopes: [stream_event_context, event_fields]
index:
  path: ~/traces/index.db
  batch_size: 50
debug:
  retention_days: 7
`)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	if len(cfg.Output.Scopes) != 2 || cfg.Output.Scopes[0] != "stream_event_context" {
		t.Errorf("Output.Scopes = %v", cfg.Output.Scopes)
	}
	if want := filepath.Join(tmpHome, "traces", "index.db"); cfg.Index.Path != want {
		t.Errorf("Index.Path = %q, want %q", cfg.Index.Path, want)
	}
	if cfg.Index.BatchSize != 50 {
		t.Errorf("Index.BatchSize = %d, want 50", cfg.Index.BatchSize)
	}
	if cfg.Debug.RetentionDays != 7 {
		t.Errorf("Debug.RetentionDays = %d, want 7", cfg.Debug.RetentionDays)
	}
}

func TestLoadGlobalConfigDefaults(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want default text", cfg.Output.Format)
	}
	if want := filepath.Join(tmpHome, ".ctfread", "index.db"); cfg.Index.Path != want {
		t.Errorf("Index.Path = %q, want %q", cfg.Index.Path, want)
	}
	if cfg.Debug.RetentionDays != 14 {
		t.Errorf("Debug.RetentionDays = %d, want 14", cfg.Debug.RetentionDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadGlobalConfigMalformed(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	writeConfig(t, tmpHome, "output: [not, a, map")

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want default text", cfg.Output.Format)
	}
}

func TestLoadGlobalConfigEnvOverride(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	writeConfig(t, tmpHome, "output:\n  format: json\n")

	t.Setenv("CTFREAD_FORMAT", "msgpack")
	t.Setenv("CTFREAD_INDEX", "/var/lib/ctfread/events.db")
	t.Setenv("CTFREAD_BATCH_SIZE", "-3")

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Output.Format != "msgpack" {
		t.Errorf("Output.Format = %q, want msgpack from env", cfg.Output.Format)
	}
	if cfg.Index.Path != "/var/lib/ctfread/events.db" {
		t.Errorf("Index.Path = %q, want env value", cfg.Index.Path)
	}
	if cfg.Index.BatchSize != 500 {
		t.Errorf("Index.BatchSize = %d, want default for invalid env value", cfg.Index.BatchSize)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown format")
	}
}

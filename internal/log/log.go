// Package log configures process-wide structured logging for ctfread.
//
// Records go to stderr (warnings and errors unless verbose) and, when a debug
// directory is configured, to a daily JSONL file at every level.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/zoobzio/clockz"
)

var logger *slog.Logger
var fileWriter *FileWriter

// Options configures the logger.
type Options struct {
	// Verbose enables debug/info output to stderr
	Verbose bool
	// JSONFormat uses JSON output format for stderr
	JSONFormat bool
	// DebugDir is the directory for debug log files. If empty, file logging is disabled.
	DebugDir string
	// RetentionDays is how many days to keep log files (0 = no cleanup)
	RetentionDays int
	// Stderr is the writer for stderr output (defaults to os.Stderr)
	Stderr io.Writer
	// Clock drives file rotation and cleanup (defaults to the real clock)
	Clock clockz.Clock
}

// Init initializes the global logger with the given options.
func Init(opts Options) error {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockz.RealClock
	}

	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}
	stderrOpts := &slog.HandlerOptions{Level: stderrLevel}

	var handlers []slog.Handler
	if opts.JSONFormat {
		handlers = append(handlers, slog.NewJSONHandler(stderr, stderrOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stderr, stderrOpts))
	}

	Close()
	var fileErr error
	if opts.DebugDir != "" {
		if opts.RetentionDays > 0 {
			Cleanup(opts.DebugDir, opts.RetentionDays, clock.Now())
		}

		fw, err := NewFileWriter(opts.DebugDir, clock)
		if err != nil {
			fileErr = err
		} else {
			fileWriter = fw
			handlers = append(handlers, slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		}
	}

	// The stderr handler is installed even when the debug file failed.
	logger = slog.New(fanout(handlers))
	slog.SetDefault(logger)
	return fileErr
}

// Close closes the debug file if one is open.
func Close() {
	if fileWriter != nil {
		fileWriter.Close()
		fileWriter = nil
	}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// SetCommand tags subsequent records with the running subcommand so the
// debug file can be filtered per invocation.
func SetCommand(name string) {
	logger = slog.New(logger.Handler().WithAttrs([]slog.Attr{
		slog.String("cmd", name),
	}))
	slog.SetDefault(logger)
}

func init() {
	logger = slog.Default()
}

// Package ui provides terminal styling and user-facing messages for ctfread.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var writer io.Writer = os.Stderr

// SetWriter overrides the message writer (for testing). nil restores stderr.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	writer = w
}

// --- Color detection ---

var colorOverride *bool

// SetColorEnabled forces color on or off regardless of the terminal (for testing).
func SetColorEnabled(enabled bool) {
	colorOverride = &enabled
}

// ResetColor restores terminal detection.
func ResetColor() {
	colorOverride = nil
}

// ColorFor reports whether output written to w should be colored: w must be
// a terminal and NO_COLOR unset.
func ColorFor(w io.Writer) bool {
	if colorOverride != nil {
		return *colorOverride
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// --- Styles ---

// Style wraps strings in ANSI codes when enabled.
type Style struct {
	enabled bool
}

// StyleFor returns a Style for output written to w.
func StyleFor(w io.Writer) Style {
	return Style{enabled: ColorFor(w)}
}

func (s Style) wrap(code, text string) string {
	if !s.enabled {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

// Dim renders text dimmed.
func (s Style) Dim(text string) string { return s.wrap("2", text) }

// Yellow renders text in yellow.
func (s Style) Yellow(text string) string { return s.wrap("33", text) }

// EventName renders an event name (bold cyan).
func (s Style) EventName(text string) string { return s.wrap("1;36", text) }

// --- Messages (stderr, colored prefix) ---

// Warnf prints a formatted user-facing warning.
func Warnf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", StyleFor(writer).wrap("33", "Warning:"), fmt.Sprintf(format, args...))
}

// Errorf prints a formatted user-facing error.
func Errorf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", StyleFor(writer).wrap("31", "Error:"), fmt.Sprintf(format, args...))
}

package babeltrace

import (
	"fmt"

	"github.com/majorcontext/babeltrace/internal/native"
)

// Format identifies an on-disk trace format understood by the native library.
type Format int

const (
	// FormatCTF is the Common Trace Format.
	FormatCTF Format = iota
)

func (f Format) String() string {
	switch f {
	case FormatCTF:
		return "ctf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// tag returns the string the native library uses to select a format plugin.
func (f Format) tag() (string, bool) {
	switch f {
	case FormatCTF:
		return native.FormatCTF, true
	default:
		return "", false
	}
}

// ParseFormat parses a format name such as "ctf".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ctf", "CTF":
		return FormatCTF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

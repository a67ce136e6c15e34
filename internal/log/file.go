package log

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

const dayLayout = "2006-01-02"

// FileWriter writes to dir/YYYY-MM-DD.jsonl, switching files when the day
// changes and keeping dir/latest pointed at the current one.
type FileWriter struct {
	dir   string
	clock clockz.Clock

	mu   sync.Mutex
	file *os.File
	day  string
}

// NewFileWriter creates dir if needed and opens today's file.
func NewFileWriter(dir string, clock clockz.Clock) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating debug log dir: %w", err)
	}
	if clock == nil {
		clock = clockz.RealClock
	}

	fw := &FileWriter{dir: dir, clock: clock}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if err := fw.openLocked(fw.clock.Now().Format(dayLayout)); err != nil {
		return nil, err
	}
	return fw, nil
}

// Write implements io.Writer.
func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if day := fw.clock.Now().Format(dayLayout); day != fw.day {
		if err := fw.openLocked(day); err != nil {
			return 0, err
		}
	}
	return fw.file.Write(p)
}

// Close closes the current file.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.file == nil {
		return nil
	}
	err := fw.file.Close()
	fw.file = nil
	return err
}

func (fw *FileWriter) openLocked(day string) error {
	if fw.file != nil {
		fw.file.Close()
	}

	name := day + ".jsonl"
	f, err := os.OpenFile(filepath.Join(fw.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	fw.file = f
	fw.day = day
	fw.link(name)
	return nil
}

// link repoints dir/latest at name. Failures are ignored.
func (fw *FileWriter) link(name string) {
	latest := filepath.Join(fw.dir, "latest")
	tmp := latest + ".tmp"
	os.Remove(tmp)
	if err := os.Symlink(name, tmp); err != nil {
		return
	}
	_ = os.Rename(tmp, latest)
}

var logFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\.jsonl$`)

// Cleanup removes daily log files in dir dated more than retentionDays before now.
func Cleanup(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !logFilePattern.MatchString(name) {
			continue
		}
		day, err := time.Parse(dayLayout, name[:10])
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			os.Remove(filepath.Join(dir, name))
		}
	}
}

// Package fs provides filesystem-backed implementations of civsearch
// services: an append-only event log and a YAML contacts file.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/civsearch/civsearch"
)

var _ civsearch.EventLog = (*EventLog)(nil)

// EventLog appends timestamped lines to a plain text file. It is safe for
// concurrent use within one process; it does not coordinate across
// processes.
type EventLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewEventLog creates an EventLog writing to path. Parent directories are
// created on first append.
func NewEventLog(path string) *EventLog {
	return &EventLog{path: path, now: time.Now}
}

// Append writes one line to the log. Embedded newlines are flattened so
// each entry stays on a single line.
func (l *EventLog) Append(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()

	msg = strings.ReplaceAll(msg, "\n", " ")
	line := fmt.Sprintf("%s %s\n", l.now().UTC().Format(time.RFC3339), msg)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}
	return nil
}

// LastN returns the last n lines of the log, oldest first. A missing log
// file yields no lines.
func (l *EventLog) LastN(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

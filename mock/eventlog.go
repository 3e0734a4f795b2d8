package mock

import (
	"sync"

	"github.com/civsearch/civsearch"
)

var _ civsearch.EventLog = (*EventLog)(nil)

// EventLog is a mock implementation of civsearch.EventLog that records
// appended lines in memory.
type EventLog struct {
	mu    sync.Mutex
	Lines []string
}

func (l *EventLog) Append(msg string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, msg)
	return nil
}

func (l *EventLog) LastN(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || len(l.Lines) == 0 {
		return nil, nil
	}
	if n > len(l.Lines) {
		n = len(l.Lines)
	}
	return append([]string(nil), l.Lines[len(l.Lines)-n:]...), nil
}

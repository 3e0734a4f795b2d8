package civsearch

// EventLog is an append-only, timestamped, line-oriented log of discrete
// ingestion events. Callers (a log viewer) read the last N lines.
type EventLog interface {
	// Append writes one line to the log, prefixed with a timestamp.
	Append(msg string) error

	// LastN returns up to n most recent lines, oldest first.
	LastN(n int) ([]string, error)
}

// NopEventLog discards all events. Useful as a default and in tests.
type NopEventLog struct{}

func (NopEventLog) Append(string) error         { return nil }
func (NopEventLog) LastN(int) ([]string, error) { return nil, nil }

var _ EventLog = NopEventLog{}

// Package eventlog provides the append-only record log shared by every
// component of a scrape session. Each capability service and traffic
// listener appends tagged records describing its activity; the log is the
// single artifact a session produces.
package eventlog

import (
	"sync"
)

// Record is one tagged entry in the log. Source identifies the component
// that produced it; Payload is deliberately schemaless so heterogeneous
// components can record whatever shape suits them.
type Record struct {
	Source  string
	Payload []any
}

// Log is an append-only, insertion-ordered sequence of records. Records are
// never reordered or mutated after append. One log exists per session and is
// shared by reference across all of its services and listeners.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Append adds a record to the end of the log. It never fails. Listeners fire
// from driver event goroutines, so appends are serialized with a mutex.
func (l *Log) Append(source string, payload ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, Record{Source: source, Payload: payload})
}

// Len returns the number of records appended so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Snapshot returns a copy of all records in insertion order. The copy is
// defensive at the slice level; payload values are shared.
func (l *Log) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]Record, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

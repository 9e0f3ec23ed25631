package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalJSON serializes a record as a single-key object mapping the source
// name to its payload sequence, e.g. {"cookies": [...]}.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]any{r.Source: r.Payload})
}

// UnmarshalJSON parses the single-key object form produced by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var entry map[string][]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	if len(entry) != 1 {
		return fmt.Errorf("expected a single-source record, got %d sources", len(entry))
	}
	for source, payload := range entry {
		r.Source = source
		r.Payload = payload
	}
	return nil
}

// WriteFile serializes the full log to path as a JSON array of records. The
// write is all-or-nothing: the snapshot is marshaled up front and written to
// a temp file that is renamed into place, so a failure leaves no partial
// snapshot behind.
func (l *Log) WriteFile(path string) error {
	data, err := json.MarshalIndent(l.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename snapshot into place: %w", err)
	}
	return nil
}

// ReadSnapshot parses a previously exported snapshot file back into records,
// preserving order. Payload values come back as decoded JSON (maps, slices,
// strings, float64 numbers).
func ReadSnapshot(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return records, nil
}

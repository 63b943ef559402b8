// Package journal records applied renames and deletions as JSON lines.
//
// A journal is an audit trail only. Entries are appended once an apply run
// finishes, one per attempted action, and nothing ever replays them.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Entry types.
const (
	TypeDelete = "delete"
	TypeRename = "rename"
)

// maxLineSize bounds a single journal line when reading.
const maxLineSize = 1 << 20

// Entry is one attempted action.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Type      string    `json:"type"`            // TypeDelete or TypeRename
	Kind      string    `json:"kind"`            // "file" or "dir"
	Root      string    `json:"root"`            // directory the entry lives in
	Source    string    `json:"src"`             // original name
	Dest      string    `json:"dst,omitempty"`   // new name, renames only
	Success   bool      `json:"ok"`              // false when the action failed
	Error     string    `json:"error,omitempty"` // failure message
}

// Writer appends entries to a journal file.
type Writer struct {
	file *os.File
	enc  *json.Encoder
}

// Open opens the journal at path for appending, creating it if needed.
// The parent directory must already exist.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Writer{file: f, enc: json.NewEncoder(f)}, nil
}

// Append writes entries in order and syncs once they are all written.
// Entries without a timestamp get the time of the call.
func (w *Writer) Append(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range entries {
		entry := entries[i]
		if entry.Timestamp.IsZero() {
			entry.Timestamp = now
		}
		if err := w.enc.Encode(entry); err != nil {
			return fmt.Errorf("encode journal entry %d: %w", i+1, err)
		}
	}

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// Read returns every entry in the journal at path, in file order.
// Blank lines are skipped. A malformed line stops the read; the entries
// before it are returned along with an error naming the line.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []Entry
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return entries, fmt.Errorf("decode journal line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("read journal: %w", err)
	}
	return entries, nil
}

// Failed returns the entries whose action did not succeed.
func Failed(entries []Entry) []Entry {
	var failed []Entry
	for _, entry := range entries {
		if !entry.Success {
			failed = append(failed, entry)
		}
	}
	return failed
}

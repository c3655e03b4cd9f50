package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the UTC layout of Entry.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry. It never holds key material,
// ciphertext or plaintext.
type Entry struct {
	ID        string `json:"id"`     // Random UUID.
	Timestamp string `json:"ts"`     // RFC3339 with microseconds.
	Device    string `json:"device"` // Local device id.
	Operation string `json:"op"`     // Operation name.

	// Optional fields depending on operation.
	Peer      string `json:"peer,omitempty"`       // Recipient or sender device id, for wrap/unwrap/peer ops.
	CaseID    string `json:"case,omitempty"`       // For case new.
	Backend   string `json:"backend,omitempty"`    // For identity init.
	PeerLabel string `json:"peer_label,omitempty"` // For peer add.
}

// Log appends entries to a JSON Lines file.
type Log struct {
	path    string
	enabled bool
}

func NewLog(path string, enabled bool) *Log {
	return &Log{path: path, enabled: enabled}
}

// Path returns the audit log location.
func (l *Log) Path() string {
	return l.path
}

// Record appends an entry to the audit log.
// If logging fails, the failure is swallowed: operations should not fail
// just because audit logging failed.
func (l *Log) Record(entry Entry) {
	if l == nil || !l.enabled || l.path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampLayout)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func (l *Log) ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

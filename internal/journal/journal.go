// Package journal appends a JSONL record of watch sessions: when a session
// starts and stops, which files changed, and what each re-render found.
package journal

import (
	"fmt"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Event kinds.
const (
	KindWatchStart   = "watch_start"
	KindWatchStop    = "watch_stop"
	KindFileChanged  = "file_changed"
	KindRender       = "render"
	KindRenderFailed = "render_failed"
)

// Event is one journal line.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Session   string    `json:"session"`
	Kind      string    `json:"kind"`
	File      string    `json:"file,omitempty"`
	Error     string    `json:"error,omitempty"`
	Reading   *Reading  `json:"reading,omitempty"`
}

// Reading summarizes one rendered report.
type Reading struct {
	At         time.Time `json:"at"`
	Mahadasha  string    `json:"mahadasha"`
	Antardasha string    `json:"antardasha"`
	Highest    int       `json:"highest"`
	High       int       `json:"high"`
	General    int       `json:"general"`
}

// Journal writes events to a JSONL file. It is safe for concurrent use. A
// nil *Journal is a valid no-op journal.
type Journal struct {
	file    *os.File
	enc     *json.Encoder
	mu      sync.Mutex
	now     func() time.Time
	session string
}

// Open creates the file at path or appends to it. Every event written
// through the returned journal carries the same fresh session id.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return &Journal{file: f, enc: json.NewEncoder(f), now: time.Now, session: uuid.NewString()}, nil
}

// Session returns the id stamped on this journal's events.
func (j *Journal) Session() string {
	if j == nil {
		return ""
	}
	return j.session
}

// Emit writes evt, stamping it with the session id and, when Timestamp is
// zero, the current time.
func (j *Journal) Emit(evt Event) error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = j.now().UTC()
	}
	evt.Session = j.session
	if err := j.enc.Encode(evt); err != nil {
		return fmt.Errorf("journal: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("journal: close: %w", err)
	}
	return nil
}

// Package audit provides an append-only audit log of persisted object changes.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aidanlsb/nagmodel/internal/model"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"` // save, rewrite, delete
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type,omitempty"`
	Object    string    `json:"object,omitempty"` // shortname
	Filename  string    `json:"filename,omitempty"`
	Message   string    `json:"message,omitempty"`
	Field     string    `json:"field,omitempty"`
	Old       string    `json:"old,omitempty"`
	New       string    `json:"new,omitempty"`
}

// Logger handles writing to the audit log. It observes a model.Registry
// and records write events; debug events are ignored.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
	err     error
}

// New creates a new audit logger writing to path.
// An empty path yields a no-op logger.
func New(path string) *Logger {
	if path == "" {
		return &Logger{enabled: false}
	}
	return &Logger{path: path, enabled: true}
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.path }

// Enabled returns true if the audit logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Log writes an entry to the audit log.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}

// Notify implements model.Observer. Write failures are kept and reported
// by Err, since observers cannot fail the operation that notified them.
func (l *Logger) Notify(e model.Event) {
	if e.Level != model.EventWrite {
		return
	}
	entry := Entry{
		Timestamp: e.Time.UTC(),
		Operation: string(e.Op),
		Message:   e.Message,
		Field:     e.Field,
		Old:       e.Old,
		New:       e.New,
	}
	if e.Object != nil {
		entry.ID = e.Object.ID()
		entry.Type = string(e.Object.Type())
		entry.Object = e.Object.Shortname()
		entry.Filename = e.Object.Meta().Filename
	}
	if err := l.Log(entry); err != nil {
		l.mu.Lock()
		if l.err == nil {
			l.err = err
		}
		l.mu.Unlock()
	}
}

// Err returns the first error met while recording events.
func (l *Logger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Read reads all entries from the audit log.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // Skip malformed entries
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	return entries, nil
}

// ReadSince reads entries from the audit log since the given time.
func (l *Logger) ReadSince(since time.Time) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}

	var filtered []Entry
	for _, entry := range all {
		if !entry.Timestamp.Before(since) {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}

// ReadForObject reads entries for a specific object ID.
func (l *Logger) ReadForObject(id string) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}

	var filtered []Entry
	for _, entry := range all {
		if entry.ID == id {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}

var _ model.Observer = (*Logger)(nil)

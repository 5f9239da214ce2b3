// Package history keeps an append-only log of checklist mutations next to
// the session snapshot. It is best-effort: callers log failures and move on,
// the checklist itself never depends on it.
package history

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Event types.
const (
	TypeToggle = "item.toggle"
	TypeUndo   = "item.undo"
	TypeReset  = "checklist.reset"
)

type Event struct {
	ID      string    `json:"id"`
	TS      time.Time `json:"ts"`
	Type    string    `json:"type"`
	Item    string    `json:"item,omitempty"`
	Checked bool      `json:"checked"`
}

type Backend string

const (
	BackendJSONL  Backend = "jsonl"
	BackendSQLite Backend = "sqlite"
	BackendOff    Backend = "off"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendJSONL:
		return BackendJSONL, nil
	case BackendSQLite:
		return BackendSQLite, nil
	case BackendOff:
		return BackendOff, nil
	default:
		return "", fmt.Errorf("unknown history backend: %q", s)
	}
}

// Log appends mutation events for one checklist. A nil *Log is a valid no-op
// logger, as is the off backend.
type Log struct {
	backend Backend
	path    string
}

// Open derives the log location from the session snapshot path. The file (or
// database) is created lazily on first append.
func Open(backend Backend, snapshotPath string) *Log {
	switch backend {
	case BackendSQLite:
		return &Log{backend: backend, path: snapshotPath + ".history.sqlite"}
	case BackendJSONL:
		return &Log{backend: backend, path: snapshotPath + ".events.jsonl"}
	default:
		return nil
	}
}

// Path returns the backing file path ("" for a no-op log).
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append records one event, filling in ID and timestamp.
func (l *Log) Append(typ, item string, checked bool) error {
	if l == nil {
		return nil
	}
	id, err := newEventID()
	if err != nil {
		return err
	}
	ev := Event{
		ID:      id,
		TS:      time.Now().UTC(),
		Type:    typ,
		Item:    item,
		Checked: checked,
	}
	switch l.backend {
	case BackendSQLite:
		return l.appendSQLite(ev)
	default:
		return l.appendJSONL(ev)
	}
}

// Events returns all recorded events in append order.
func (l *Log) Events() ([]Event, error) {
	if l == nil {
		return []Event{}, nil
	}
	switch l.backend {
	case BackendSQLite:
		return l.readSQLite()
	default:
		return l.readJSONL()
	}
}

func newEventID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	// RFC 4122 variant + v4
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8|uint32(b[3]),
		uint16(b[4])<<8|uint16(b[5]),
		uint16(b[6])<<8|uint16(b[7]),
		uint16(b[8])<<8|uint16(b[9]),
		uint64(b[10])<<40|uint64(b[11])<<32|uint64(b[12])<<24|uint64(b[13])<<16|uint64(b[14])<<8|uint64(b[15]),
	), nil
}

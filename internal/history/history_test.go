package history

import (
	"path/filepath"
	"testing"
)

func TestJSONLAppendAndRead(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "sessions", "trip.ckl")
	l := Open(BackendJSONL, snap)

	if err := l.Append(TypeToggle, "passport", true); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(TypeUndo, "passport", false); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(TypeReset, "", false); err != nil {
		t.Fatalf("append: %v", err)
	}

	evs, err := l.Events()
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("expected 3 events; got %d", len(evs))
	}
	if evs[0].Type != TypeToggle || evs[0].Item != "passport" || !evs[0].Checked {
		t.Fatalf("unexpected first event: %+v", evs[0])
	}
	if evs[2].Type != TypeReset {
		t.Fatalf("unexpected last event: %+v", evs[2])
	}
	if evs[0].ID == "" || evs[0].ID == evs[1].ID {
		t.Fatalf("events must carry distinct ids")
	}
	if evs[0].TS.IsZero() {
		t.Fatalf("events must carry timestamps")
	}
}

func TestSQLiteAppendAndRead(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "sessions", "trip.ckl")
	l := Open(BackendSQLite, snap)

	if err := l.Append(TypeToggle, "socks", true); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(TypeToggle, "socks", false); err != nil {
		t.Fatalf("append: %v", err)
	}

	evs, err := l.Events()
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events; got %d", len(evs))
	}
	if evs[0].Item != "socks" || !evs[0].Checked || evs[1].Checked {
		t.Fatalf("unexpected events: %+v", evs)
	}
}

func TestReadWithoutLogFile(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "none.ckl")
	for _, b := range []Backend{BackendJSONL, BackendSQLite} {
		evs, err := Open(b, snap).Events()
		if err != nil {
			t.Fatalf("%s events: %v", b, err)
		}
		if len(evs) != 0 {
			t.Fatalf("%s: expected no events; got %d", b, len(evs))
		}
	}
}

func TestOffBackendIsNoop(t *testing.T) {
	l := Open(BackendOff, "ignored")
	if l != nil {
		t.Fatalf("off backend must yield a nil log")
	}
	if err := l.Append(TypeToggle, "x", true); err != nil {
		t.Fatalf("nil log append must be a no-op: %v", err)
	}
	if evs, err := l.Events(); err != nil || len(evs) != 0 {
		t.Fatalf("nil log events must be empty: %v %v", evs, err)
	}
}

func TestParseBackend(t *testing.T) {
	cases := map[string]Backend{
		"":       BackendJSONL,
		"jsonl":  BackendJSONL,
		"SQLite": BackendSQLite,
		"off":    BackendOff,
	}
	for in, want := range cases {
		got, err := ParseBackend(in)
		if err != nil {
			t.Fatalf("ParseBackend(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseBackend(%q): got %q want %q", in, got, want)
		}
	}
	if _, err := ParseBackend("bogus"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ckl-cli/internal/checklist"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSnapshotPathFor(t *testing.T) {
	cases := []struct {
		listPath string
		want     string
	}{
		{filepath.Join("lists", "travel", "full.ckl"), filepath.Join("sessions", "travel", "full.ckl")},
		{filepath.Join("lists", "simple.ckl"), filepath.Join("sessions", "simple.ckl")},
		// No lists-root segment: fall back to the sessions root.
		{filepath.Join("elsewhere", "x.ckl"), filepath.Join("sessions", "x.ckl")},
	}
	for _, tc := range cases {
		if got := SnapshotPathFor(tc.listPath, "lists", "sessions"); got != tc.want {
			t.Fatalf("SnapshotPathFor(%q): got %q want %q", tc.listPath, got, tc.want)
		}
	}
}

func TestFirstLoadParsesAndKeepsDuplicates(t *testing.T) {
	dir := t.TempDir()
	listsRoot := filepath.Join(dir, "lists")
	sessionsRoot := filepath.Join(dir, "sessions")
	listPath := filepath.Join(listsRoot, "pack.ckl")
	writeFile(t, listPath, "shoes\nhat\nshoes\n")

	s := New(listPath, listsRoot, sessionsRoot)
	root, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if root.Name != "pack" || len(root.Children) != 3 {
		t.Fatalf("unexpected tree: %q with %d children", root.Name, len(root.Children))
	}
	if len(s.Duplicates) != 2 {
		t.Fatalf("expected 2 duplicate records on a fresh parse; got %d", len(s.Duplicates))
	}
}

func TestSecondLoadUsesSnapshotWithoutReparsing(t *testing.T) {
	dir := t.TempDir()
	listsRoot := filepath.Join(dir, "lists")
	sessionsRoot := filepath.Join(dir, "sessions")
	listPath := filepath.Join(listsRoot, "trip.ckl")
	writeFile(t, listPath, "passport\nclothes\n  socks\n  shirts\npassport\n")

	s := New(listPath, listsRoot, sessionsRoot)
	root, err := s.Load()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	root.Items()[0].Check(true)
	root.Children[1].Check(true)
	if err := s.Dump(); err != nil {
		t.Fatalf("dump: %v", err)
	}

	// Remove the source list: a snapshot reload must not touch the parser.
	if err := os.Remove(listPath); err != nil {
		t.Fatalf("remove list: %v", err)
	}

	s2 := New(listPath, listsRoot, sessionsRoot)
	root2, err := s2.Load()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(s2.Duplicates) != 0 {
		t.Fatalf("snapshot reloads must have an empty duplicate list; got %v", s2.Duplicates)
	}

	if root2.Name != "trip" {
		t.Fatalf("expected name to survive the round-trip; got %q", root2.Name)
	}
	if !root2.Children[0].Checked {
		t.Fatalf("expected passport checked after reload")
	}
	clothes := root2.Children[1]
	if clothes.Kind != checklist.KindList || !clothes.Checked {
		t.Fatalf("expected checked clothes list after reload; got %+v", clothes)
	}
	for _, c := range clothes.Children {
		if !c.Checked {
			t.Fatalf("expected %q checked after reload", c.Name)
		}
	}
}

func TestCorruptSnapshotIsFatal(t *testing.T) {
	dir := t.TempDir()
	listsRoot := filepath.Join(dir, "lists")
	sessionsRoot := filepath.Join(dir, "sessions")
	listPath := filepath.Join(listsRoot, "x.ckl")
	writeFile(t, listPath, "one\n")
	writeFile(t, filepath.Join(sessionsRoot, "x.ckl"), "{not json")

	s := New(listPath, listsRoot, sessionsRoot)
	_, err := s.Load()
	var serr *SnapshotError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SnapshotError; got %v", err)
	}
}

func TestMissingListIsFatalOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	listsRoot := filepath.Join(dir, "lists")
	s := New(filepath.Join(listsRoot, "nope.ckl"), listsRoot, filepath.Join(dir, "sessions"))
	if _, err := s.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file-not-found; got %v", err)
	}
}

func TestDumpCreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	listsRoot := filepath.Join(dir, "lists")
	sessionsRoot := filepath.Join(dir, "sessions")
	listPath := filepath.Join(listsRoot, "travel", "full.ckl")
	writeFile(t, listPath, "a\n")

	s := New(listPath, listsRoot, sessionsRoot)
	if _, err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Dump(); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if _, err := os.Stat(filepath.Join(sessionsRoot, "travel", "full.ckl")); err != nil {
		t.Fatalf("expected snapshot under the sessions root: %v", err)
	}
}

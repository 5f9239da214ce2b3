package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ckl-cli/internal/checklist"
)

// SnapshotError reports a session file whose contents could not be decoded.
// A corrupted snapshot is fatal; the source checklist is never silently
// re-parsed over saved progress.
type SnapshotError struct {
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("session snapshot %s: %v", e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Session owns the durable checked-state for one checklist: a fresh parse on
// the first run, a snapshot reload on subsequent runs.
type Session struct {
	ListPath     string
	SnapshotPath string

	Root       *checklist.Node
	Duplicates []checklist.Duplicate

	listsRoot string
}

func New(listPath, listsRoot, sessionsRoot string) *Session {
	return &Session{
		ListPath:     listPath,
		SnapshotPath: SnapshotPathFor(listPath, listsRoot, sessionsRoot),
		listsRoot:    listsRoot,
	}
}

// SnapshotPathFor derives the session file path by swapping the lists-root
// segment of the checklist path for the sessions root, keeping the rest of
// the relative path and filename. Paths that don't contain the lists root
// fall back to sessionsRoot/<basename>.
func SnapshotPathFor(listPath, listsRoot, sessionsRoot string) string {
	lp := filepath.ToSlash(listPath)
	lr := filepath.ToSlash(filepath.Clean(listsRoot))
	sr := filepath.ToSlash(filepath.Clean(sessionsRoot))

	if mapped := strings.Replace(lp, lr, sr, 1); mapped != lp {
		return filepath.FromSlash(mapped)
	}
	return filepath.Join(sessionsRoot, filepath.Base(listPath))
}

// Load restores the tree: from the snapshot when one exists (no duplicate
// detection, no source metadata), otherwise from a fresh parse of the
// checklist source, keeping its duplicate list.
func (s *Session) Load() (*checklist.Node, error) {
	b, err := os.ReadFile(s.SnapshotPath)
	switch {
	case err == nil:
		var root checklist.Node
		if uerr := json.Unmarshal(b, &root); uerr != nil {
			return nil, &SnapshotError{Path: s.SnapshotPath, Err: uerr}
		}
		if root.Kind != checklist.KindList {
			return nil, &SnapshotError{Path: s.SnapshotPath, Err: errors.New("top-level node has no items")}
		}
		s.Root = &root
		s.Duplicates = nil
		return s.Root, nil

	case errors.Is(err, os.ErrNotExist):
		p := checklist.NewParser(s.ListPath, s.listsRoot)
		root, perr := p.Load()
		if perr != nil {
			return nil, perr
		}
		s.Root = root
		s.Duplicates = p.Duplicates()
		return s.Root, nil

	default:
		return nil, err
	}
}

// Dump persists the current tree to the snapshot path, creating parent
// directories as needed. Called after every mutation; the write is atomic
// (tmp + rename) so a crash never leaves a half-written snapshot.
func (s *Session) Dump() error {
	if s.Root == nil {
		return errors.New("session has no tree to dump")
	}
	b, err := json.MarshalIndent(s.Root, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.SnapshotPath), 0o755); err != nil {
		return err
	}
	tmp := s.SnapshotPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.SnapshotPath)
}

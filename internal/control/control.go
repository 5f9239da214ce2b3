// Package control is the boundary the interactive layer talks to: toggle,
// undo, reset and the display filter. Every mutation pushes undo state,
// persists the session snapshot and records a history event.
package control

import (
	"github.com/charmbracelet/log"

	"ckl-cli/internal/checklist"
	"ckl-cli/internal/history"
	"ckl-cli/internal/session"
)

// undoEntry captures the pre-mutation state of one node. For a list the
// pre-order flags of every descendant ride along (childFlags is nil for
// leaves); the pair is pushed and popped atomically.
type undoEntry struct {
	node       *checklist.Node
	checked    bool
	childFlags []bool
}

type Control struct {
	session *session.Session
	root    *checklist.Node
	hist    *history.Log

	undo          []undoEntry
	showCompleted bool
}

func New(sess *session.Session, hist *history.Log) *Control {
	return &Control{
		session: sess,
		root:    sess.Root,
		hist:    hist,
	}
}

func (c *Control) Root() *checklist.Node { return c.root }

func (c *Control) Name() string { return c.root.Name }

// Duplicates is the warning payload from the initial parse; empty after a
// snapshot reload.
func (c *Control) Duplicates() []checklist.Duplicate { return c.session.Duplicates }

func (c *Control) ShowCompleted() bool { return c.showCompleted }

// ToggleShowCompleted flips the display filter. It never mutates or persists
// checked state.
func (c *Control) ToggleShowCompleted() { c.showCompleted = !c.showCompleted }

// DisplayedItems is the filtered pre-order list used for indexed access:
// unchecked items only, or everything when show-completed is on.
func (c *Control) DisplayedItems() []checklist.Entry {
	entries := c.root.Entries()
	if c.showCompleted {
		return entries
	}
	var out []checklist.Entry
	for _, e := range entries {
		if e.Node.Unchecked() {
			out = append(out, e)
		}
	}
	return out
}

// Completed reports whether no unchecked items remain anywhere in the tree.
func (c *Control) Completed() bool {
	for _, it := range c.root.Items() {
		if it.Unchecked() {
			return false
		}
	}
	return true
}

// Progress returns checked and total item counts for the status line.
func (c *Control) Progress() (checked, total int) {
	items := c.root.Items()
	for _, it := range items {
		if it.Checked {
			checked++
		}
	}
	return checked, len(items)
}

func (c *Control) CanUndo() bool { return len(c.undo) > 0 }

func (c *Control) pushUndo(n *checklist.Node) {
	e := undoEntry{node: n, checked: n.Checked}
	if n.Kind == checklist.KindList {
		for _, it := range n.Items() {
			e.childFlags = append(e.childFlags, it.Checked)
		}
	}
	c.undo = append(c.undo, e)
}

// ToggleAt toggles the item at the given position in the displayed list,
// pushes undo and persists. It reports whether the checklist is now fully
// complete. An out-of-range index is a no-op.
func (c *Control) ToggleAt(idx int) (completed bool, err error) {
	items := c.DisplayedItems()
	if idx < 0 || idx >= len(items) {
		return c.Completed(), nil
	}
	n := items[idx].Node
	c.pushUndo(n)
	n.Toggle()

	if err := c.session.Dump(); err != nil {
		return false, err
	}
	if herr := c.hist.Append(history.TypeToggle, n.Name, n.Checked); herr != nil {
		log.Warn("history append failed", "err", herr)
	}
	return c.Completed(), nil
}

// Undo reverses the most recent toggle and persists, returning the affected
// node so the caller can reposition its cursor. With an empty stack it is a
// no-op returning nil.
func (c *Control) Undo() (*checklist.Node, error) {
	if len(c.undo) == 0 {
		return nil, nil
	}
	e := c.undo[len(c.undo)-1]
	c.undo = c.undo[:len(c.undo)-1]

	e.node.Check(e.checked)
	if e.node.Kind == checklist.KindList {
		// Restore each descendant's own flag in the recorded pre-order. The
		// fresh traversal matches the snapshot position-for-position as long
		// as the tree shape is unchanged, which holds within one session.
		for i, it := range e.node.Items() {
			if i >= len(e.childFlags) {
				break
			}
			it.Check(e.childFlags[i])
		}
	}

	if err := c.session.Dump(); err != nil {
		return nil, err
	}
	if herr := c.hist.Append(history.TypeUndo, e.node.Name, e.node.Checked); herr != nil {
		log.Warn("history append failed", "err", herr)
	}
	return e.node, nil
}

// ResetAll clears the undo stack, force-unchecks every node and persists.
func (c *Control) ResetAll() error {
	c.undo = nil
	c.root.Uncheck()

	if err := c.session.Dump(); err != nil {
		return err
	}
	if herr := c.hist.Append(history.TypeReset, "", false); herr != nil {
		log.Warn("history append failed", "err", herr)
	}
	return nil
}

package checklist

import (
	"encoding/json"
	"strings"
)

// Kind distinguishes leaf items from nested lists. Operations switch on the
// kind instead of relying on dynamic dispatch, so a Node is safe to copy
// around as a plain value.
type Kind uint8

const (
	KindItem Kind = iota
	KindList
)

// Node is a checklist entry: either a leaf item or a list with ordered
// children. Children order is declaration order and is significant for
// display, search and undo.
type Node struct {
	Kind     Kind
	Name     string
	Checked  bool
	Children []*Node
}

func NewItem(name string, checked bool) *Node {
	return &Node{Kind: KindItem, Name: strings.TrimSpace(name), Checked: checked}
}

func NewList(name string, children []*Node, checked bool) *Node {
	return &Node{Kind: KindList, Name: strings.TrimSpace(name), Checked: checked, Children: children}
}

func (n *Node) Unchecked() bool { return !n.Checked }

// Check sets the checked flag. On a list it propagates unconditionally to
// every descendant; there are no partial states.
func (n *Node) Check(checked bool) {
	n.Checked = checked
	for _, c := range n.Children {
		c.Check(checked)
	}
}

func (n *Node) Uncheck() { n.Check(false) }

func (n *Node) Toggle() { n.Check(!n.Checked) }

// Entry pairs a flattened node with its nesting depth relative to the
// traversal root.
type Entry struct {
	Node  *Node
	Level int
}

// Items returns every descendant of n (excluding n itself) in pre-order.
// The traversal is restartable: repeated calls return the same sequence
// absent mutation.
func (n *Node) Items() []*Node {
	var out []*Node
	for _, e := range n.Entries() {
		out = append(out, e.Node)
	}
	return out
}

// Entries is Items with nesting depth attached.
func (n *Node) Entries() []Entry {
	return n.entries(nil, 0)
}

func (n *Node) entries(acc []Entry, level int) []Entry {
	for _, c := range n.Children {
		acc = append(acc, Entry{Node: c, Level: level})
		if c.Kind == KindList {
			acc = c.entries(acc, level+1)
		}
	}
	return acc
}

// Merge folds other's children into n, matching by name among n's direct
// children. When both sides are lists the merge recurses; when the kinds
// disagree, other's child is dropped (the receiver always wins on a name
// collision). Unmatched children are appended by reference, not copied.
// Returns n for chaining.
func (n *Node) Merge(other *Node) *Node {
	for _, oc := range other.Children {
		ours := n.findChild(oc.Name)
		if ours != nil {
			if ours.Kind == KindList && oc.Kind == KindList {
				ours.Merge(oc)
			}
			continue
		}
		n.Children = append(n.Children, oc)
	}
	return n
}

func (n *Node) findChild(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone returns a deep structural copy (names, kinds, checked flags).
func (n *Node) Clone() *Node {
	out := &Node{Kind: n.Kind, Name: n.Name, Checked: n.Checked}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Clone())
	}
	return out
}

// The snapshot wire shape is {name, checked, items} where leaves omit items.
// Kind round-trips purely through the presence of the items field.

type listJSON struct {
	Name    string  `json:"name"`
	Checked bool    `json:"checked"`
	Items   []*Node `json:"items"`
}

type itemJSON struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Kind == KindList {
		items := n.Children
		if items == nil {
			items = []*Node{}
		}
		return json.Marshal(listJSON{Name: n.Name, Checked: n.Checked, Items: items})
	}
	return json.Marshal(itemJSON{Name: n.Name, Checked: n.Checked})
}

func (n *Node) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name    string   `json:"name"`
		Checked bool     `json:"checked"`
		Items   *[]*Node `json:"items"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	n.Name = strings.TrimSpace(raw.Name)
	n.Checked = raw.Checked
	if raw.Items != nil {
		n.Kind = KindList
		n.Children = *raw.Items
	} else {
		n.Kind = KindItem
		n.Children = nil
	}
	return nil
}

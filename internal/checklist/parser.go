package checklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Occurrence records where an item name appeared during a parse.
type Occurrence struct {
	Node *Node
	Path string
	Line int
}

// Duplicate is one occurrence of a name seen more than once across a single
// fresh parse (including inherited files). Session reloads never produce
// duplicates.
type Duplicate struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// IncludeCycleError reports a from: chain that reaches a file already being
// parsed.
type IncludeCycleError struct {
	Path  string
	Stack []string
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("include cycle: %s (via %s)", e.Path, strings.Join(e.Stack, " -> "))
}

// occurrences accumulates item registrations across an entire parse tree.
// It is threaded explicitly through recursive parses (own sublists and
// from: includes all share one accumulator).
type occurrences struct {
	byName map[string][]Occurrence
	order  []string // first-seen order, for deterministic duplicate output
}

func newOccurrences() *occurrences {
	return &occurrences{byName: map[string][]Occurrence{}}
}

func (o *occurrences) add(n *Node, path string, line int) {
	if _, ok := o.byName[n.Name]; !ok {
		o.order = append(o.order, n.Name)
	}
	o.byName[n.Name] = append(o.byName[n.Name], Occurrence{Node: n, Path: path, Line: line})
}

// remove drops the registration for exactly this node. Used when an item is
// popped to become a sublist wrapper: it is replaced, not duplicated.
func (o *occurrences) remove(n *Node) {
	occs := o.byName[n.Name]
	kept := occs[:0]
	for _, oc := range occs {
		if oc.Node != n {
			kept = append(kept, oc)
		}
	}
	o.byName[n.Name] = kept
}

func (o *occurrences) duplicates() []Duplicate {
	var dups []Duplicate
	for _, name := range o.order {
		occs := o.byName[name]
		if len(occs) < 2 {
			continue
		}
		for _, oc := range occs {
			dups = append(dups, Duplicate{Name: name, Path: oc.Path, Line: oc.Line})
		}
	}
	return dups
}

// cursor walks a file's lines with one-line pushback, which is how a dedent
// hands the current line back to the enclosing scope.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) more() bool { return c.pos < len(c.lines) }

// next returns the current line and its 1-based line number.
func (c *cursor) next() (string, int) {
	line := c.lines[c.pos]
	c.pos++
	return line, c.pos
}

func (c *cursor) pushBack() { c.pos-- }

// Parser parses one .ckl file into a Node tree, resolving from: includes
// against listsRoot and accumulating duplicate records across the whole
// parse tree.
type Parser struct {
	path      string
	name      string
	listsRoot string

	list   *Node
	seen   *occurrences
	active map[string]bool // paths currently being loaded, for cycle detection
}

func NewParser(path, listsRoot string) *Parser {
	return &Parser{
		path:      path,
		name:      listName(path),
		listsRoot: listsRoot,
		seen:      newOccurrences(),
		active:    map[string]bool{},
	}
}

func listName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".ckl")
}

// Load reads and parses the file. The returned tree's name is the file's
// base name without the .ckl suffix.
func (p *Parser) Load() (*Node, error) {
	key := filepath.Clean(p.path)
	if p.active[key] {
		var stack []string
		for k := range p.active {
			stack = append(stack, k)
		}
		return nil, &IncludeCycleError{Path: key, Stack: stack}
	}
	p.active[key] = true
	defer delete(p.active, key)

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, err
	}
	p.list = NewList(p.name, nil, false)
	cur := &cursor{lines: splitLines(string(data))}
	return p.parse(cur, 0)
}

// Duplicates returns the accumulated duplicate records, flattened in
// first-seen order. Only meaningful on the top-level parser.
func (p *Parser) Duplicates() []Duplicate {
	return p.seen.duplicates()
}

// parse consumes lines at the given indentation until a shallower line (which
// is pushed back for the caller) or end of input.
func (p *Parser) parse(cur *cursor, indent int) (*Node, error) {
	var parents []*Node

	for cur.more() {
		line, lineno := cur.next()
		log.Debug("parse line", "file", filepath.Base(p.path), "line", lineno, "text", strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(line, "#"):
			// comment

		case strings.HasPrefix(line, "from:"):
			parentName := strings.TrimSpace(strings.TrimPrefix(line, "from:"))
			sub := &Parser{
				path:      filepath.Join(p.listsRoot, parentName) + ".ckl",
				name:      parentName,
				listsRoot: p.listsRoot,
				seen:      p.seen,
				active:    p.active,
			}
			parent, err := sub.Load()
			if err != nil {
				return nil, err
			}
			// The include immediately absorbs the tree-so-far: already-parsed
			// siblings merge onto the parent, and the parent's remaining items
			// carry over.
			parents = append(parents, parent.Merge(p.list))

		case strings.TrimSpace(line) == "":
			// Blank and whitespace-only lines produce no node and leave the
			// indentation bookkeeping untouched.

		default:
			newIndent := len(line) - len(strings.TrimLeft(line, " "))
			switch {
			case newIndent == indent:
				p.addItem(NewItem(line, false), lineno)
			case newIndent > indent:
				if len(p.list.Children) == 0 {
					// Over-indented line with no sibling to wrap; keep it at
					// this level rather than failing the whole parse.
					p.addItem(NewItem(line, false), lineno)
					continue
				}
				// Deeper line: the previously appended item becomes the
				// wrapper list for a nested scope.
				cur.pushBack()
				head := p.popItem()
				sub := &Parser{
					path:      p.path,
					name:      head.Name,
					listsRoot: p.listsRoot,
					seen:      p.seen,
					active:    p.active,
					list:      NewList(head.Name, nil, false),
				}
				sublist, err := sub.parse(cur, newIndent)
				if err != nil {
					return nil, err
				}
				p.list.Children = append(p.list.Children, sublist)
			default:
				// Shallower line ends this scope; the caller re-reads it.
				cur.pushBack()
				return p.finish(parents), nil
			}
		}
	}

	return p.finish(parents), nil
}

// finish resolves accumulated from: parents: all later parents and the
// current tree merge into the first parent in textual order, and the result
// takes this file's own name.
func (p *Parser) finish(parents []*Node) *Node {
	if len(parents) > 0 {
		parents = append(parents, p.list)
		for _, q := range parents[1:] {
			parents[0].Merge(q)
		}
		p.list = parents[0]
		p.list.Name = p.name
	}
	return p.list
}

func (p *Parser) addItem(n *Node, lineno int) {
	p.list.Children = append(p.list.Children, n)
	p.seen.add(n, p.path, lineno)
}

func (p *Parser) popItem() *Node {
	last := len(p.list.Children) - 1
	n := p.list.Children[last]
	p.list.Children = p.list.Children[:last]
	p.seen.remove(n)
	return n
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	// A trailing newline yields a final empty element, not an extra line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

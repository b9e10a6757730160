// Package tree resolves flat family records into a rooted graph of layout
// nodes.
//
// # Arena
//
// All nodes live in one slice, [Tree.Nodes], and refer to each other by
// [Index]. A child is referenced both by its biological parent and, when it
// belongs to a partnership, by the partner node; neither reference owns it.
//
// # Node Variants
//
// [Node] is a tagged union:
//
//   - [KindPerson]: a blood relative. Children lists every child in input
//     order, Spouses lists attached partner nodes in input order (not display
//     order) and Parent points back up the biological line.
//   - [KindSpouse]: a partner displayed next to a person. Children holds the
//     subset of the partner's children the two have together, Partner points
//     at the person.
//
// Coordinates start at the zero point and are written by package layout.
//
// # Building
//
//	t, err := tree.Build(records)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // zero or several roots, unknown references, cycles
//	}
//
// Build validates eagerly and never returns a partially linked tree.
package tree

import (
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/geom"
)

// Index addresses a node in Tree.Nodes.
type Index int

// None is the Index of a missing reference.
const None Index = -1

// Kind discriminates the two node variants.
type Kind uint8

const (
	KindPerson Kind = iota
	KindSpouse
)

func (k Kind) String() string {
	if k == KindSpouse {
		return "spouse"
	}
	return "person"
}

// Positionable is the capability the layout engine needs from a node.
type Positionable interface {
	Position() geom.Point
	SetPosition(geom.Point)
}

// Colorable is the capability a renderer needs to draw a node's box.
type Colorable interface {
	Label() string
	ColorKey() string
}

// Node is one arena entry. Fields that do not apply to a variant keep their
// zero value (None for indices).
type Node struct {
	Kind   Kind
	Record int // Person.ID or Partnership.ID
	Name   string
	Sex    family.Sex

	Children []Index

	// Person only.
	Parent  Index
	Spouses []Index

	// Spouse only.
	Partner Index
	Since   string
	Till    string

	Pos geom.Point
}

var (
	_ Positionable = (*Node)(nil)
	_ Colorable    = (*Node)(nil)
)

// Position returns the node's top-left corner.
func (n *Node) Position() geom.Point { return n.Pos }

// SetPosition stores the node's top-left corner.
func (n *Node) SetPosition(p geom.Point) { n.Pos = p }

// Label returns the display name.
func (n *Node) Label() string { return n.Name }

// ColorKey returns the palette key, "f" or "m".
func (n *Node) ColorKey() string { return string(n.Sex) }

// IsPerson reports whether n is a person node.
func (n *Node) IsPerson() bool { return n.Kind == KindPerson }

// IsSpouse reports whether n is a spouse node.
func (n *Node) IsSpouse() bool { return n.Kind == KindSpouse }

// Ongoing reports whether a spouse node's relationship has no end date.
func (n *Node) Ongoing() bool { return n.Till == "" }

// Tree is the resolved family graph.
type Tree struct {
	Nodes []Node
	Root  Index

	persons map[int]Index
}

// Node returns the node at i. It panics if i is out of range.
func (t *Tree) Node(i Index) *Node { return &t.Nodes[i] }

// Len returns the number of nodes, persons and spouses together.
func (t *Tree) Len() int { return len(t.Nodes) }

// Person returns the index of the person node for a Person.ID.
func (t *Tree) Person(id int) (Index, bool) {
	i, ok := t.persons[id]
	return i, ok
}

// Count returns the number of person and spouse nodes.
func (t *Tree) Count() (persons, spouses int) {
	for i := range t.Nodes {
		if t.Nodes[i].IsPerson() {
			persons++
		} else {
			spouses++
		}
	}
	return persons, spouses
}

// Depth returns the number of generations below and including the root.
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(Index) int
	walk = func(i Index) int {
		d := 0
		for _, c := range t.Nodes[i].Children {
			d = max(d, walk(c))
		}
		return d + 1
	}
	return walk(t.Root)
}

// Walk calls fn for every person reachable from the root in preorder,
// followed by each of its spouses in input order.
func (t *Tree) Walk(fn func(Index, *Node)) {
	if len(t.Nodes) == 0 {
		return
	}
	var walk func(Index)
	walk = func(i Index) {
		n := &t.Nodes[i]
		fn(i, n)
		for _, s := range n.Spouses {
			fn(s, &t.Nodes[s])
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)
}

// ResetPositions moves every node back to the origin.
func (t *Tree) ResetPositions() {
	for i := range t.Nodes {
		t.Nodes[i].Pos = geom.Point{}
	}
}

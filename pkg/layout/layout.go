// Package layout assigns coordinates to every node of a family tree.
//
// # Algorithm
//
// [Run] walks the tree once, in postorder, with a horizontal cursor. A
// subtree is placed left to right starting at the cursor and hands back the
// boundary the next sibling may start at.
//
// For a person, children are partitioned by partner. The partners are
// visited in display order (see [ComparePartners]); each partner's children
// are placed, then the partner box. Just before the last (current) partner
// the person itself is placed, so it is drawn once, next to the current
// partner. Children of no partner come last.
//
// A node with two or more children is centered over the first and last of
// them; with fewer it sits at the cursor. The current partner is pinned one
// box plus SpouseSpacing to the right of the person. y is always
// depth*(BoxHeight+GenerationSpacing).
//
// # Preconditions
//
// The tree must come from tree.Build: acyclic, with partner child lists that
// are subsets of the person's children. The engine does not re-check this.
//
// # Usage
//
//	t, _ := tree.Build(records)
//	layout.Run(t, layout.DefaultConfig())
//	for _, c := range layout.Connectors(t, cfg) {
//	    surface.Path(c.Geometry)
//	}
package layout

import (
	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// Run lays out t in place. Zero fields of cfg take their defaults.
// Running it twice on the same tree yields identical coordinates.
func Run(t *tree.Tree, cfg Config) {
	if len(t.Nodes) == 0 {
		return
	}
	p := &pass{
		t:       t,
		cfg:     cfg.WithDefaults(),
		spouses: make(map[tree.Index][]tree.Index),
		order:   make(map[tree.Index][]tree.Index),
	}
	p.place(t.Root, p.cfg.OriginX, p.cfg.OriginDepth)
}

// pass holds the state of one layout run. The spouse order of each person
// is sorted on first use and reused for the rest of the pass.
type pass struct {
	t       *tree.Tree
	cfg     Config
	spouses map[tree.Index][]tree.Index
	order   map[tree.Index][]tree.Index
}

func (p *pass) sortedSpouses(i tree.Index) []tree.Index {
	if s, ok := p.spouses[i]; ok {
		return s
	}
	s := SortedSpouses(p.t, i)
	p.spouses[i] = s
	return s
}

func (p *pass) isCurrent(spouse tree.Index) bool {
	s := p.sortedSpouses(p.t.Node(spouse).Partner)
	return len(s) > 0 && s[len(s)-1] == spouse
}

// place lays out the subtree of person i starting at cursor x and returns
// the next free x.
func (p *pass) place(i tree.Index, x, depth int) int {
	spouses := p.sortedSpouses(i)
	groups, solo := partition(p.t, i, spouses)

	placed := make([]tree.Index, 0, len(p.t.Node(i).Children))
	self := false

	for k, s := range spouses {
		for _, c := range groups[k] {
			x = p.place(c, x, depth+1)
			placed = append(placed, c)
		}
		if k == len(spouses)-1 {
			x = p.assign(i, placed, x, depth)
			self = true
		}
		x = p.assign(s, p.t.Node(s).Children, x, depth)
	}

	for _, c := range solo {
		x = p.place(c, x, depth+1)
		placed = append(placed, c)
	}
	p.order[i] = placed

	if !self {
		x = p.assign(i, placed, x, depth)
	}
	return x
}

// assign fixes the position of node i whose children kids are already
// placed, and returns the boundary of its subtree.
func (p *pass) assign(i tree.Index, kids []tree.Index, x, depth int) int {
	n := p.t.Node(i)
	pos := geom.Point{X: x, Y: depth * p.cfg.RowHeight()}
	if len(kids) >= 2 {
		first := p.t.Node(kids[0]).Position()
		last := p.t.Node(kids[len(kids)-1]).Position()
		pos.X = geom.FloorDiv(first.X+last.X, 2)
	}
	if n.IsSpouse() && p.isCurrent(i) {
		pos.X = p.t.Node(n.Partner).Position().X + p.cfg.BoxWidth + p.cfg.SpouseSpacing
	}
	n.SetPosition(pos)
	// For a person with spouses this value is discarded: the last spouse's
	// assign sets the cursor. MaxContainerX reports that spouse boundary.
	return p.boundary(pos, kids)
}

// boundary is the default subtree boundary: the node's own right edge, or
// with two or more children the right edge of the rightmost leaf below the
// last child, plus SiblingSpacing.
func (p *pass) boundary(pos geom.Point, kids []tree.Index) int {
	right := pos.X
	if len(kids) >= 2 {
		right = p.t.Node(p.rightmostLeaf(kids[len(kids)-1])).Position().X
	}
	return right + p.cfg.BoxWidth + p.cfg.SiblingSpacing
}

func (p *pass) rightmostLeaf(i tree.Index) tree.Index {
	for {
		kids := p.children(i)
		if len(kids) == 0 {
			return i
		}
		i = kids[len(kids)-1]
	}
}

// children returns the placement order of i; persons below the cursor have
// been placed already, so their order is cached.
func (p *pass) children(i tree.Index) []tree.Index {
	if o, ok := p.order[i]; ok {
		return o
	}
	return ChildOrder(p.t, i)
}

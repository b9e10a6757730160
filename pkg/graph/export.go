package graph

import (
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// FromTree converts a laid-out tree into its serialized form. The tree must
// already carry coordinates from layout.Run with the same cfg.
//
// Width and Height frame the drawing symmetrically: the margin left of and
// above the bounds is repeated on the right and at the bottom.
func FromTree(t *tree.Tree, cfg layout.Config) Layout {
	cfg = cfg.WithDefaults()
	bounds := layout.Bounds(t, cfg)

	l := Layout{
		VizType: VizTypeTree,
		Width:   bounds.Max.X + bounds.Min.X,
		Height:  bounds.Max.Y + bounds.Min.Y,
		Config:  cfg,
		Bounds:  bounds,
		Nodes:   Nodes(t),
	}

	for _, c := range layout.Connectors(t, cfg) {
		l.Connectors = append(l.Connectors, Connector{
			From:     int(c.From),
			Path:     c.Geometry.String(),
			Segments: c.Geometry.Segments,
		})
	}
	return l
}

// Nodes exports every arena entry of t in index order.
func Nodes(t *tree.Tree) []Node {
	nodes := make([]Node, t.Len())
	for i := range t.Nodes {
		nodes[i] = exportNode(t, tree.Index(i))
	}
	return nodes
}

func exportNode(t *tree.Tree, i tree.Index) Node {
	n := t.Node(i)
	out := Node{
		Index: int(i),
		ID:    n.Record,
		Kind:  n.Kind.String(),
		Name:  n.Name,
		Sex:   string(n.Sex),
		X:     n.Pos.X,
		Y:     n.Pos.Y,
	}

	if n.IsSpouse() {
		p := int(n.Partner)
		out.Partner = &p
		out.Since, out.Till = n.Since, n.Till
		if cur, ok := layout.CurrentSpouse(t, n.Partner); ok && cur == i {
			out.Current = true
		}
		return out
	}
	if n.Parent != tree.None {
		p := int(n.Parent)
		out.Parent = &p
	}
	return out
}

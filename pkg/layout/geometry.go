package layout

import (
	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/path"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// MaxContainerX returns the rightmost boundary the subtree of node i
// occupies on a laid-out tree, including SiblingSpacing.
//
// The default is the node's right edge, or for two or more children the
// right edge of the rightmost leaf below its last child. A person whose
// current partner has fewer than two children reports the partner's
// boundary instead, so the partner box counts towards the subtree.
func MaxContainerX(t *tree.Tree, cfg Config, i tree.Index) int {
	cfg = cfg.WithDefaults()
	n := t.Node(i)
	if n.IsPerson() {
		if s, ok := CurrentSpouse(t, i); ok && len(t.Node(s).Children) < 2 {
			return MaxContainerX(t, cfg, s)
		}
	}

	right := n.Position().X
	if kids := ChildOrder(t, i); len(kids) >= 2 {
		leaf := kids[len(kids)-1]
		for {
			next := ChildOrder(t, leaf)
			if len(next) == 0 {
				break
			}
			leaf = next[len(next)-1]
		}
		right = t.Node(leaf).Position().X
	}
	return right + cfg.BoxWidth + cfg.SiblingSpacing
}

// Connector is the line geometry from a person to its children.
type Connector struct {
	From     tree.Index
	Geometry path.Geometry
}

// Connectors returns one connector per person with children, in preorder.
// Spouse nodes get none: the lines to shared children are drawn from the
// person alone.
func Connectors(t *tree.Tree, cfg Config) []Connector {
	cfg = cfg.WithDefaults()
	size := cfg.Size()

	var out []Connector
	t.Walk(func(i tree.Index, n *tree.Node) {
		if !n.IsPerson() || len(n.Children) == 0 {
			return
		}
		kids := ChildOrder(t, i)
		tops := make([]geom.Point, len(kids))
		for k, c := range kids {
			tops[k] = geom.MiddleTop(t.Node(c).Position(), size)
		}
		out = append(out, Connector{
			From:     i,
			Geometry: path.Connect(geom.MiddleBottom(n.Position(), size), tops, cfg.GenerationSpacing),
		})
	})
	return out
}

// Bounds returns the rectangle covering every node box of a laid-out tree.
func Bounds(t *tree.Tree, cfg Config) geom.Rect {
	cfg = cfg.WithDefaults()
	size := cfg.Size()

	var r geom.Rect
	for i := range t.Nodes {
		r = r.Union(geom.BoxAt(t.Nodes[i].Position(), size))
	}
	return r
}

package path

import "github.com/matzehuels/treeprint/pkg/geom"

// Connect synthesizes the connector from a parent to its children.
//
// parentBottom is the midpoint of the parent box's bottom edge, childTops
// the midpoints of the children's top edges in placement order, and
// generationSpacing the vertical gap between the two rows.
//
//   - no children: empty geometry
//   - one child: a vertical line from the child straight up by
//     generationSpacing
//   - two or more: a bus halfway between the rows, entered by an arc from
//     the first child and left by an arc into the last one, with a stub
//     down to every child in between and a stub up to the parent
func Connect(parentBottom geom.Point, childTops []geom.Point, generationSpacing int) Geometry {
	switch len(childTops) {
	case 0:
		return Geometry{}
	case 1:
		return New(childTops[0]).Line(0, -generationSpacing).Geometry()
	}

	half := geom.FloorDiv(generationSpacing, 2)
	first, last := childTops[0], childTops[len(childTops)-1]

	b := New(first).
		Arc(half, -half).
		LineToX(last.X - half).
		ArcTo(last)

	for _, top := range childTops[1 : len(childTops)-1] {
		b.MoveTo(top).Line(0, -half)
	}

	b.MoveTo(parentBottom).Line(0, half)
	return b.Geometry()
}

package sink

import (
	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// Frame describes the drawing area.
type Frame struct {
	Width  int
	Height int
	Bounds geom.Rect // area covered by boxes and connectors
}

// Surface receives drawing primitives in paint order.
type Surface interface {
	Begin(f Frame, st styles.Style)
	Connector(c graph.Connector)
	Box(n *graph.Node, r geom.Rect, cornerRadius int)
	End()
}

// Draw paints a tree layout onto s.
func Draw(l graph.Layout, s Surface, st styles.Style) error {
	if !l.IsTree() {
		return errors.New(errors.ErrCodeInvalidVizType, "cannot draw a %q layout as a tree", l.VizType)
	}
	cfg := l.Config.WithDefaults()
	size := cfg.Size()
	f := frameFor(l)

	s.Begin(f, st)
	for _, c := range l.Connectors {
		s.Connector(c)
	}
	for i := range l.Nodes {
		n := &l.Nodes[i]
		s.Box(n, geom.BoxAt(n.Position(), size), cfg.CornerRadius)
	}
	s.End()
	return nil
}

// frameFor returns the drawing area of l. Without stored bounds it is the
// union of the node boxes.
func frameFor(l graph.Layout) Frame {
	size := l.Config.WithDefaults().Size()
	f := Frame{Width: l.Width, Height: l.Height, Bounds: l.Bounds}
	if !f.Bounds.Empty() {
		return f
	}
	for i, n := range l.Nodes {
		box := geom.BoxAt(n.Position(), size)
		if i == 0 {
			f.Bounds = box
			continue
		}
		f.Bounds = f.Bounds.Union(box)
	}
	return f
}

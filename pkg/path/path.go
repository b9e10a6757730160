// Package path builds connector geometry between a parent box and its
// children.
//
// A [Builder] is a cursor: every operation starts where the previous one
// ended. Relative operations take offsets from the cursor, absolute ones
// take layout coordinates. Named markers remember a point so drawing can
// jump back to it later without closing the current segment.
//
//	b := path.New(geom.Pt(100, 180))
//	b.Arc(10, -10).LineToX(190).ArcTo(geom.Pt(200, 180))
//	d := b.Geometry().String() // "M 100 180 A 10 10 0 0 1 110 170 L 190 170 A 10 10 0 0 1 200 180"
//
// Builders are short-lived: create one per connector, capture its
// [Geometry], and drop it.
package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/treeprint/pkg/geom"
)

// Op is an SVG path command.
type Op string

const (
	OpMove Op = "M"
	OpLine Op = "L"
	OpArc  Op = "A"
)

// Segment is one absolute path command. RX and RY are only used by OpArc.
type Segment struct {
	Op Op         `json:"op" bson:"op"`
	To geom.Point `json:"to" bson:"to"`
	RX int        `json:"rx,omitempty" bson:"rx,omitempty"`
	RY int        `json:"ry,omitempty" bson:"ry,omitempty"`
}

// Geometry is the captured output of a Builder.
type Geometry struct {
	Segments []Segment `json:"segments" bson:"segments"`
}

// Empty reports whether g draws nothing.
func (g Geometry) Empty() bool { return len(g.Segments) == 0 }

// String returns SVG path data. Arcs are drawn with the sweep flag set and
// no rotation.
func (g Geometry) String() string {
	var sb strings.Builder
	for i, s := range g.Segments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(string(s.Op))
		if s.Op == OpArc {
			fmt.Fprintf(&sb, " %d %d 0 0 1", s.RX, s.RY)
		}
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(s.To.X))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(s.To.Y))
	}
	return sb.String()
}

// Bounds returns the rectangle spanned by all segment end points. The
// quarter arcs Connect emits stay inside that rectangle.
func (g Geometry) Bounds() geom.Rect {
	var r geom.Rect
	for i, s := range g.Segments {
		p := geom.Rect{Min: s.To, Max: s.To.Add(geom.Pt(1, 1))}
		if i == 0 {
			r = p
			continue
		}
		r = r.Union(p)
	}
	return r
}

// Builder accumulates segments from a moving cursor.
type Builder struct {
	cur   geom.Point
	segs  []Segment
	marks map[string]geom.Point
	err   error
}

// New returns a builder whose cursor starts at start. The initial move is
// recorded as the first segment.
func New(start geom.Point) *Builder {
	b := &Builder{}
	return b.MoveTo(start)
}

// Cursor returns the current point.
func (b *Builder) Cursor() geom.Point { return b.cur }

// Err returns the first error recorded, e.g. a jump to an unknown marker.
func (b *Builder) Err() error { return b.err }

func (b *Builder) emit(op Op, to geom.Point, rx, ry int) *Builder {
	b.cur = to
	b.segs = append(b.segs, Segment{Op: op, To: to, RX: rx, RY: ry})
	return b
}

// Move starts a new sub-path dx, dy away from the cursor.
func (b *Builder) Move(dx, dy int) *Builder {
	return b.emit(OpMove, b.cur.Add(geom.Pt(dx, dy)), 0, 0)
}

// MoveTo starts a new sub-path at p.
func (b *Builder) MoveTo(p geom.Point) *Builder {
	return b.emit(OpMove, p, 0, 0)
}

// Line draws a straight segment dx, dy away from the cursor.
func (b *Builder) Line(dx, dy int) *Builder {
	return b.emit(OpLine, b.cur.Add(geom.Pt(dx, dy)), 0, 0)
}

// LineTo draws a straight segment to p.
func (b *Builder) LineTo(p geom.Point) *Builder {
	return b.emit(OpLine, p, 0, 0)
}

// LineToX draws a horizontal segment to column x, keeping the cursor's y.
func (b *Builder) LineToX(x int) *Builder {
	return b.emit(OpLine, geom.Pt(x, b.cur.Y), 0, 0)
}

// LineToY draws a vertical segment to row y, keeping the cursor's x.
func (b *Builder) LineToY(y int) *Builder {
	return b.emit(OpLine, geom.Pt(b.cur.X, y), 0, 0)
}

// Arc draws a circular arc to the point dx, dy away from the cursor. The
// radii are |dx| and |dy|.
func (b *Builder) Arc(dx, dy int) *Builder {
	return b.emit(OpArc, b.cur.Add(geom.Pt(dx, dy)), geom.Abs(dx), geom.Abs(dy))
}

// ArcTo draws a circular arc to p with radii equal to the horizontal and
// vertical distance from the cursor.
func (b *Builder) ArcTo(p geom.Point) *Builder {
	d := p.Sub(b.cur)
	return b.emit(OpArc, p, geom.Abs(d.X), geom.Abs(d.Y))
}

// ArcRadius draws an arc to p with explicit radii.
func (b *Builder) ArcRadius(p geom.Point, rx, ry int) *Builder {
	return b.emit(OpArc, p, rx, ry)
}

// Mark remembers the cursor under name, replacing any earlier point.
func (b *Builder) Mark(name string) *Builder {
	if b.marks == nil {
		b.marks = make(map[string]geom.Point)
	}
	b.marks[name] = b.cur
	return b
}

// MoveToMark starts a new sub-path at the point remembered under name.
// An unknown name leaves the cursor alone and records an error.
func (b *Builder) MoveToMark(name string) *Builder {
	p, ok := b.marks[name]
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("path: unknown marker %q", name)
		}
		return b
	}
	return b.MoveTo(p)
}

// Geometry returns a copy of the segments recorded so far.
func (b *Builder) Geometry() Geometry {
	return Geometry{Segments: append([]Segment(nil), b.segs...)}
}

// String returns SVG path data for the segments recorded so far.
func (b *Builder) String() string { return b.Geometry().String() }

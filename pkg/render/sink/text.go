package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/treeprint/pkg/errors"
	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/path"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// Pixels per terminal cell.
const (
	CellWidth  = 5
	CellHeight = 10
)

// MaxTextCells caps the grid RenderText allocates.
const MaxTextCells = 1 << 20

// Line directions leaving a cell.
const (
	dirUp uint8 = 1 << iota
	dirDown
	dirLeft
	dirRight
)

var lineRunes = map[uint8]rune{
	dirUp:                               '│',
	dirDown:                             '│',
	dirUp | dirDown:                     '│',
	dirLeft:                             '─',
	dirRight:                            '─',
	dirLeft | dirRight:                  '─',
	dirDown | dirRight:                  '╭',
	dirDown | dirLeft:                   '╮',
	dirUp | dirRight:                    '╰',
	dirUp | dirLeft:                     '╯',
	dirUp | dirDown | dirRight:          '├',
	dirUp | dirDown | dirLeft:           '┤',
	dirLeft | dirRight | dirDown:        '┬',
	dirLeft | dirRight | dirUp:          '┴',
	dirUp | dirDown | dirLeft | dirRight: '┼',
}

// TextOption configures RenderText.
type TextOption func(*textSurface)

// WithTextStyle selects the palette used for colours.
func WithTextStyle(s styles.Style) TextOption { return func(r *textSurface) { r.style = s } }

// WithColor colours box outlines with the palette's stroke colours.
func WithColor() TextOption { return func(r *textSurface) { r.color = true } }

// WithCellSize sets the pixels covered by one cell. Larger cells zoom out.
// Non-positive values keep the defaults.
func WithCellSize(w, h int) TextOption {
	return func(r *textSurface) {
		if w > 0 {
			r.cellW = w
		}
		if h > 0 {
			r.cellH = h
		}
	}
}

// RenderText draws a tree layout with box-drawing characters. One cell
// covers CellWidth by CellHeight pixels unless WithCellSize says otherwise;
// the grid starts at the top-left
// corner of the drawing bounds.
func RenderText(l graph.Layout, opts ...TextOption) (string, error) {
	r := &textSurface{style: styles.Classic(), cellW: CellWidth, cellH: CellHeight}
	for _, opt := range opts {
		opt(r)
	}
	if l.IsTree() {
		b := frameFor(l).Bounds
		rows, cols := ceilDiv(b.Height(), r.cellH), ceilDiv(b.Width(), r.cellW)
		if rows*cols > MaxTextCells {
			return "", errors.New(errors.ErrCodeInvalidInput,
				"drawing needs %dx%d cells, more than %d", cols, rows, MaxTextCells)
		}
	}
	if err := Draw(l, r, r.style); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

type textCell struct {
	lines uint8
	box   rune
	color string
}

type textSurface struct {
	style  styles.Style
	color  bool
	cellW  int
	cellH  int
	origin geom.Point
	grid   [][]textCell
	out    strings.Builder
}

func (r *textSurface) Begin(f Frame, st styles.Style) {
	r.style = st
	r.origin = f.Bounds.Min
	rows := ceilDiv(f.Bounds.Height(), r.cellH)
	cols := ceilDiv(f.Bounds.Width(), r.cellW)
	r.grid = make([][]textCell, rows)
	for i := range r.grid {
		r.grid[i] = make([]textCell, cols)
	}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func (r *textSurface) cell(p geom.Point) (row, col int) {
	return geom.FloorDiv(p.Y-r.origin.Y, r.cellH), geom.FloorDiv(p.X-r.origin.X, r.cellW)
}

func (r *textSurface) at(row, col int) *textCell {
	if row < 0 || row >= len(r.grid) || col < 0 || col >= len(r.grid[row]) {
		return nil
	}
	return &r.grid[row][col]
}

func (r *textSurface) mark(row, col int, d uint8) {
	if c := r.at(row, col); c != nil {
		c.lines |= d
	}
}

func (r *textSurface) line(a, b geom.Point) {
	ar, ac := r.cell(a)
	br, bc := r.cell(b)
	// Ends beyond the grid are pulled in to one cell outside it, where marks
	// are dropped.
	switch {
	case ar == br && ac != bc:
		if ar < 0 || ar >= len(r.grid) {
			return
		}
		lo, hi := max(min(ac, bc), -1), min(max(ac, bc), len(r.grid[ar]))
		r.mark(ar, lo, dirRight)
		for c := lo + 1; c < hi; c++ {
			r.mark(ar, c, dirLeft|dirRight)
		}
		r.mark(ar, hi, dirLeft)
	case ac == bc && ar != br:
		lo, hi := max(min(ar, br), -1), min(max(ar, br), len(r.grid))
		r.mark(lo, ac, dirDown)
		for row := lo + 1; row < hi; row++ {
			r.mark(row, ac, dirUp|dirDown)
		}
		r.mark(hi, ac, dirUp)
	}
}

// Arcs are quarter circles drawn with the sweep flag set; on the grid they
// become the two legs meeting at the circle's corner.
func arcCorner(a, b geom.Point) geom.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	if (dx > 0) == (dy > 0) {
		return geom.Pt(b.X, a.Y)
	}
	return geom.Pt(a.X, b.Y)
}

func (r *textSurface) Connector(c graph.Connector) {
	var cur geom.Point
	for _, s := range c.Geometry().Segments {
		switch s.Op {
		case path.OpMove:
		case path.OpLine:
			r.line(cur, s.To)
		case path.OpArc:
			k := arcCorner(cur, s.To)
			r.line(cur, k)
			r.line(k, s.To)
		}
		cur = s.To
	}
}

func (r *textSurface) Box(n *graph.Node, box geom.Rect, _ int) {
	r0, c0 := r.cell(box.Min)
	r1, c1 := r.cell(box.Max)
	r1, c1 = r1-1, c1-1
	if r1 <= r0 || c1 <= c0 {
		return
	}
	color := r.style.Box(n).Stroke

	set := func(row, col int, ch rune) {
		if c := r.at(row, col); c != nil {
			c.box = ch
			c.color = color
		}
	}

	for col := c0; col <= c1; col++ {
		top, bottom := '─', '─'
		if col > c0 && col < c1 {
			if above := r.at(r0-1, col); above != nil && above.lines&dirDown != 0 {
				top = '┴'
			}
			if below := r.at(r1+1, col); below != nil && below.lines&(dirUp|dirDown) != 0 {
				bottom = '┬'
			}
		}
		set(r0, col, top)
		set(r1, col, bottom)
	}
	for row := r0 + 1; row < r1; row++ {
		set(row, c0, '│')
		set(row, c1, '│')
		for col := c0 + 1; col < c1; col++ {
			set(row, col, ' ')
		}
	}
	set(r0, c0, '╭')
	set(r0, c1, '╮')
	set(r1, c0, '╰')
	set(r1, c1, '╯')

	label := []rune(n.Label())
	inner := c1 - c0 - 1
	if len(label) > inner {
		label = label[:inner]
	}
	mid := (r0 + r1) / 2
	start := c0 + 1 + (inner-len(label))/2
	for i, ch := range label {
		if c := r.at(mid, start+i); c != nil {
			c.box = ch
		}
	}
}

func (r *textSurface) End() {
	for _, row := range r.grid {
		var sb strings.Builder
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if r.color && runColor != "" {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for _, c := range row {
			ch, color := c.box, c.color
			if ch == 0 {
				ch, color = ' ', ""
				if c.lines != 0 {
					ch = lineRunes[c.lines]
				}
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(ch)
		}
		flush()
		r.out.WriteString(strings.TrimRight(sb.String(), " "))
		r.out.WriteByte('\n')
	}
}

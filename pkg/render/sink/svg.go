package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/treeprint/pkg/geom"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/render/styles"
)

// Zoom limits for the pan/zoom script.
const (
	MinZoom = 1
	MaxZoom = 10
)

const panZoomJS = `
    (function() {
      var svg = document.currentScript.closest('svg');
      var vp = svg.getElementById('viewport');
      var s = 1, tx = 0, ty = 0, drag = null;
      function apply() { vp.setAttribute('transform', 'translate(' + tx + ',' + ty + ') scale(' + s + ')'); }
      function local(e) { var p = svg.createSVGPoint(); p.x = e.clientX; p.y = e.clientY; return p.matrixTransform(svg.getScreenCTM().inverse()); }
      svg.addEventListener('wheel', function(e) {
        e.preventDefault();
        var p = local(e);
        var next = Math.min(%d, Math.max(%d, s * (e.deltaY < 0 ? 1.1 : 1 / 1.1)));
        tx = p.x - (p.x - tx) * next / s;
        ty = p.y - (p.y - ty) * next / s;
        s = next;
        apply();
      }, {passive: false});
      svg.addEventListener('mousedown', function(e) { var p = local(e); drag = {x: p.x - tx, y: p.y - ty}; });
      svg.addEventListener('mousemove', function(e) { if (!drag) return; var p = local(e); tx = p.x - drag.x; ty = p.y - drag.y; apply(); });
      window.addEventListener('mouseup', function() { drag = null; });
    })();`

// SVGOption configures RenderSVG.
type SVGOption func(*svgSurface)

// WithStyle selects the palette. The default is styles.Classic.
func WithStyle(s styles.Style) SVGOption { return func(r *svgSurface) { r.style = s } }

// WithPanZoom embeds a script for wheel zoom and drag panning.
func WithPanZoom() SVGOption { return func(r *svgSurface) { r.panZoom = true } }

// RenderSVG draws a tree layout as a standalone SVG document.
func RenderSVG(l graph.Layout, opts ...SVGOption) ([]byte, error) {
	r := &svgSurface{style: styles.Classic()}
	for _, opt := range opts {
		opt(r)
	}
	if err := Draw(l, r, r.style); err != nil {
		return nil, err
	}
	return r.buf.Bytes(), nil
}

type svgSurface struct {
	buf     bytes.Buffer
	style   styles.Style
	panZoom bool
}

func (r *svgSurface) Begin(f Frame, st styles.Style) {
	r.style = st
	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&r.buf, `  <rect class="background" x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		f.Width, f.Height, st.Background)
	r.buf.WriteString(`  <g id="viewport">` + "\n")
}

func (r *svgSurface) Connector(c graph.Connector) {
	d := c.Path
	if d == "" {
		d = c.Geometry().String()
	}
	if d == "" {
		return
	}
	ln := r.style.Line
	fmt.Fprintf(&r.buf, `    <path class="connector" data-from="%d" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s"/>`+"\n",
		c.From, d, ln.Stroke, num(ln.Width), num(ln.Opacity))
}

func (r *svgSurface) Box(n *graph.Node, box geom.Rect, cornerRadius int) {
	c := r.style.Box(n)
	class := n.Kind
	if n.Current {
		class += " current"
	}
	w, h := box.Width(), box.Height()
	fmt.Fprintf(&r.buf, `    <g class="%s" id="node-%d" transform="translate(%d,%d)">`+"\n", class, n.Index, box.Min.X, box.Min.Y)
	fmt.Fprintf(&r.buf, `      <rect width="%d" height="%d" rx="%d" ry="%d" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		w, h, cornerRadius, cornerRadius, c.Fill, c.Stroke, num(r.style.BoxStroke))
	fmt.Fprintf(&r.buf, `      <text x="%d" y="%d" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%d" font-weight="bold" fill="%s">%s</text>`+"\n",
		geom.FloorDiv(w, 2), geom.FloorDiv(h, 2)+2, r.style.FontFamily, r.style.FontSize, r.style.Text, styles.EscapeXML(n.Label()))
	r.buf.WriteString("    </g>\n")
}

func (r *svgSurface) End() {
	r.buf.WriteString("  </g>\n")
	if r.panZoom {
		fmt.Fprintf(&r.buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(panZoomJS, MaxZoom, MinZoom))
	}
	r.buf.WriteString("</svg>\n")
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

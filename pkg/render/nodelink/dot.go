package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/render"
	"github.com/matzehuels/treeprint/pkg/render/styles"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// Engine is the Graphviz layout engine used for family diagrams.
const Engine = "dot"

// Options configures node-link diagram rendering.
type Options struct {
	// Style supplies box colours. The zero value selects styles.Classic.
	Style styles.Style

	// Detailed adds record ids and relationship dates to the labels.
	Detailed bool
}

// ToDOT converts a family tree to Graphviz DOT format. Partners share a rank
// with their person and are joined by a dashed undirected edge; children
// hang below the partner they belong to, or below the person when they have
// no partnership.
func ToDOT(t *tree.Tree, opts Options) string {
	st := opts.Style
	if st.Name == "" {
		st = styles.Classic()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", st.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=%q, fontsize=%d, fontcolor=%q, margin=\"0.2,0.1\"];\n",
		st.FontFamily, st.FontSize, st.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=none];\n", st.Line.Stroke)
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range t.Nodes {
		n := t.Node(tree.Index(i))
		c := st.Box(n)
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q, color=%q];\n", nodeID(tree.Index(i)), fmtLabel(n, opts.Detailed), c.Fill, c.Stroke)
	}

	buf.WriteString("\n")
	t.Walk(func(i tree.Index, n *tree.Node) {
		if !n.IsPerson() {
			return
		}
		shared := make(map[tree.Index]bool)
		for _, s := range layout.SortedSpouses(t, i) {
			fmt.Fprintf(&buf, "  { rank=same; %s; %s; }\n", nodeID(i), nodeID(s))
			fmt.Fprintf(&buf, "  %s -> %s [style=dashed, dir=none];\n", nodeID(i), nodeID(s))
			for _, c := range t.Node(s).Children {
				shared[c] = true
				fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(s), nodeID(c))
			}
		}
		for _, c := range n.Children {
			if !shared[c] {
				fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(i), nodeID(c))
			}
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i tree.Index) string { return "n" + strconv.Itoa(int(i)) }

func fmtLabel(n *tree.Node, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, fmt.Sprintf("id: %d", n.Record)}
	if n.IsSpouse() {
		period := n.Since + " -"
		if n.Till != "" {
			period += " " + n.Till
		}
		parts = append(parts, period)
	}
	return strings.Join(parts, "\n")
}

// Export builds a nodelink layout for t. Node coordinates are left at zero;
// Graphviz positions the boxes when the DOT source is rendered.
func Export(t *tree.Tree, opts Options) graph.Layout {
	nodes := graph.Nodes(t)
	for i := range nodes {
		nodes[i].X, nodes[i].Y = 0, 0
	}
	style := opts.Style.Name
	if style == "" {
		style = styles.NameClassic
	}
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		Style:   style,
		Nodes:   nodes,
		DOT:     ToDOT(t, opts),
		Engine:  Engine,
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

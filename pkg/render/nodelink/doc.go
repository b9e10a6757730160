// Package nodelink renders family trees as traditional node-link diagrams.
//
// # Overview
//
// This package hands layout to Graphviz instead of the tree engine. Persons
// and partners appear as rounded boxes; a dashed edge ties each partner to
// its person on the same rank, and children hang below the partnership they
// came from.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Style: styles.Classic()})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// [Export] wraps the DOT source in a graph.Layout so it can be cached and
// serialized like a tree layout.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink

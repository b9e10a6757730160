// Package render converts drawings of a family tree into output formats.
//
// # Overview
//
// The layout engine produces coordinates and connector geometry; this package
// and its subpackages turn that into pictures:
//
//   - [sink]: draws a graph.Layout onto a Surface (SVG document, terminal grid)
//   - [styles]: colour palettes
//   - [nodelink]: Graphviz DOT export and rendering
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats. PDF conversion uses
// the external rsvg-convert tool (from librsvg). PNG conversion uses
// rsvg-convert when it is installed and otherwise rasterizes in-process with
// oksvg, which draws shapes and paths but no text.
//
//	svg := sink.RenderSVG(layout, sink.WithStyle(styles.Classic()))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/treeprint/pkg/render/sink
// [styles]: github.com/matzehuels/treeprint/pkg/render/styles
// [nodelink]: github.com/matzehuels/treeprint/pkg/render/nodelink
package render

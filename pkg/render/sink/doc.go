// Package sink draws a positioned family tree onto an output surface.
//
// [Draw] walks a tree [graph.Layout] in paint order, connectors first and
// boxes on top, and hands each primitive to a [Surface]. Two surfaces ship:
//
//   - [RenderSVG]: a standalone SVG document, optionally with wheel zoom
//     and drag panning
//   - [RenderText]: box-drawing characters for the terminal
//
// Both take their colours from a [styles.Style].
package sink

// Package graph provides the serialization format for laid-out family trees.
//
// This package defines the canonical wire format for treeprint layouts, used
// for JSON files, API responses, caching, and as the input of every renderer.
//
// # Architecture
//
// The package sits at the serialization boundary between the internal arena
// and external formats:
//
//   - [Layout]: Serialization type (this package)
//   - pkg/tree.Tree: Internal node arena with coordinates
//   - pkg/layout: The engine that fills in the coordinates
//
// Use [FromTree] after layout.Run to convert.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeTree       // "tree"
//	graph.VizTypeNodelink   // "nodelink"
//	graph.StyleClassic      // "classic"
//	graph.StyleSimple       // "simple"
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	layout, _ := graph.UnmarshalLayout(data)
//	if layout.IsTree() {
//	    // Use layout.Nodes and layout.Connectors
//	} else {
//	    // Use layout.DOT for Graphviz rendering
//	}
//
// A tree layout looks like:
//
//	{
//	  "viz_type": "tree",
//	  "width": 450,
//	  "height": 280,
//	  "nodes": [
//	    {"index": 0, "id": 1, "kind": "person", "name": "A", "sex": "m", "x": 192, "y": 60}
//	  ],
//	  "connectors": [
//	    {"from": 0, "path": "M 125 120 A 10 10 0 0 1 135 110 ..."}
//	  ]
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

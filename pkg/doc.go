// Package pkg provides the core libraries for treeprint family tree layout.
//
// # Overview
//
// Treeprint turns flat family records (persons with a biological parent,
// partnerships with the children they share) into a compact, deterministic
// drawing: every person is a box, partners sit next to the person they
// married, and rounded connectors run from each parent down to its children.
// The pkg directory is organized into four main areas:
//
//  1. Domain: [family] records, the [tree] arena, the [layout] engine and
//     [path] connector geometry
//  2. Output: [graph] serialization and [render] with its sinks and styles
//  3. Infrastructure: [source] backends, [cache], [config], [observability]
//     and [errors]
//  4. Orchestration: [pipeline] (load → layout → render)
//
// # Architecture
//
// The typical data flow through treeprint:
//
//	JSON/YAML/TOML file, SQLite or MongoDB
//	         ↓
//	    [source] package (read family.Records)
//	         ↓
//	    [tree] package (validate, resolve into an arena)
//	         ↓
//	    [layout] package (positions and connectors)
//	         ↓
//	    [graph] package (serializable Layout)
//	         ↓
//	    [render] package (SVG, PNG, PDF, text, DOT)
//
// # Quick Start
//
// Lay out the sample family and draw it as SVG:
//
//	import (
//	    "github.com/matzehuels/treeprint/pkg/family"
//	    "github.com/matzehuels/treeprint/pkg/graph"
//	    "github.com/matzehuels/treeprint/pkg/layout"
//	    "github.com/matzehuels/treeprint/pkg/render/sink"
//	    "github.com/matzehuels/treeprint/pkg/tree"
//	)
//
//	// 1. Resolve the records
//	t, err := tree.Build(family.Sample())
//
//	// 2. Compute the layout
//	cfg := layout.DefaultConfig()
//	layout.Run(t, cfg)
//
//	// 3. Convert and render
//	l := graph.FromTree(t, cfg)
//	svg, err := sink.RenderSVG(l)
//
// Most callers go through [pipeline] instead, which adds caching, defaults
// and validation shared by the CLI and the HTTP API.
//
// # Main Packages
//
// ## Domain
//
// [family] - Person and Partnership records, struct-tag validation and the
// built-in sample family.
//
// [tree] - Resolves records into an index-based arena of person and spouse
// nodes. Rejects unknown references, multiple roots and parent cycles.
//
// [layout] - The placement engine: one postorder walk with a horizontal
// cursor, partner ordering by relationship dates and connector generation.
//
// [path] - A cursor-style builder for connector geometry (lines and quarter
// arcs) with SVG path output.
//
// [geom] - Integer points and rectangles.
//
// ## Output
//
// [graph] - The serialization format for layouts (JSON and BSON tags).
//
// [render] - SVG to PDF/PNG conversion. Subpackages draw layouts:
//
//   - [render/sink]: SVG documents and terminal box drawing
//   - [render/styles]: Colour palettes (classic, simple)
//   - [render/nodelink]: Graphviz DOT export and rendering
//
// ## Infrastructure
//
// [source] - Record files plus the [source/sqlite] and [source/mongo]
// backends.
//
// [cache] - Content-addressed caching with file, Redis and null backends.
//
// [config] - The TOML configuration file.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [family]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/family
// [tree]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/tree
// [layout]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/layout
// [path]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/path
// [geom]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/geom
// [graph]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/render/sink
// [render/styles]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/render/styles
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/render/nodelink
// [source]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/source
// [source/sqlite]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/source/sqlite
// [source/mongo]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/source/mongo
// [cache]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treeprint/pkg/pipeline
package pkg

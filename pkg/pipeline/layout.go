package pipeline

import (
	"github.com/matzehuels/treeprint/pkg/family"
	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/layout"
	"github.com/matzehuels/treeprint/pkg/render/nodelink"
	"github.com/matzehuels/treeprint/pkg/render/styles"
	"github.com/matzehuels/treeprint/pkg/tree"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout builds the relationship graph from recs and lays it out.
// This is the unified entry point for generating serializable layout data.
func GenerateLayout(recs family.Records, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	t, err := tree.Build(recs)
	if err != nil {
		return graph.Layout{}, err
	}

	if opts.IsNodelink() {
		return generateNodelinkLayout(t, opts)
	}
	return generateTreeLayout(t, opts), nil
}

// generateTreeLayout positions every box with the tree engine. The style is
// applied at render time so one cached layout serves every palette.
func generateTreeLayout(t *tree.Tree, opts Options) graph.Layout {
	layout.Run(t, opts.Layout)
	return graph.FromTree(t, opts.Layout)
}

// generateNodelinkLayout leaves positioning to Graphviz.
func generateNodelinkLayout(t *tree.Tree, opts Options) (graph.Layout, error) {
	st, err := styles.Lookup(opts.Style)
	if err != nil {
		return graph.Layout{}, err
	}
	l := nodelink.Export(t, nodelink.Options{Style: st, Detailed: opts.Detailed})
	l.Config = opts.Layout
	return l, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render visualization from a computed layout",
		Long: `Render visualization from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF, text or DOT. The layout contains all positioning
information, so this step is purely about drawing.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from records to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Refresh = refresh
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, rf.styleSet, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even if cached")
	rf.register(cmd)

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, styleSet bool, output string, stdout io.Writer) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	// The layout decides the visualization type and, unless overridden, the style.
	opts.VizType = l.VizType
	if opts.VizType == "" {
		opts.VizType = graph.VizTypeTree
	}
	if l.Style != "" && !styleSet {
		opts.Style = l.Style
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()
	prog.done("visualized layout", "input", input, "cached", cacheHit)

	return writeArtifacts(artifactWriteParams{
		artifacts:     artifacts,
		formats:       opts.Formats,
		base:          layoutBase(input),
		output:        output,
		stdout:        stdout,
		persons:       countPersons(l),
		relationships: len(l.Nodes) - countPersons(l),
		cacheHit:      cacheHit,
	})
}

// layoutBase strips ".json" and ".layout" from a layout file path.
func layoutBase(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.TrimSuffix(base, ".layout")
}

func countPersons(l graph.Layout) int {
	n := 0
	for i := range l.Nodes {
		if !l.Nodes[i].IsSpouse() {
			n++
		}
	}
	return n
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // used when output is empty
	output    string
	stdout    io.Writer

	persons       int
	relationships int
	cacheHit      bool
}

// writeArtifacts writes one file per format. A single format goes to output
// verbatim; several formats share output (minus any format extension) as
// base name. Writing to stdout only works for a single format.
func writeArtifacts(p artifactWriteParams) error {
	if isStdio(p.output) {
		if len(p.formats) != 1 {
			return fmt.Errorf("stdout output requires exactly one format, got %d", len(p.formats))
		}
		_, err := p.stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	base := p.base
	if p.output != "" {
		base = basePath(p.output, pipeline.Options{})
	}

	var paths []string
	for _, format := range p.formats {
		path := base + "." + format
		if p.output != "" && len(p.formats) == 1 {
			path = p.output
		}
		if err := writeFile(path, p.artifacts[format], p.stdout); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", plural(len(paths), "file", "files"))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.persons, p.relationships, p.cacheHit)
	return nil
}

func writeFile(path string, data []byte, stdout io.Writer) error {
	out, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

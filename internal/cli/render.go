package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// renderCommand creates the render command that runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		src    sourceFlags
		lf     layoutFlags
		rf     renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [records]",
		Short: "Render family records in one step",
		Long: `Render family records in one step.

The render command loads records, computes the layout and draws it, which is
the same as running 'layout' followed by 'visualize'. Output files are named
after the record source unless -o is given.

Examples:
  treeprint render family.yaml
  treeprint render family.json -f svg,png --pan-zoom
  treeprint render --sqlite family.db -f txt -o -
  treeprint render --mongo-uri mongodb://localhost:27017 --family smith -t nodelink`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			src.apply(cmd, args, &opts)
			lf.apply(cmd, &opts)
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple), - for stdout")
	src.register(cmd)
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

// runRender executes the pipeline and writes every requested format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, stdout io.Writer) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering family tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("rendered family tree", "source", opts.SourceName(), "formats", strings.Join(opts.Formats, ","))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts:     result.Artifacts,
		formats:       opts.Formats,
		base:          outputBase(opts),
		output:        output,
		stdout:        stdout,
		persons:       result.Stats.Persons,
		relationships: result.Stats.Spouses,
		cacheHit:      result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

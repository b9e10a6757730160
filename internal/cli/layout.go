package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/pkg/graph"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		src    sourceFlags
		lf     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [records]",
		Short: "Compute a family tree layout",
		Long: `Compute a family tree layout.

The layout command reads family records (a JSON, YAML or TOML file, a SQLite
database or MongoDB) and computes the position of every box and the geometry
of every connector. The output is a layout.json file that can be rendered with
the 'visualize' command.

Supports both tree (-t tree) and nodelink (-t nodelink) visualization types.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			src.apply(cmd, args, &opts)
			lf.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), opts, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.layout.json, - for stdout)")
	src.register(cmd)
	lf.register(cmd)

	return cmd
}

// runLayout loads the records, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, stdout io.Writer) error {
	if err := opts.ValidateForLoad(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	recs, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load %s: %w", opts.SourceName(), err)
	}

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, recs, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done("computed layout", "source", opts.SourceName(), "nodes", len(l.Nodes), "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(opts) + ".layout.json"
	}

	if isStdio(outputPath) {
		data, err := graph.MarshalLayout(l)
		if err != nil {
			return err
		}
		_, err = stdout.Write(append(data, '\n'))
		return err
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(recs.Persons), len(recs.Relationships), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/pipeline"
)

// layoutCommand creates the layout command for computing level layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		directed bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the level layout of a graph",
		Long: `Compute the level layout of a graph.

The layout command takes a graph.json file (produced by 'ingest') or any raw
input and assigns every node a breadth-first level and a position in the
frame. The output is a layout.json file (same format as 'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("directed") {
				opts.Directed = &directed
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)
	addIngestFlags(cmd, &opts, &directed)

	return cmd
}

// addLayoutFlags registers the frame and style flags.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Style, "style", "", "node style: simple (default), block")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "frame height")
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := c.loadOrIngest(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := c.spin(ctx, "Computing layout...")

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath(input) + ".layout.json"
	}
	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	c.out.success("Layout complete")
	c.out.file(outputPath)
	c.out.stats(graphStats{Nodes: g.NodeCount(), Edges: g.EdgeCount(), Levels: len(l.Levels), Cached: cacheHit})
	c.out.detail("widest level holds %d nodes", l.Levels.Widest())
	c.out.nextStep("Explore", appName+" explore "+input)

	return nil
}

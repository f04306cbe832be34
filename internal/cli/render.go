package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/render"
)

// renderCommand creates the render command, which runs the whole pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		directed   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph to SVG, DOT or JSON",
		Long: `Render a graph to SVG, DOT or JSON.

The input is a graph.json file (produced by 'ingest') or any raw input, which
is ingested first. Every requested format is written next to the input, or
next to --output when given:

  svg       built-in level layout        <base>.svg
  graphviz  layout drawn by Graphviz     <base>.gv.svg
  dot       Graphviz source              <base>.dot
  json      the layout itself            <base>.layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("directed") {
				opts.Directed = &directed
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), graphviz, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Format, "normalizer", "", "normalizer for raw input: table, list, tree, auto")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "", "table delimiter (default: auto-detect)")
	cmd.Flags().BoolVar(&directed, "directed", pipeline.DefaultDirected, "treat edges as directed unless a record says otherwise")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	c.applyConfig(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, ingestHit, err := c.loadOrIngest(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := c.spin(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))

	l, layoutHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, g, l, opts)
	if err != nil {
		spinner.fail("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, outputBase(output, input))
	if err != nil {
		return err
	}

	c.out.success("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		c.out.file(p)
	}
	c.out.stats(graphStats{
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Levels: len(l.Levels),
		Cached: ingestHit && layoutHit && renderHit,
	})
	return nil
}

// outputBase derives the base path for rendered files. A known output
// extension on output is stripped so "-o graph.svg" still yields graph.svg.
func outputBase(output, input string) string {
	if output == "" {
		return basePath(input)
	}
	var exts []string
	for _, f := range render.Default().Names() {
		exts = append(exts, render.Extension(f))
	}
	// Longest first, so ".gv.svg" wins over ".svg".
	slices.SortFunc(exts, func(a, b string) int { return len(b) - len(a) })
	for _, ext := range exts {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// writeArtifacts writes each artifact to base plus its format's extension
// and returns the written paths in format order.
func writeArtifacts(artifacts map[string][]byte, base string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + render.Extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/pkg/build"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/source/remote"
)

// ingestCommand creates the ingest command, which turns a raw payload into a
// graph file.
func (c *CLI) ingestCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		directed bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Build an entity graph from a table, list or tree",
		Long: `Build an entity graph from a table, list or tree.

The input format follows the file extension: .csv, .tsv and .txt are tables,
.json, .yaml and .yml are lists or trees. The input may be an http(s) URL.
Use "-" to read JSON or a table from stdin. Override the normalizer with --format (table, list, tree, auto).

The output is a <input>.graph.json file that the layout, render, explore and
export commands accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("directed") {
				opts.Directed = &directed
			}
			return c.runIngest(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>"+graphSuffix+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "rebuild even when the graph is cached")
	addIngestFlags(cmd, &opts, &directed)

	return cmd
}

// addIngestFlags registers the flags shared by every command that ingests.
func addIngestFlags(cmd *cobra.Command, opts *pipeline.Options, directed *bool) {
	cmd.Flags().StringVar(&opts.Format, "format", "", "normalizer: table, list, tree, auto (default: from extension)")
	cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "", "table delimiter (default: auto-detect)")
	cmd.Flags().BoolVar(directed, "directed", pipeline.DefaultDirected, "treat edges as directed unless a record says otherwise")
}

func (c *CLI) runIngest(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	c.applyConfig(&opts)

	src, err := readSource(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	done := timed(c.Logger, "Ingested "+input)
	g, cacheHit, err := runner.IngestWithCacheInfo(ctx, src, opts)
	if err != nil {
		return err
	}
	done("nodes", g.NodeCount(), "edges", g.EdgeCount())

	outputPath := output
	switch {
	case outputPath != "":
	case input == "-":
		outputPath = "stdin" + graphSuffix
	default:
		outputPath = basePath(input) + graphSuffix
	}
	if err := graph.WritePlainFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	c.out.success("Graph built")
	c.out.file(outputPath)
	c.out.stats(graphStats{Nodes: g.NodeCount(), Edges: g.EdgeCount(), Cached: cacheHit})
	c.out.nextStep("Render", appName+" render "+outputPath)
	return nil
}

// readSource reads a payload from a file, an http(s) URL, or stdin for "-".
func readSource(ctx context.Context, input string) (pipeline.Source, error) {
	if remote.IsURL(input) {
		name, data, err := remote.New(nil).Fetch(ctx, input)
		if err != nil {
			return pipeline.Source{}, fmt.Errorf("fetch %s: %w", input, err)
		}
		return pipeline.Source{Name: name, Data: data}, nil
	}
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return pipeline.Source{}, fmt.Errorf("read stdin: %w", err)
		}
		return pipeline.Source{Data: data}, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("read %s: %w", input, err)
	}
	return pipeline.Source{Name: filepath.Base(input), Data: data}, nil
}

// loadGraph reads a graph file written by ingest.
func (c *CLI) loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph %s: %w", path, err)
	}
	p, err := graph.UnmarshalPlain(data)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	return build.Rebuild(p, build.WithLogger(c.Logger))
}

// loadOrIngest loads a graph file, or ingests any other input.
func (c *CLI) loadOrIngest(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*graph.Graph, bool, error) {
	if strings.HasSuffix(input, graphSuffix) {
		g, err := c.loadGraph(input)
		return g, false, err
	}
	src, err := readSource(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return runner.IngestWithCacheInfo(ctx, src, opts)
}

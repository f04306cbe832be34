package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/pkg/export/cypher"
	"github.com/matzehuels/graphloom/pkg/pipeline"
)

// exportCommand creates the export command, which writes a graph to Neo4j
// or Memgraph.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		noCache  bool
		directed bool
		uri      string
		user     string
		password string
		database string
		exporter cypher.Exporter
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a graph to a Neo4j-compatible database",
		Long: `Write a graph to a Neo4j-compatible database.

Nodes are merged on their id under one label and edges become relationships
of one type; attributes become properties. Re-running the export updates the
graph in place. Connection settings default to the [neo4j] config section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("directed") {
				opts.Directed = &directed
			}
			neo := &c.config.Neo4j
			overrides := []struct {
				flag     string
				src, dst *string
			}{
				{"neo4j-uri", &uri, &neo.URI},
				{"neo4j-user", &user, &neo.User},
				{"neo4j-password", &password, &neo.Password},
				{"neo4j-database", &database, &neo.Database},
			}
			for _, o := range overrides {
				if cmd.Flags().Changed(o.flag) {
					*o.dst = *o.src
				}
			}
			return c.runExport(cmd.Context(), args[0], opts, &exporter, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addIngestFlags(cmd, &opts, &directed)
	cmd.Flags().StringVar(&uri, "neo4j-uri", "", "bolt URI (default: from config)")
	cmd.Flags().StringVar(&user, "neo4j-user", "", "username (default: from config)")
	cmd.Flags().StringVar(&password, "neo4j-password", "", "password (default: from config)")
	cmd.Flags().StringVar(&database, "neo4j-database", "", "database (default: server default)")
	cmd.Flags().StringVar(&exporter.Label, "label", cypher.DefaultLabel, "node label")
	cmd.Flags().StringVar(&exporter.RelType, "rel-type", cypher.DefaultRelType, "relationship type")
	cmd.Flags().IntVar(&exporter.BatchSize, "batch-size", cypher.DefaultBatchSize, "rows per statement")
	cmd.Flags().BoolVar(&exporter.Replace, "replace", false, "delete existing nodes with the label first")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input string, opts pipeline.Options, exporter *cypher.Exporter, noCache bool) error {
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

	neo := c.config.Neo4j
	exec, err := cypher.NewDriverExecutor(ctx, neo.URI, neo.User, neo.Password)
	if err != nil {
		return err
	}
	defer exec.Close(context.WithoutCancel(ctx))
	exec.Database = neo.Database

	exporter.Executor = exec
	exporter.Logger = c.Logger
	if exporter.Replace {
		c.out.warning("Replacing every %s node in %s", exporter.Label, neo.URI)
	}

	spinner := c.spin(ctx, "Exporting to "+neo.URI+"...")
	stats, err := exporter.Export(ctx, g)
	if err != nil {
		spinner.fail("Export failed")
		return err
	}
	spinner.stop()

	c.out.success("Exported %d nodes and %d edges", stats.Nodes, stats.Edges)
	c.out.detail("%d statements to %s", stats.Batches, neo.URI)
	return nil
}

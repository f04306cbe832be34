package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/internal/config"
	"github.com/matzehuels/graphloom/internal/server"
	"github.com/matzehuels/graphloom/pkg/observability"
	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/storage"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr           string
		noCache        bool
		storageBackend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph API over HTTP",
		Long: `Serve the graph API over HTTP.

The cache and storage backends come from the config file and the
GRAPHLOOM_* environment variables:

  [cache]    backend = file | redis | none
  [storage]  backend = none | file | mongo

With storage enabled, every ingested graph survives restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.config.Server.Addr = addr
			}
			if cmd.Flags().Changed("storage") {
				c.config.Storage.Backend = storageBackend
				if err := c.config.Validate(); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&storageBackend, "storage", config.BackendNone, "graph storage: none, file, mongo")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	defaults := pipeline.Options{}
	c.applyConfig(&defaults)

	observability.Install(observability.Hooks{HTTP: observability.LogHTTPHooks{Logger: c.Logger}})

	srv := server.New(server.Config{
		Runner:   runner,
		Store:    store,
		Defaults: defaults,
		Logger:   c.Logger,
	})

	c.out.keyValue("Listening", c.config.Server.Addr)
	c.out.keyValue("Cache", c.config.Cache.Backend)
	c.out.keyValue("Storage", c.config.Storage.Backend)
	c.out.println("")
	return srv.ListenAndServe(ctx, c.config.Server.Addr)
}

// newStore opens the configured graph storage, or returns nil for none.
func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	cfg := c.config.Storage
	switch cfg.Backend {
	case config.BackendFile:
		fs, err := storage.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return fs, nil
	case config.BackendMongo:
		ms, err := storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return ms, nil
	}
	return nil, nil
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/pipeline"
)

// exploreCommand creates the explore command, an interactive level browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		noCache  bool
		directed bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse a graph level by level in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("directed") {
				opts.Directed = &directed
			}
			return c.runExplore(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addIngestFlags(cmd, &opts, &directed)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
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

	p := tea.NewProgram(NewLevelModel(g, layout.Levels(g)), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}

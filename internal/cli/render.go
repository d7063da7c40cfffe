package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcisi/pkg/pipeline"
	"github.com/matzehuels/arcisi/pkg/plan"
)

// renderCommand creates the render command for exported plans.
func (c *CLI) renderCommand() *cobra.Command {
	var flags bakeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render artifacts from an exported plan",
		Long: `Render artifacts from an exported plan.

The render command takes a plan.json file (produced by 'bake -f json') and
renders it without laying the building out again, so the rooms keep their
exact positions and identities.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd, &opts)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags bakeFlags) error {
	p, err := plan.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	opts.Seed = p.Seed
	opts.Resolve(nil)

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, p, "", opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, input, flags.output)
	if err != nil || flags.output == stdoutPath {
		return err
	}

	stats := p.Stats()
	printSuccess("Rendered %s", displayName(p.Name, input))
	printStats(pipeline.Stats{Floors: stats.Floors, Rooms: stats.Rooms, Occupants: p.Occupants}, cacheHit)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcisi/pkg/pipeline"
)

// bakeFlags are the render flags shared by bake and render.
type bakeFlags struct {
	formats  string
	output   string
	noCache  bool
	floor    int
	noLabels bool
}

func (f *bakeFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `output base path ("-" for stdout with a single format)`)
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): scad (default), svg, png, pdf, json, dot, graph (comma-separated)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "geometry mode for scad: floorplan, shell (default: recipe's [render] table)")
	cmd.Flags().IntVar(&f.floor, "floor", pipeline.AllFloors, "render a single floor (default: every floor)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show room details in link graphs")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit room labels from floor plans")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG rasterization factor")
}

// apply copies flags that need presence checks into opts.
func (f *bakeFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	formats, err := requestedFormats(f.formats, pipeline.DefaultFormat)
	if err != nil {
		return err
	}
	opts.Formats = formats
	if cmd.Flags().Changed("floor") {
		floor := f.floor
		opts.Floor = &floor
	}
	if f.noLabels {
		labels := false
		opts.Labels = &labels
	}
	if opts.Mode != "" {
		return pipeline.ValidateMode(opts.Mode)
	}
	return nil
}

// bakeCommand creates the bake command.
func (c *CLI) bakeCommand() *cobra.Command {
	var flags bakeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "bake [recipe.toml]",
		Short: "Lay out a building recipe and write its artifacts",
		Long: `Lay out a building recipe and write its artifacts.

The recipe's needs are turned into rooms floor by floor: a lobby anchors each
floor, a hallway grows from it, and every genre places its rooms along the
hallway. Artifacts are written next to the recipe unless -o is given:

  scad   OpenSCAD model (floorplan or shell geometry)
  svg    2D floor plan (png and pdf need rsvg-convert)
  json   exported plan, renderable later with 'arcisi render'
  dot    room link graph source (graph draws it with Graphviz)

Layouts are deterministic for a recipe and seed, and cached locally.`,
		Example: `  arcisi bake office.toml
  arcisi bake office.toml -f scad,svg,json --mode shell
  arcisi bake office.toml -f svg --floor 0 -o lobby.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			opts.RecipePath = args[0]
			return c.runBake(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd, &opts)
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "layout seed")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached plans and artifacts")

	return cmd
}

func (c *CLI) runBake(ctx context.Context, input string, opts pipeline.Options, flags bakeFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	spinner := newSpinner(ctx, fmt.Sprintf("Baking %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Bake failed")
		return err
	}
	spinner.Stop()
	prog.step("baked and rendered")

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, flags.output)
	if err != nil {
		return err
	}
	if flags.output == stdoutPath {
		return nil
	}

	prog.done(fmt.Sprintf("Baked %s", displayName(result.Recipe.Name, input)))
	printStats(result.Stats, result.CacheInfo.BakeHit)
	for _, p := range paths {
		printFile(p)
	}
	printNextStep("Browse the layout", "arcisi inspect "+input)
	return nil
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

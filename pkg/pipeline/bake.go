package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/arcisi/pkg/baker"
	"github.com/matzehuels/arcisi/pkg/observability"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
)

// =============================================================================
// Parse
// =============================================================================

// Parse decodes the recipe in opts.Recipe, or loads opts.RecipePath when no
// bytes were given.
func Parse(opts Options) (*recipe.Recipe, error) {
	if len(opts.Recipe) > 0 {
		return recipe.Parse(opts.Recipe)
	}
	return recipe.Load(opts.RecipePath)
}

// =============================================================================
// Bake
// =============================================================================

// Bake designs the building described by r and exports its plan.
func Bake(ctx context.Context, r *recipe.Recipe, opts Options) (*plan.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.SetBakeDefaults()

	hooks := observability.Bake()
	hooks.OnBakeStart(ctx, r.Name, r.Floors)
	start := time.Now()

	p, err := bake(r, opts)

	rooms := 0
	if p != nil {
		rooms = p.Stats().Rooms
	}
	hooks.OnBakeComplete(ctx, r.Name, rooms, time.Since(start), err)
	return p, err
}

func bake(r *recipe.Recipe, opts Options) (*plan.Plan, error) {
	b := baker.New(r, nil, baker.WithSeed(opts.Seed), baker.WithLogger(opts.Logger))
	if err := b.Design(); err != nil {
		return nil, err
	}
	return b.Plan()
}

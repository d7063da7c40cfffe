package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/observability"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
)

// Cache key types reported to observability hooks.
const (
	keyTypePlan     = "plan"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → bake → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	rec, err := Parse(opts)
	if err != nil {
		return nil, err
	}
	result.Recipe = rec
	result.Stats.ParseTime = time.Since(parseStart)
	opts.Resolve(rec)

	// Stage 2: Bake
	bakeStart := time.Now()
	p, bakeHit, err := r.BakeWithCacheInfo(ctx, rec, opts)
	if err != nil {
		return nil, errors.Annotate(err, "bake %q", rec.Name)
	}
	result.Plan = p
	result.Stats.BakeTime = time.Since(bakeStart)
	result.CacheInfo.BakeHit = bakeHit

	stats := p.Stats()
	result.Stats.Floors = stats.Floors
	result.Stats.Rooms = stats.Rooms
	result.Stats.Occupants = p.Occupants

	r.Logger.Info("baked building",
		"recipe", rec.Name,
		"floors", stats.Floors,
		"rooms", stats.Rooms,
		"cached", bakeHit,
		"duration", result.Stats.BakeTime)

	// Stage 3: Render
	renderStart := time.Now()
	planHash, err := HashPlan(p)
	if err != nil {
		return nil, err
	}
	result.PlanHash = planHash

	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, planHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"mode", opts.Mode,
		"floor", opts.FloorOrAll(),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// HashPlan returns the content hash of p.
func HashPlan(p *plan.Plan) (string, error) {
	data, err := plan.Marshal(p)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize plan for cache key")
	}
	return cache.Hash(data), nil
}

// BakeWithCacheInfo bakes r with caching and returns cache hit info.
// The plan key covers the recipe source and the seed.
func (r *Runner) BakeWithCacheInfo(ctx context.Context, rec *recipe.Recipe, opts Options) (*plan.Plan, bool, error) {
	r.applyLogger(&opts)
	opts.SetBakeDefaults()

	cacheKey := r.Keyer.PlanKey(cache.Hash(rec.Source()), opts.PlanKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if p, err := plan.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypePlan)
				return p, true, nil
			}
			// If deserialization fails, fall through to rebake
		} else if err != nil {
			r.Logger.Warn("plan cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypePlan)
	}

	p, err := Bake(ctx, rec, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := plan.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.PlanTTL); err != nil {
			r.Logger.Warn("plan cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypePlan, len(data))
		}
	}

	return p, false, nil
}

// Bake is a convenience wrapper that calls BakeWithCacheInfo and discards the cache hit info.
func (r *Runner) Bake(ctx context.Context, rec *recipe.Recipe, opts Options) (*plan.Plan, error) {
	p, _, err := r.BakeWithCacheInfo(ctx, rec, opts)
	return p, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// planHash identifies p; pass "" to have it computed.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *plan.Plan, planHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if opts.Mode == "" {
		opts.Mode = DefaultMode
	}
	if planHash == "" {
		h, err := HashPlan(p)
		if err != nil {
			return nil, false, err
		}
		planHash = h
	}

	// Serve what the cache has, render the rest
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, p, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(planHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, p, "", opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Package pipeline provides the bake pipeline shared by the CLI and the
// HTTP API.
//
// This package implements the complete recipe → plan → render pipeline. By
// centralizing it, every entry point applies the same defaults, caching and
// validation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and validate a TOML recipe
//  2. Bake: Process needs, lay out every floor and export a [plan.Plan]
//  3. Render: Generate artifacts (OpenSCAD, SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Recipe:  data,
//	    Formats: []string{"scad", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scad := result.Artifacts["scad"]
//
// Run individual stages:
//
//	// Bake only
//	p, err := runner.Bake(ctx, r, opts)
//
//	// Render an existing plan
//	artifacts, err := runner.Render(ctx, p, opts)
//
// [plan.Plan]: github.com/matzehuels/arcisi/pkg/plan#Plan
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcisi/pkg/baker"
	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
	"github.com/matzehuels/arcisi/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = baker.DefaultSeed

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = render.FormatSCAD

	// DefaultMode is the geometry mode used when neither the options nor
	// the recipe choose one.
	DefaultMode = recipe.ModeFloorplan

	// DefaultPNGScale is the rasterization factor for PNG output.
	DefaultPNGScale = 2.0

	// AllFloors renders every floor.
	AllFloors = baker.AllFloors
)

// ValidModes is the set of supported geometry modes.
var ValidModes = map[string]bool{
	recipe.ModeFloorplan: true,
	recipe.ModeShell:     true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the bake pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Recipe     []byte `json:"-"`
	RecipePath string `json:"recipe_path,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Bake options
	Seed uint64 `json:"seed,omitempty"` // zero selects DefaultSeed

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Mode     string   `json:"mode,omitempty"`  // empty defers to the recipe
	Floor    *int     `json:"floor,omitempty"` // nil defers to the recipe
	Detailed bool     `json:"detailed,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	Labels   *bool    `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Recipe is the parsed recipe.
	Recipe *recipe.Recipe

	// Plan is the baked building.
	Plan *plan.Plan

	// PlanHash is the content hash of the serialized plan.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Floors     int
	Rooms      int
	Occupants  int
	ParseTime  time.Duration
	BakeTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BakeHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(render.Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(render.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a geometry mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: floorplan, shell)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetBakeDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that a recipe was supplied.
func (o *Options) ValidateForParse() error {
	if len(o.Recipe) == 0 && o.RecipePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "recipe is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetBakeDefaults sets default values for baking.
func (o *Options) SetBakeDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering. Mode and floor stay
// unset so the recipe's [render] table can supply them.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetBakeDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Mode != "" {
		if err := ValidateMode(o.Mode); err != nil {
			return err
		}
	}
	if o.Floor != nil && *o.Floor < AllFloors {
		return errors.New(errors.ErrCodeInvalidRequest, "invalid floor %d", *o.Floor)
	}
	return nil
}

// Resolve fills mode and floor from r where the options leave them unset.
func (o *Options) Resolve(r *recipe.Recipe) {
	if o.Mode == "" && r != nil {
		o.Mode = r.Render.What
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Floor == nil && r != nil && r.Render.Floor != nil {
		f := *r.Render.Floor
		o.Floor = &f
	}
}

// FloorOrAll returns the selected floor, or AllFloors.
func (o *Options) FloorOrAll() int {
	if o.Floor == nil {
		return AllFloors
	}
	return *o.Floor
}

// ShowLabels reports whether floor plans label their rooms.
func (o *Options) ShowLabels() bool {
	return o.Labels == nil || *o.Labels
}

// PlanKeyOpts returns cache key options for baking.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{Seed: o.Seed}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Floor: o.FloorOrAll()}
	switch format {
	case render.FormatSCAD:
		opts.Mode = o.Mode
	case render.FormatDOT, render.FormatGraph:
		opts.Detailed = o.Detailed
		opts.Floor = AllFloors
	case render.FormatJSON:
		opts.Floor = AllFloors
	case render.FormatSVG, render.FormatPNG, render.FormatPDF:
		opts.Unlabeled = !o.ShowLabels()
	}
	return opts
}

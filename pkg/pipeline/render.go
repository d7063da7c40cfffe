package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/arcisi/pkg/baker"
	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/observability"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/render"
	"github.com/matzehuels/arcisi/pkg/render/floorplan"
	"github.com/matzehuels/arcisi/pkg/render/linkgraph"
	"github.com/matzehuels/arcisi/pkg/render/scad"
)

// Render generates output artifacts in the requested formats. Mode and
// floor must already be resolved; see [Options.Resolve].
func Render(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.Mode == "" {
		opts.Mode = DefaultMode
	}

	hooks := observability.Bake()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(ctx, p, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(ctx context.Context, p *plan.Plan, opts Options) (map[string][]byte, error) {
	r := &planRenderer{plan: p, opts: opts}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case render.FormatSCAD:
			data, err = r.scad()
		case render.FormatSVG:
			data, err = r.svg()
		case render.FormatPNG:
			if data, err = r.svg(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case render.FormatPDF:
			if data, err = r.svg(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case render.FormatJSON:
			data, err = plan.Marshal(p)
		case render.FormatDOT:
			data = []byte(r.dot())
		case render.FormatGraph:
			data, err = linkgraph.RenderSVG(ctx, r.dot())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Annotate(err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// planRenderer memoizes intermediate outputs shared between formats.
type planRenderer struct {
	plan *plan.Plan
	opts Options

	svgData []byte
	dotSrc  string
}

func (r *planRenderer) scad() ([]byte, error) {
	roots, err := r.plan.Roots()
	if err != nil {
		return nil, err
	}
	solid, err := baker.Render(csg.Tree{}, roots, r.opts.Mode, r.opts.FloorOrAll())
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("%s\nseed %d, %s mode", r.plan.Name, r.plan.Seed, r.opts.Mode)
	return scad.Render(solid, scad.WithHeader(header))
}

func (r *planRenderer) svg() ([]byte, error) {
	if r.svgData != nil {
		return r.svgData, nil
	}
	svgOpts := []floorplan.SVGOption{floorplan.WithFloor(r.opts.FloorOrAll())}
	if !r.opts.ShowLabels() {
		svgOpts = append(svgOpts, floorplan.WithoutLabels())
	}
	data, err := floorplan.RenderSVG(r.plan, svgOpts...)
	if err != nil {
		return nil, err
	}
	r.svgData = data
	return data, nil
}

func (r *planRenderer) dot() string {
	if r.dotSrc == "" {
		r.dotSrc = linkgraph.ToDOT(r.plan, linkgraph.Options{Detailed: r.opts.Detailed})
	}
	return r.dotSrc
}

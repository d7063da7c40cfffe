// Package render turns baked buildings into output artifacts.
//
// # Overview
//
// This package holds the format conversion shared by every renderer and
// the format registry used by the CLI, pipeline and HTTP API. Renderers
// live in subpackages:
//
//   - [scad]: OpenSCAD source of the constructive solid geometry
//   - [floorplan]: 2D SVG floor plans drawn from a [plan.Plan]
//   - [linkgraph]: Graphviz diagrams of the room link graph
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := floorplan.RenderSVG(p, floorplan.WithFloor(0))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [scad]: github.com/matzehuels/arcisi/pkg/render/scad
// [floorplan]: github.com/matzehuels/arcisi/pkg/render/floorplan
// [linkgraph]: github.com/matzehuels/arcisi/pkg/render/linkgraph
// [plan.Plan]: github.com/matzehuels/arcisi/pkg/plan#Plan
package render

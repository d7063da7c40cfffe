// Package floorplan draws baked buildings as 2D SVG floor plans.
//
// Each floor is drawn from above: rooms become filled rectangles in their
// room-type color, doors become openings on the walls they cut and every
// room is labeled with its name. Model X runs right and model Z runs down
// the page, which matches the OpenSCAD output viewed from above.
//
// Render one floor or every floor side by side:
//
//	svg, err := floorplan.RenderSVG(p, floorplan.WithFloor(0))
//	svg, err := floorplan.RenderSVG(p) // all floors
//
// The output converts to PDF and PNG with [render.ToPDF] and [render.ToPNG].
//
// [render.ToPDF]: github.com/matzehuels/arcisi/pkg/render#ToPDF
// [render.ToPNG]: github.com/matzehuels/arcisi/pkg/render#ToPNG
package floorplan

// Package pkg provides the core libraries for arcisi building layouts.
//
// # Overview
//
// arcisi turns a short TOML recipe describing what a building needs (desks,
// offices, meeting rooms) into a floor-by-floor layout of rooms, then renders
// that layout as OpenSCAD geometry, SVG floor plans or room link graphs. The
// pkg directory is organized by pipeline stage:
//
//  1. [recipe] - Parsing and validating building recipes
//  2. [genre] - Room genres that turn needs into rooms
//  3. [space] - Allocators that place rooms around a lobby and hallway
//  4. [baker] - Orchestration of one building from needs to geometry
//  5. [plan] - The serializable result of a bake
//  6. [render] - Output formats (scad, floorplan, linkgraph)
//  7. [pipeline] - Cached recipe → plan → artifacts runs
//
// Supporting packages: [room] and [csg] model rooms and solids, [cache] and
// [store] persist plans and bake records, [observability] carries hooks, and
// [errors] defines coded errors shared by the CLI and HTTP API.
//
// # Architecture
//
//	recipe.toml
//	     ↓
//	[recipe] parse → [baker] process needs, allocate floors, lay out rooms
//	     ↓
//	[plan] export
//	     ↓
//	[render] scad / svg / png / pdf / json / dot / graph
//
// # Quick Start
//
//	r, err := recipe.Load("office.toml")
//	b := baker.New(r, nil, baker.WithSeed(7))
//	if err := b.Design(); err != nil {
//	    return err
//	}
//	p, _ := b.Plan()
//	svg, err := floorplan.RenderSVG(p, floorplan.WithFloor(0))
//
// [recipe]: github.com/matzehuels/arcisi/pkg/recipe
// [genre]: github.com/matzehuels/arcisi/pkg/genre
// [space]: github.com/matzehuels/arcisi/pkg/space
// [baker]: github.com/matzehuels/arcisi/pkg/baker
// [plan]: github.com/matzehuels/arcisi/pkg/plan
// [render]: github.com/matzehuels/arcisi/pkg/render
// [pipeline]: github.com/matzehuels/arcisi/pkg/pipeline
// [room]: github.com/matzehuels/arcisi/pkg/room
// [csg]: github.com/matzehuels/arcisi/pkg/csg
// [cache]: github.com/matzehuels/arcisi/pkg/cache
// [store]: github.com/matzehuels/arcisi/pkg/store
// [observability]: github.com/matzehuels/arcisi/pkg/observability
// [errors]: github.com/matzehuels/arcisi/pkg/errors
package pkg

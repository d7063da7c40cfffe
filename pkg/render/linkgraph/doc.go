// Package linkgraph renders the room link graph of a baked building.
//
// Every room is a node and every parent-to-child link is an edge; each
// floor becomes its own cluster. [ToDOT] produces Graphviz DOT source and
// [RenderSVG] lays it out with Graphviz compiled to WebAssembly, so no
// system Graphviz install is needed.
//
//	dot := linkgraph.ToDOT(p, linkgraph.Options{Detailed: true})
//	svg, err := linkgraph.RenderSVG(ctx, dot)
package linkgraph

// Package csg is the constructive-solid-geometry engine consumed by room
// geometry assembly.
//
// Solids are kept symbolic: a [Node] tree of axis-aligned boxes combined by
// union and difference. Nothing is tessellated here; render sinks such as
// [github.com/matzehuels/arcisi/pkg/render/scad] translate the tree into a
// format an external CSG evaluator understands.
//
//	var b csg.Tree
//	outer := b.Box(csg.Vec3{Y: 160}, csg.Vec3{X: 100, Y: 160, Z: 50})
//	inner := b.Box(csg.Vec3{Y: 170}, csg.Vec3{X: 90, Y: 160, Z: 40})
//	shell := outer.Subtract(inner)
//
// Union is commutative and associative and the difference of disjoint cuts
// is order independent, so callers may combine solids in any order.
package csg

import "math"

// Vec3 is a point or extent in model space. Y is the vertical axis.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Color is an RGB display color with channels in [0, 1].
type Color struct {
	R, G, B float64
}

// Op identifies the kind of a [Node].
type Op int

const (
	OpBox Op = iota
	OpUnion
	OpDifference
)

func (o Op) String() string {
	switch o {
	case OpBox:
		return "box"
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	}
	return "unknown"
}

// Solid is a combinable solid.
type Solid interface {
	// Union returns the solid covering both s and other.
	Union(other Solid) Solid
	// Subtract returns s with other carved out.
	Subtract(other Solid) Solid
	// SetColor tags the solid with a display color.
	SetColor(r, g, b float64)
	// Bounds returns the axis-aligned bounding box of the solid.
	Bounds() AABB
}

// Builder constructs primitive solids.
type Builder interface {
	// Box returns an axis-aligned box centered at center with the given
	// half-extents.
	Box(center, half Vec3) Solid
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Size returns the extent of the box along each axis.
func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

func (b AABB) union(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Tree is the default [Builder]. Its solids are [*Node] values.
type Tree struct{}

// Box implements [Builder].
func (Tree) Box(center, half Vec3) Solid {
	return &Node{Op: OpBox, Center: center, Half: half}
}

// Node is one vertex of a CSG expression tree.
//
// For OpBox, Center and Half describe the box. For OpUnion every child is
// added. For OpDifference the first child is the base and the remaining
// children are cut from it.
type Node struct {
	Op       Op
	Center   Vec3
	Half     Vec3
	Color    *Color
	Children []Solid
}

// Union implements [Solid]. Nested uncolored unions are flattened.
func (n *Node) Union(other Solid) Solid {
	if n.Op == OpUnion && n.Color == nil {
		children := append(append([]Solid(nil), n.Children...), other)
		return &Node{Op: OpUnion, Children: children}
	}
	return &Node{Op: OpUnion, Children: []Solid{n, other}}
}

// Subtract implements [Solid]. Successive cuts on an uncolored difference
// share one node.
func (n *Node) Subtract(other Solid) Solid {
	if n.Op == OpDifference && n.Color == nil {
		children := append(append([]Solid(nil), n.Children...), other)
		return &Node{Op: OpDifference, Children: children}
	}
	return &Node{Op: OpDifference, Children: []Solid{n, other}}
}

// SetColor implements [Solid].
func (n *Node) SetColor(r, g, b float64) {
	n.Color = &Color{R: r, G: g, B: b}
}

// Bounds implements [Solid]. A difference is bounded by its base.
func (n *Node) Bounds() AABB {
	switch n.Op {
	case OpBox:
		return AABB{Min: n.Center.Sub(n.Half), Max: n.Center.Add(n.Half)}
	case OpDifference:
		if len(n.Children) > 0 {
			return n.Children[0].Bounds()
		}
	case OpUnion:
		var out AABB
		for i, c := range n.Children {
			if i == 0 {
				out = c.Bounds()
				continue
			}
			out = out.union(c.Bounds())
		}
		return out
	}
	return AABB{}
}

// Walk visits n and all of its descendants depth-first. Children that are
// not [*Node] values are skipped.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok {
			cn.Walk(fn)
		}
	}
}

// CountBoxes returns the number of box primitives in the tree.
func (n *Node) CountBoxes() int {
	count := 0
	n.Walk(func(x *Node) {
		if x.Op == OpBox {
			count++
		}
	})
	return count
}

var _ Solid = (*Node)(nil)
var _ Builder = Tree{}

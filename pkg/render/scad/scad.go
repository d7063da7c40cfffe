// Package scad writes constructive solid geometry as OpenSCAD source.
//
// Model space is Y-up; OpenSCAD is Z-up. A model point (x, y, z) becomes
// the OpenSCAD point (x, -z, y), so a floor plan viewed from above in
// OpenSCAD matches the SVG floor plan.
//
//	solid, _ := baker.Render(csg.Tree{}, recipe.ModeFloorplan, baker.AllFloors)
//	src, err := scad.Render(solid)
package scad

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	header string
	indent string
}

// WithHeader prefixes the output with a comment block.
func WithHeader(text string) Option {
	return func(r *renderer) { r.header = text }
}

// Render returns OpenSCAD source for s. Only [*csg.Node] trees are
// supported.
func Render(s csg.Solid, opts ...Option) ([]byte, error) {
	r := renderer{indent: "  "}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if r.header != "" {
		for _, line := range strings.Split(strings.TrimRight(r.header, "\n"), "\n") {
			fmt.Fprintf(&buf, "// %s\n", line)
		}
		buf.WriteString("\n")
	}
	if err := r.write(&buf, s, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *renderer) write(buf *bytes.Buffer, s csg.Solid, depth int) error {
	n, ok := s.(*csg.Node)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "cannot render solid of type %T", s)
	}

	pad := strings.Repeat(r.indent, depth)
	if n.Color != nil {
		fmt.Fprintf(buf, "%scolor([%s, %s, %s])\n", pad, num(n.Color.R), num(n.Color.G), num(n.Color.B))
		pad += r.indent
		depth++
	}

	switch n.Op {
	case csg.OpBox:
		lo := n.Center.Sub(n.Half)
		fmt.Fprintf(buf, "%stranslate([%s, %s, %s]) cube([%s, %s, %s]);\n", pad,
			num(lo.X), num(-(n.Center.Z + n.Half.Z)), num(lo.Y),
			num(2*n.Half.X), num(2*n.Half.Z), num(2*n.Half.Y))
		return nil
	case csg.OpUnion, csg.OpDifference:
		fmt.Fprintf(buf, "%s%s() {\n", pad, n.Op)
		for _, c := range n.Children {
			if err := r.write(buf, c, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(buf, "%s}\n", pad)
		return nil
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot render %s node", n.Op)
}

func num(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

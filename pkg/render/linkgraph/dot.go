package linkgraph

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/render"
	"github.com/matzehuels/arcisi/pkg/room"
)

// Options configures link graph rendering.
type Options struct {
	// Detailed adds the room type and size to node labels.
	// When false, only the room name is shown.
	Detailed bool
}

// ToDOT converts p to Graphviz DOT source.
func ToDOT(p *plan.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for _, f := range p.Floors {
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_floor_%d\" {\n", f.Num)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("Floor %d", f.Num))
		buf.WriteString("    style=dashed;\n")
		for _, r := range f.Rooms {
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(f.Num, r.ID), strings.Join(fmtAttrs(r, opts.Detailed), ", "))
		}
		for _, r := range f.Rooms {
			if r.Parent == "" {
				continue
			}
			fmt.Fprintf(&buf, "    %q -> %q;\n", nodeID(f.Num, r.Parent), nodeID(f.Num, r.ID))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(floor int, id string) string {
	return fmt.Sprintf("f%d/%s", floor, id)
}

func fmtLabel(r plan.Room, detailed bool) string {
	name := r.Name
	if name == "" {
		name = r.Type
	}
	if name == "" {
		name = r.ID
	}
	if !detailed {
		return name
	}
	w := math.Abs(r.X2 - r.X1)
	d := math.Abs(r.Z2 - r.Z1)
	return fmt.Sprintf("%s\ntype: %s\n%gx%g cm\ndoors: %d", name, r.Type, w, d, len(r.Doors))
}

func fmtAttrs(r plan.Room, detailed bool) []string {
	c := room.ColorOf(room.Type(r.Type))
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(r, detailed)),
		fmt.Sprintf("fillcolor=%q", fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))),
	}
	if room.Type(r.Type) == room.TypeHallway {
		attrs = append(attrs, "shape=ellipse")
	}
	return attrs
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with a plain
// viewBox so the drawing scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

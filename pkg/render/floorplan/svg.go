package floorplan

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/room"
)

// AllFloors draws every floor side by side.
const AllFloors = -1

// Drawing defaults, in pixels unless noted.
const (
	DefaultScale = 0.5 // pixels per centimeter
	margin       = 20.0
	floorGap     = 40.0
	titleHeight  = 28.0
)

const planCSS = `
    .room { stroke: #333; stroke-width: 2; }
    .room:hover { stroke-width: 4; }
    .door { stroke: #fff; stroke-width: 5; stroke-linecap: butt; }
    .label { font-family: Helvetica, Arial, sans-serif; fill: #222; text-anchor: middle; dominant-baseline: middle; }
    .title { font-family: Helvetica, Arial, sans-serif; font-size: 18px; font-weight: bold; fill: #222; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	floor  int
	scale  float64
	labels bool
}

// WithFloor draws only floor n.
func WithFloor(n int) SVGOption { return func(r *svgRenderer) { r.floor = n } }

// WithScale sets the number of pixels per centimeter.
func WithScale(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithoutLabels omits room names.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws p. A floor selected with [WithFloor] must exist.
func RenderSVG(p *plan.Plan, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{floor: AllFloors, scale: DefaultScale, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	floors := p.Floors
	if r.floor != AllFloors {
		if r.floor < 0 || r.floor >= len(p.Floors) {
			return nil, errors.New(errors.ErrCodeInvalidRequest, "floor %d out of range [0, %d)", r.floor, len(p.Floors))
		}
		floors = p.Floors[r.floor : r.floor+1]
	}
	if len(floors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "plan %q has no floors", p.Name)
	}

	panels := make([]panel, len(floors))
	x := margin
	height := 0.0
	for i, f := range floors {
		b := floorBounds(f)
		panels[i] = panel{floor: f, bounds: b, x: x, y: margin + titleHeight}
		x += (b.maxX-b.minX)*r.scale + floorGap
		height = math.Max(height, (b.maxZ-b.minZ)*r.scale)
	}
	width := x - floorGap + margin
	height += 2*margin + titleHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(p.Name))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", planCSS)
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	for _, pn := range panels {
		r.renderFloor(&buf, pn)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

type bounds struct {
	minX, minZ, maxX, maxZ float64
}

type panel struct {
	floor  plan.Floor
	bounds bounds
	x, y   float64
}

func floorBounds(f plan.Floor) bounds {
	if len(f.Rooms) == 0 {
		return bounds{}
	}
	b := bounds{minX: math.Inf(1), minZ: math.Inf(1), maxX: math.Inf(-1), maxZ: math.Inf(-1)}
	for _, rm := range f.Rooms {
		b.minX = math.Min(b.minX, math.Min(rm.X1, rm.X2))
		b.maxX = math.Max(b.maxX, math.Max(rm.X1, rm.X2))
		b.minZ = math.Min(b.minZ, math.Min(rm.Z1, rm.Z2))
		b.maxZ = math.Max(b.maxZ, math.Max(rm.Z1, rm.Z2))
	}
	return b
}

func (r *svgRenderer) px(pn panel, x, z float64) (float64, float64) {
	return pn.x + (x-pn.bounds.minX)*r.scale, pn.y + (z-pn.bounds.minZ)*r.scale
}

func (r *svgRenderer) renderFloor(buf *bytes.Buffer, pn panel) {
	fmt.Fprintf(buf, `  <g class="floor" id="floor-%d">`+"\n", pn.floor.Num)
	fmt.Fprintf(buf, `    <text class="title" x="%.1f" y="%.1f">Floor %d (%d occupants)</text>`+"\n",
		pn.x, pn.y-titleHeight/2, pn.floor.Num, pn.floor.Occupants)

	for _, rm := range pn.floor.Rooms {
		x1, y1 := r.px(pn, math.Min(rm.X1, rm.X2), math.Min(rm.Z1, rm.Z2))
		x2, y2 := r.px(pn, math.Max(rm.X1, rm.X2), math.Max(rm.Z1, rm.Z2))
		fmt.Fprintf(buf, `    <rect class="room room-%s" id="room-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			escapeXML(rm.Type), escapeXML(rm.ID), x1, y1, x2-x1, y2-y1, hexColor(room.ColorOf(room.Type(rm.Type))))
	}
	for _, rm := range pn.floor.Rooms {
		for _, d := range rm.Doors {
			x1, y1 := r.px(pn, d.X1, d.Z1)
			x2, y2 := r.px(pn, d.X2, d.Z2)
			fmt.Fprintf(buf, `    <line class="door" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2)
		}
	}
	if r.labels {
		for _, rm := range pn.floor.Rooms {
			r.renderLabel(buf, pn, rm)
		}
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, pn panel, rm plan.Room) {
	text := rm.Name
	if text == "" {
		text = rm.Type
	}
	if text == "" {
		return
	}
	cx, cy := r.px(pn, (rm.X1+rm.X2)/2, (rm.Z1+rm.Z2)/2)
	w := math.Abs(rm.X2-rm.X1) * r.scale
	size := math.Max(6, math.Min(14, w/float64(len(text))*1.6))
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		cx, cy, size, escapeXML(text))
}

func hexColor(c csg.Color) string {
	ch := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

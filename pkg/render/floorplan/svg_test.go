package floorplan

import (
	"strings"
	"testing"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/plan"
)

func testPlan() *plan.Plan {
	return &plan.Plan{
		Name: "R&D",
		Seed: 42,
		Floors: []plan.Floor{
			{
				Num:       0,
				Occupants: 12,
				Rooms: []plan.Room{
					{ID: "a", Name: "Lobby", Type: "lobby", X1: -150, Z1: 0, X2: 150, Z2: 310},
					{ID: "b", Parent: "a", Type: "hallway", X1: -100, Z1: -260, X2: 100, Z2: 0,
						Doors: []plan.Door{{X1: -80, Z1: 0, X2: 80, Z2: 0}}},
				},
			},
			{
				Num:       1,
				Occupants: 8,
				Rooms: []plan.Room{
					{ID: "c", Name: "Lobby", Type: "lobby", X1: -150, Z1: 0, X2: 150, Z2: 310},
				},
			},
		},
	}
}

func TestRenderSVGSingleFloor(t *testing.T) {
	svg, err := RenderSVG(testPlan(), WithFloor(1))
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)

	for _, want := range []string{
		`viewBox="0 0 190.0 223.0"`,
		`<title>R&amp;D</title>`,
		`id="floor-1"`,
		`<rect class="room room-lobby" id="room-c" x="20.0" y="48.0" width="150.0" height="155.0" fill="#ff8080"/>`,
		`>Lobby</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(out, `id="floor-0"`) {
		t.Error("SVG should only draw floor 1")
	}
}

func TestRenderSVGAllFloors(t *testing.T) {
	svg, err := RenderSVG(testPlan())
	if err != nil {
		t.Fatal(err)
	}
	out := string(svg)

	if got := strings.Count(out, `<g class="floor"`); got != 2 {
		t.Errorf("floors drawn = %d, want 2", got)
	}
	if got := strings.Count(out, `class="door"`); got != 1 {
		t.Errorf("doors drawn = %d, want 1", got)
	}
	// The hallway has no name, so its type labels it.
	if !strings.Contains(out, `>hallway</text>`) {
		t.Error("unnamed room should be labeled with its type")
	}
}

func TestRenderSVGWithoutLabels(t *testing.T) {
	svg, err := RenderSVG(testPlan(), WithoutLabels(), WithScale(1))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(svg), `class="label"`) {
		t.Error("labels drawn despite WithoutLabels")
	}
}

func TestRenderSVGErrors(t *testing.T) {
	tests := []struct {
		name string
		p    *plan.Plan
		opts []SVGOption
	}{
		{"floor too high", testPlan(), []SVGOption{WithFloor(2)}},
		{"negative floor", testPlan(), []SVGOption{WithFloor(-3)}},
		{"empty plan", &plan.Plan{Name: "empty"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RenderSVG(tt.p, tt.opts...); !errors.Is(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("RenderSVG() error = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

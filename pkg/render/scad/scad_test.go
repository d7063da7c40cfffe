package scad

import (
	"strings"
	"testing"

	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
)

type fakeSolid struct{ csg.Solid }

func TestRenderBox(t *testing.T) {
	var b csg.Tree
	box := b.Box(csg.Vec3{X: 10, Y: 5, Z: 20}, csg.Vec3{X: 10, Y: 5, Z: 20})

	got, err := Render(box)
	if err != nil {
		t.Fatal(err)
	}
	want := "translate([0, -40, 0]) cube([20, 40, 10]);\n"
	if string(got) != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderTree(t *testing.T) {
	var b csg.Tree
	outer := b.Box(csg.Vec3{Y: 160}, csg.Vec3{X: 100, Y: 160, Z: 50})
	inner := b.Box(csg.Vec3{Y: 170}, csg.Vec3{X: 90, Y: 160, Z: 40})
	shell := outer.Subtract(inner)
	shell.SetColor(0.5, 1, 0.25)
	solid := shell.Union(b.Box(csg.Vec3{X: 300}, csg.Vec3{X: 1, Y: 1, Z: 1}))

	got, err := Render(solid, WithHeader("Studio\nseed 42"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(got)

	for _, want := range []string{
		"// Studio\n// seed 42\n\n",
		"union() {\n",
		"  color([0.5, 1, 0.25])\n    difference() {\n",
		"      translate([-100, -50, 0]) cube([200, 100, 320]);\n",
		"      translate([-90, -40, 10]) cube([180, 80, 320]);\n",
		"  translate([299, -1, -1]) cube([2, 2, 2]);\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "{") != strings.Count(out, "}") {
		t.Errorf("unbalanced braces:\n%s", out)
	}
}

func TestRenderUnsupported(t *testing.T) {
	if _, err := Render(fakeSolid{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Render() error = %v, want UNSUPPORTED", err)
	}
}

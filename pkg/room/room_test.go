package room

import (
	"math"
	"testing"

	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Room
		want [4]float64
	}{
		{"already ordered", Room{X1: 0, Z1: 0, X2: 10, Z2: 20}, [4]float64{0, 0, 10, 20}},
		{"x swapped", Room{X1: 10, Z1: 0, X2: -10, Z2: 20}, [4]float64{-10, 0, 10, 20}},
		{"z swapped", Room{X1: 0, Z1: 0, X2: 10, Z2: -300}, [4]float64{0, -300, 10, 0}},
		{"both swapped", Room{X1: 5, Z1: 5, X2: 1, Z2: 2}, [4]float64{1, 2, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.Normalize()
			got := [4]float64{r.X1, r.Z1, r.X2, r.Z2}
			if got != tt.want {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}

			r.Normalize()
			if again := [4]float64{r.X1, r.Z1, r.X2, r.Z2}; again != got {
				t.Errorf("second Normalize() changed room: %v -> %v", got, again)
			}
		})
	}
}

func TestDoorNormalizeSwapsBothAxes(t *testing.T) {
	d := Door{X1: 30, Z1: -100, X2: 10, Z2: -220}
	d.Normalize()

	if d.X1 != 10 || d.X2 != 30 {
		t.Errorf("x axis = [%v, %v], want [10, 30]", d.X1, d.X2)
	}
	if d.Z1 != -220 || d.Z2 != -100 {
		t.Errorf("z axis = [%v, %v], want [-220, -100]", d.Z1, d.Z2)
	}
}

func TestDoorDegenerate(t *testing.T) {
	d := Door{X1: -100, Z1: -70, X2: -100, Z2: -190}
	alongX, alongZ := d.Degenerate()
	if !alongX || alongZ {
		t.Errorf("Degenerate() = %v, %v, want true, false", alongX, alongZ)
	}
	if d.Width() != 120 {
		t.Errorf("Width() = %v, want 120", d.Width())
	}
}

func TestOverlaps(t *testing.T) {
	a := &Room{X1: 0, Z1: 0, X2: 10, Z2: 10}

	tests := []struct {
		name string
		b    *Room
		want bool
	}{
		{"identical", &Room{X1: 0, Z1: 0, X2: 10, Z2: 10}, true},
		{"inside", &Room{X1: 2, Z1: 2, X2: 3, Z2: 3}, true},
		{"shared edge", &Room{X1: 10, Z1: 0, X2: 20, Z2: 10}, false},
		{"shared corner", &Room{X1: 10, Z1: 10, X2: 20, Z2: 20}, false},
		{"disjoint", &Room{X1: 30, Z1: 30, X2: 40, Z2: 40}, false},
		{"unnormalized overlap", &Room{X1: 5, Z1: 15, X2: -5, Z2: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(a); got != tt.want {
				t.Errorf("Overlaps() not symmetric")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (&Room{X1: 0, Z1: 0, X2: 1, Z2: 1}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	r := &Room{X1: math.NaN(), X2: 10, Z2: 10}
	if err := r.Validate(); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Validate(NaN) = %v, want INVALID_GEOMETRY", err)
	}

	r = &Room{X2: 10, Z2: 10, Doors: []Door{{X1: math.Inf(1)}}}
	if err := r.Validate(); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Validate(door Inf) = %v, want INVALID_GEOMETRY", err)
	}
}

func TestValidateDoorShape(t *testing.T) {
	tests := []struct {
		name  string
		door  Door
		valid bool
	}{
		{"flat along x", Door{X1: -100, Z1: -190, X2: -100, Z2: -70}, true},
		{"flat along z", Door{X1: -60, Z1: 0, X2: 60, Z2: 0}, true},
		{"flat along neither", Door{X1: 10, Z1: 10, X2: 200, Z2: 200}, false},
		{"a point", Door{X1: 5, Z1: 5, X2: 5, Z2: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Room{X1: -300, Z1: -300, X2: 300, Z2: 300, Doors: []Door{tt.door}}
			err := r.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, errors.ErrCodeInvalidGeometry) {
				t.Errorf("Validate() = %v, want INVALID_GEOMETRY", err)
			}
			if _, gerr := r.FloorplanGeometry(csg.Tree{}, 0); tt.valid == (gerr != nil) {
				t.Errorf("FloorplanGeometry() error = %v", gerr)
			}
		})
	}
}

func TestWalkAndCount(t *testing.T) {
	root := New(0, 0, 10, 10)
	hall := New(0, 0, 1, 1)
	a, b := New(0, 0, 1, 1), New(0, 0, 1, 1)
	hall.Link(a, b)
	root.Link(hall)

	if got := root.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}

	depths := map[*Room]int{}
	root.Walk(func(r *Room, depth int) bool {
		depths[r] = depth
		return true
	})
	if depths[root] != 0 || depths[hall] != 1 || depths[a] != 2 || depths[b] != 2 {
		t.Errorf("unexpected depths: %v", depths)
	}

	visited := 0
	root.Walk(func(r *Room, depth int) bool {
		visited++
		return depth < 1
	})
	if visited != 2 {
		t.Errorf("pruned walk visited %d rooms, want 2", visited)
	}
}

func TestNewAssignsID(t *testing.T) {
	a, b := New(0, 0, 1, 1), New(0, 0, 1, 1)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("New() should assign unique IDs, got %q and %q", a.ID, b.ID)
	}
}

func TestAreaAndExtents(t *testing.T) {
	r := &Room{X1: 50, Z1: 0, X2: -50, Z2: -200}
	if r.Width() != 100 || r.Depth() != 200 || r.Area() != 20000 {
		t.Errorf("Width/Depth/Area = %v/%v/%v", r.Width(), r.Depth(), r.Area())
	}
}

package room

import "math"

// Door is an opening in a wall: an axis-aligned rectangle that is degenerate
// (zero extent) along exactly one axis.
type Door struct {
	X1, Z1 float64
	X2, Z2 float64
}

// Normalize orders the door's corners so that X1 <= X2 and Z1 <= Z2. Doors
// must be normalized before geometry assembly consumes them.
func (d *Door) Normalize() {
	if d.X1 > d.X2 {
		d.X1, d.X2 = d.X2, d.X1
	}
	if d.Z1 > d.Z2 {
		d.Z1, d.Z2 = d.Z2, d.Z1
	}
}

// Degenerate reports whether the door has zero extent along X and Z.
func (d Door) Degenerate() (alongX, alongZ bool) {
	return d.X1 == d.X2, d.Z1 == d.Z2
}

// Width returns the door's opening width.
func (d Door) Width() float64 {
	return math.Max(math.Abs(d.X2-d.X1), math.Abs(d.Z2-d.Z1))
}

func (d Door) finite() bool {
	for _, v := range [...]float64{d.X1, d.Z1, d.X2, d.Z2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Package room defines the output unit of floor layout: a rectangular room
// footprint with door openings and owned sub-rooms.
//
// Rooms live in a shared 2D floor coordinate system spanned by the X and Z
// axes; the vertical offset of a floor is supplied when geometry is built.
// A Room owns its Linked rooms: the room's full geometry is the union of its
// own walls and the geometry of every linked room, recursively. Coordinates
// are fixed when an allocator creates the room and never change afterwards,
// except for the envelope rooms an allocator grows itself (hallways).
//
// Geometry is only well defined after [Room.Normalize]; both geometry
// builders normalize before reading coordinates.
package room

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/arcisi/pkg/errors"
)

// Type tags a room for display coloring and metadata. It never affects
// geometric behavior.
type Type string

// Known room types.
const (
	TypeLobby            Type = "lobby"
	TypeHallway          Type = "hallway"
	TypeOfficePrivate    Type = "office:private"
	TypeOfficeOpenPlan   Type = "office:openPlan"
	TypeOfficeConference Type = "office:conference"
	TypeBathroom         Type = "bathroom"
	TypeStairs           Type = "stairs"
	TypeElevator         Type = "elevator"
)

// Room is a rectangular footprint with doors and linked sub-rooms.
type Room struct {
	ID   string
	Name string
	Type Type

	X1, Z1 float64
	X2, Z2 float64

	// Linked rooms are owned by this room for combined geometry generation.
	// A room without linked rooms is a geometric leaf.
	Linked []*Room

	// Doors are openings cut through this room's walls.
	Doors []Door
}

// New returns a room spanning the given corners with a fresh ID.
func New(x1, z1, x2, z2 float64) *Room {
	return &Room{
		ID: uuid.NewString(),
		X1: x1, Z1: z1,
		X2: x2, Z2: z2,
	}
}

// Normalize swaps corner coordinates that are out of order so that X1 <= X2
// and Z1 <= Z2. It is idempotent.
func (r *Room) Normalize() {
	if r.X1 > r.X2 {
		r.X1, r.X2 = r.X2, r.X1
	}
	if r.Z1 > r.Z2 {
		r.Z1, r.Z2 = r.Z2, r.Z1
	}
}

// Validate reports an InvalidGeometry error if any coordinate of the room
// or one of its doors is NaN or infinite, or if a door is not degenerate
// along exactly one axis. Such rooms cannot be assembled into geometry.
func (r *Room) Validate() error {
	for _, v := range [...]float64{r.X1, r.Z1, r.X2, r.Z2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidGeometry, "room %s has non-finite coordinate %v", r.label(), v)
		}
	}
	for i, d := range r.Doors {
		if !d.finite() {
			return errors.New(errors.ErrCodeInvalidGeometry, "door %d of room %s has non-finite coordinates", i, r.label())
		}
		if alongX, alongZ := d.Degenerate(); alongX == alongZ {
			return errors.New(errors.ErrCodeInvalidGeometry, "door %d of room %s must be flat along exactly one axis", i, r.label())
		}
	}
	return nil
}

// Width returns the extent along X.
func (r *Room) Width() float64 { return math.Abs(r.X2 - r.X1) }

// Depth returns the extent along Z.
func (r *Room) Depth() float64 { return math.Abs(r.Z2 - r.Z1) }

// Area returns the footprint area.
func (r *Room) Area() float64 { return r.Width() * r.Depth() }

// Overlaps reports whether the interiors of r and o intersect. Rooms that
// only share an edge do not overlap.
func (r *Room) Overlaps(o *Room) bool {
	ax1, ax2 := math.Min(r.X1, r.X2), math.Max(r.X1, r.X2)
	az1, az2 := math.Min(r.Z1, r.Z2), math.Max(r.Z1, r.Z2)
	bx1, bx2 := math.Min(o.X1, o.X2), math.Max(o.X1, o.X2)
	bz1, bz2 := math.Min(o.Z1, o.Z2), math.Max(o.Z1, o.Z2)
	return ax1 < bx2 && bx1 < ax2 && az1 < bz2 && bz1 < az2
}

// Link appends children to the room's linked rooms.
func (r *Room) Link(children ...*Room) {
	r.Linked = append(r.Linked, children...)
}

// AddDoor normalizes d and appends it to the room's doors.
func (r *Room) AddDoor(d Door) {
	d.Normalize()
	r.Doors = append(r.Doors, d)
}

// Walk visits r and every linked room depth-first, passing the nesting
// depth (0 for r). Returning false from fn skips the room's children.
func (r *Room) Walk(fn func(rm *Room, depth int) bool) {
	r.walk(fn, 0)
}

func (r *Room) walk(fn func(*Room, int) bool, depth int) {
	if !fn(r, depth) {
		return
	}
	for _, c := range r.Linked {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of rooms in the tree rooted at r.
func (r *Room) Count() int {
	n := 0
	r.Walk(func(*Room, int) bool { n++; return true })
	return n
}

func (r *Room) label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Type != "":
		return string(r.Type)
	case r.ID != "":
		return r.ID
	}
	return "<unnamed>"
}

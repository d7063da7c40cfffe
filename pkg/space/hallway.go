package space

import (
	"math"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

const (
	// HallwayWidth is the width of a linear hallway.
	HallwayWidth = 200.0

	// LargestAlong and LargestPerp bound a single request on a hallway,
	// along and perpendicular to it.
	LargestAlong = 1500.0
	LargestPerp  = 2000.0
)

// point is a position on the floor plane.
type point struct{ x, z float64 }

func (p point) plus(s float64, dx, dz float64) point {
	return point{p.x + s*dx, p.z + s*dz}
}

// LinearHallway apportions space along both sides of a straight hallway.
//
// The hallway grows along its growth vector g; rooms project away from it
// along the perpendicular vector gp on the left side and along -gp on the
// right side. Each side keeps a running distance that marks where its next
// room starts. The distances only ever increase.
type LinearHallway struct {
	room *room.Room

	gx, gz   float64 // growth
	gpx, gpz float64 // perpendicular, pointing left

	leftEdge  point
	rightEdge point

	leftDist  float64
	rightDist float64

	grown bool
}

// NewLinearHallway returns a hallway that must be positioned with GrowFrom
// before it can allocate.
func NewLinearHallway() *LinearHallway {
	r := room.New(0, 0, 0, 0)
	r.Type = room.TypeHallway
	return &LinearHallway{room: r}
}

// Room returns the hallway's own envelope room. Allocated rooms are linked
// to it.
func (h *LinearHallway) Room() *room.Room { return h.room }

// Distances returns how far each side has been filled.
func (h *LinearHallway) Distances() (left, right float64) {
	return h.leftDist, h.rightDist
}

// GrowFrom positions the hallway. The hallway is centered on (cx, cz) with
// HallwayWidth straddling the perpendicular axis, grows along (gx, gz) and
// treats (gpx, gpz) as its left. A wide doorway connecting the hallway to
// owner is added to owner's doors.
//
// Both vectors must be axis-aligned unit vectors and perpendicular to each
// other. GrowFrom may only be called once.
func (h *LinearHallway) GrowFrom(cx, cz, gx, gz, gpx, gpz float64, owner *room.Room) error {
	if h.grown {
		return errors.New(errors.ErrCodeInvalidRequest, "hallway already positioned")
	}
	if owner == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "hallway needs an owning room")
	}
	if !axisUnit(gx, gz) || !axisUnit(gpx, gpz) || gx*gpx+gz*gpz != 0 {
		return errors.New(errors.ErrCodeInvalidRequest,
			"hallway vectors must be perpendicular axis-aligned unit vectors, got (%v, %v) and (%v, %v)", gx, gz, gpx, gpz)
	}

	h.gx, h.gz = gx, gz
	h.gpx, h.gpz = gpx, gpz

	hhw := HallwayWidth / 2
	center := point{cx, cz}
	h.leftEdge = center.plus(hhw, gpx, gpz)
	h.rightEdge = center.plus(-hhw, gpx, gpz)

	h.room.X1, h.room.Z1 = h.leftEdge.x, h.leftEdge.z
	h.room.X2, h.room.Z2 = h.rightEdge.x, h.rightEdge.z

	dwt := room.WallThickness * 2
	owner.AddDoor(room.Door{
		X1: h.leftEdge.x - gpx*dwt,
		Z1: h.leftEdge.z - gpz*dwt,
		X2: h.rightEdge.x + gpx*dwt,
		Z2: h.rightEdge.z + gpz*dwt,
	})

	h.grown = true
	return nil
}

// LargestAvailableSpace implements [SpaceReporter]. The bound is static: it
// does not shrink as the hallway fills.
func (h *LinearHallway) LargestAvailableSpace() (a, b float64) {
	return LargestAlong, LargestPerp
}

// Allocate places a room on the emptier side of the hallway.
//
// The smaller dimension runs along the hallway so more rooms fit per unit of
// hallway length; the larger one projects away from it. Ties go to the left
// side. Rooms on a side are packed contiguously in allocation order. A door
// is cut into the hallway wall shared with the new room, between the room's
// side walls; rooms too narrow for a full door get a narrower one. A room no
// wider than two walls along the hallway is rejected.
func (h *LinearHallway) Allocate(a, b, doorPos float64) (*room.Room, error) {
	if !h.grown {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "hallway must be positioned with GrowFrom before allocating")
	}
	if err := errors.ValidateDimension("a", a); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("b", b); err != nil {
		return nil, err
	}
	if err := errors.ValidateFraction("door position", doorPos); err != nil {
		return nil, err
	}

	if a > b {
		a, b = b, a
	}
	if a <= 2*room.WallThickness {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"room %v wide along the hallway leaves no wall for a door (need more than %v)", a, 2*room.WallThickness)
	}

	edge, side, dist := h.leftEdge, 1.0, &h.leftDist
	if h.leftDist > h.rightDist {
		edge, side, dist = h.rightEdge, -1.0, &h.rightDist
	}

	near := edge.plus(*dist, h.gx, h.gz)
	far := edge.plus(*dist+a, h.gx, h.gz).plus(side*b, h.gpx, h.gpz)

	r := room.New(near.x, near.z, far.x, far.z)
	r.Normalize()

	lo, hi := doorSpan(*dist, a, doorPos)
	from := edge.plus(lo, h.gx, h.gz)
	to := edge.plus(hi, h.gx, h.gz)
	h.room.AddDoor(room.Door{X1: from.x, Z1: from.z, X2: to.x, Z2: to.z})

	*dist += a

	h.room.Link(r)
	return r, nil
}

// FinishLayout extends the hallway along its growth axis to the longer of
// its two sides. It may be called again after further allocations.
func (h *LinearHallway) FinishLayout() {
	if !h.grown {
		return
	}
	grew := math.Max(h.leftDist, h.rightDist)
	end := h.rightEdge.plus(grew, h.gx, h.gz)

	h.room.X1, h.room.Z1 = h.leftEdge.x, h.leftEdge.z
	h.room.X2, h.room.Z2 = end.x, end.z
}

// doorSpan returns where a door starts and ends along the hallway for a room
// occupying [dist, dist+a]. The door is centered on
// DoorHalfWidth + dist + WallThickness + (a - DoorWidth) * doorPos, then
// narrowed and shifted so it stays between the room's side walls.
func doorSpan(dist, a, doorPos float64) (lo, hi float64) {
	minPos, maxPos := dist+room.WallThickness, dist+a-room.WallThickness
	width := math.Min(room.DoorWidth, maxPos-minPos)

	center := room.DoorHalfWidth + dist + room.WallThickness + (a-room.DoorWidth)*doorPos
	lo = math.Min(math.Max(center-width/2, minPos), maxPos-width)
	return lo, lo + width
}

func axisUnit(x, z float64) bool {
	return (math.Abs(x) == 1 && z == 0) || (x == 0 && math.Abs(z) == 1)
}

var (
	_ Allocator     = (*LinearHallway)(nil)
	_ SpaceReporter = (*LinearHallway)(nil)
)

package room

import (
	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
)

// Building dimensions in centimeters.
const (
	WallThickness     = 10.0
	FloorThickness    = 10.0
	RoomHeight        = 320.0
	RoomHalfHeight    = RoomHeight / 2
	DoorHeight        = 250.0
	DoorHalfHeight    = DoorHeight / 2
	DoorWidth         = 120.0
	DoorHalfWidth     = DoorWidth / 2
	DoorHalfThickness = 15.0
)

// DefaultColor is used for rooms whose type has no entry in [Colors].
var DefaultColor = csg.Color{R: 0.8, G: 0.8, B: 0.8}

// Colors maps room types to display colors.
var Colors = map[Type]csg.Color{
	TypeLobby:            {R: 1.0, G: 0.5, B: 0.5},
	TypeHallway:          {R: 0.8, G: 0.4, B: 0.4},
	TypeBathroom:         {R: 0.5, G: 0.5, B: 0.5},
	TypeOfficePrivate:    {R: 0.5, G: 1.0, B: 0.5},
	TypeOfficeConference: {R: 0.6, G: 1.0, B: 0.6},
	TypeOfficeOpenPlan:   {R: 0.7, G: 1.0, B: 0.7},
	TypeStairs:           {R: 0.5, G: 0.6, B: 1.0},
	TypeElevator:         {R: 0.4, G: 0.5, B: 0.9},
}

// ColorOf returns the display color for t.
func ColorOf(t Type) csg.Color {
	if c, ok := Colors[t]; ok {
		return c
	}
	return DefaultColor
}

// Color returns the display color for the room's type.
func (r *Room) Color() csg.Color { return ColorOf(r.Type) }

// FloorplanGeometry builds the room's walls as a hollow shell standing on a
// floor at height y, unions in the floorplan geometry of every linked room
// and cuts this room's doors out of the result.
//
// The room (and every linked room) is normalized first. A room too small to
// leave interior space after the walls are inset is reported as an
// InvalidGeometry error.
func (r *Room) FloorplanGeometry(b csg.Builder, y float64) (csg.Solid, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Normalize()

	hdx := (r.X2 - r.X1) / 2
	hdz := (r.Z2 - r.Z1) / 2
	if hdx-WallThickness <= 0 || hdz-WallThickness <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"room %s (%gx%g) leaves no interior inside %g walls", r.label(), 2*hdx, 2*hdz, WallThickness)
	}

	walls := b.Box(
		csg.Vec3{X: r.X1 + hdx, Y: y + RoomHalfHeight, Z: r.Z1 + hdz},
		csg.Vec3{X: hdx, Y: RoomHalfHeight, Z: hdz},
	)
	interior := b.Box(
		csg.Vec3{X: r.X1 + hdx, Y: y + RoomHalfHeight + FloorThickness, Z: r.Z1 + hdz},
		csg.Vec3{X: hdx - WallThickness, Y: RoomHalfHeight, Z: hdz - WallThickness},
	)

	c := r.Color()
	walls.SetColor(c.R, c.G, c.B)
	interior.SetColor(c.R, c.G, c.B)

	geom := walls.Subtract(interior)

	for _, linked := range r.Linked {
		other, err := linked.FloorplanGeometry(b, y)
		if err != nil {
			return nil, err
		}
		geom = geom.Union(other)
	}

	for _, d := range r.Doors {
		d.Normalize()
		geom = geom.Subtract(doorGeometry(b, d, y))
	}

	return geom, nil
}

// doorGeometry returns the solid cut for a door. The box is widened by
// DoorHalfThickness along the door's degenerate axis so the cut pierces the
// wall completely.
func doorGeometry(b csg.Builder, d Door, y float64) csg.Solid {
	hdx := (d.X2 - d.X1) / 2
	hdz := (d.Z2 - d.Z1) / 2

	var htx, htz float64
	if hdx == 0 {
		htx = DoorHalfThickness
	}
	if hdz == 0 {
		htz = DoorHalfThickness
	}

	return b.Box(
		csg.Vec3{X: d.X1 + hdx, Y: y + DoorHalfHeight + FloorThickness, Z: d.Z1 + hdz},
		csg.Vec3{X: hdx + htx, Y: DoorHalfHeight, Z: hdz + htz},
	)
}

// ShellGeometry builds the exterior envelope of the room and its linked
// rooms: the union of every room's full box with no hollowing and no door
// cuts.
func (r *Room) ShellGeometry(b csg.Builder, y float64) (csg.Solid, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Normalize()

	hdx := (r.X2 - r.X1) / 2
	hdz := (r.Z2 - r.Z1) / 2

	geom := b.Box(
		csg.Vec3{X: r.X1 + hdx, Y: y + RoomHalfHeight, Z: r.Z1 + hdz},
		csg.Vec3{X: hdx, Y: RoomHalfHeight, Z: hdz},
	)

	for _, linked := range r.Linked {
		other, err := linked.ShellGeometry(b, y)
		if err != nil {
			return nil, err
		}
		geom = geom.Union(other)
	}

	return geom, nil
}

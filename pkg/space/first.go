package space

import (
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

// FirstRoomAllocator places the anchor room of a floor. It accepts exactly
// one allocation.
type FirstRoomAllocator struct {
	// Root is the anchor room, nil until Allocate succeeds.
	Root *room.Room
}

// Allocate places the root room centered on the origin along X, spanning
// [-a/2, a/2], and growing from 0 to b along Z. doorPos is ignored; the
// anchor room gets no door of its own.
func (f *FirstRoomAllocator) Allocate(a, b, doorPos float64) (*room.Room, error) {
	if f.Root != nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "first room already allocated")
	}
	if err := errors.ValidateDimension("a", a); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("b", b); err != nil {
		return nil, err
	}

	f.Root = room.New(-a/2, 0, a/2, b)
	return f.Root, nil
}

// LinkHallway starts h at the origin on the root room's Z=0 edge and links
// the hallway room to the root. The hallway grows toward -Z with "left"
// being -X; the fixed convention keeps layouts reproducible.
func (f *FirstRoomAllocator) LinkHallway(h *LinearHallway) error {
	if f.Root == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "cannot link a hallway before the first room exists")
	}
	if err := h.GrowFrom(0, 0, 0, -1, -1, 0, f.Root); err != nil {
		return err
	}
	f.Root.Link(h.Room())
	return nil
}

var _ Allocator = (*FirstRoomAllocator)(nil)

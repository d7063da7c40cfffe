// Package space is the space-allocation engine: strategy objects that carve
// non-overlapping, connected room rectangles out of a growth region and a
// request façade that translates higher-level size requests into allocator
// calls.
//
// # Allocators
//
// An [Allocator] turns a size request (a, b, door position) into a placed
// [room.Room]. Two strategies exist:
//
//   - [FirstRoomAllocator] anchors a floor: it places the single root room
//     centered on the origin.
//   - [LinearHallway] grows a hallway away from its owner and packs rooms
//     contiguously along both of its sides, cutting a door into the hallway
//     wall for every room.
//
// # Provider
//
// [Provider] wraps the active allocator and offers three request styles:
// explicit sizes, rough sizes derived from an area, and tile regions for
// repeated units such as desks.
//
//	provider := space.NewProvider(rand.New(rand.NewPCG(42, 0)))
//	first := &space.FirstRoomAllocator{}
//	provider.UseForSpace(first)
//	lobby, _ := provider.RequestRoughSize(320, 310, 200000, 0.5, space.WindowsWanted)
//
//	hall := space.NewLinearHallway()
//	_ = first.LinkHallway(hall)
//	provider.UseForSpace(hall)
//	office, _ := provider.RequestExplicitSize(260, 280, 0.5, space.WindowsAny)
//	hall.FinishLayout()
//
// Allocation is single-threaded and deterministic: apart from the injected
// random source used by [Provider.RequestRoughSize], identical request
// sequences produce identical coordinates.
package space

import "github.com/matzehuels/arcisi/pkg/room"

// Allocator places rooms.
//
// a and b are the room's two dimensions; allocators may reorder them.
// doorPos in [0, 1] positions the room's door between flush against the
// near wall (0.0) and centered (0.5).
type Allocator interface {
	Allocate(a, b, doorPos float64) (*room.Room, error)
}

// SpaceReporter is implemented by allocators that can report an upper bound
// on the room size a single request may receive.
type SpaceReporter interface {
	LargestAvailableSpace() (a, b float64)
}

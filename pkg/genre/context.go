package genre

import "github.com/matzehuels/arcisi/pkg/room"

// BuildingContext accumulates building-wide state while needs are processed
// and floors are laid out.
type BuildingContext struct {
	// Occupants is the expected peak occupancy, tallied from genre needs.
	Occupants int

	// Niceness scales how generously amenities are provisioned:
	// 0 is the bare legal minimum, 1 is ordinary, 2 is lavish.
	Niceness float64

	// Floors is the number of floors in the building.
	Floors int

	// Blackboard holds per-genre state keyed by genre name.
	Blackboard map[string]any

	// ActiveGenres lists the genres laid out on every floor, in order.
	ActiveGenres []string
}

// NewBuildingContext returns an empty context for a building.
func NewBuildingContext(floors int, niceness float64) *BuildingContext {
	return &BuildingContext{
		Niceness:   niceness,
		Floors:     floors,
		Blackboard: map[string]any{},
	}
}

// Activate appends name to the active genres unless already present. It
// reports whether the genre was newly activated.
func (c *BuildingContext) Activate(name string) bool {
	if c.IsActive(name) {
		return false
	}
	c.ActiveGenres = append(c.ActiveGenres, name)
	return true
}

// IsActive reports whether name is an active genre.
func (c *BuildingContext) IsActive(name string) bool {
	for _, g := range c.ActiveGenres {
		if g == name {
			return true
		}
	}
	return false
}

// FloorContext is the per-floor state handed to genres.
type FloorContext struct {
	// Num is the zero-based floor index; 0 is the ground floor.
	Num int

	// Occupants is this floor's share of the building's occupants.
	Occupants int

	Blackboard map[string]any

	// Root is the floor's anchor room once the lobby exists.
	Root *room.Room
}

// NewFloorContext returns the context for floor num.
func NewFloorContext(num, occupants int) *FloorContext {
	return &FloorContext{
		Num:        num,
		Occupants:  occupants,
		Blackboard: map[string]any{},
	}
}

// share splits total across floors, giving any remainder to the top floor.
func share(total, floors, num int) int {
	if floors <= 1 {
		return total
	}
	n := total / floors
	if num == floors-1 {
		n += total % floors
	}
	return n
}

package genre

import (
	"math"

	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

const (
	stallWidth    = 92.0 // ambulatory accessible
	stallDepth    = 172.0
	wcaStallWidth = 156.0 // wheelchair accessible
	sinkWidth     = 92.0
	bathAisle     = 122.0

	// Work day minutes over expected stall minutes per person.
	maxOccupantsPerStall = 480.0 / 10.0

	// Stall duty cycle targeted at niceness 1.
	targetStallDutyCycle = 0.8

	// Worst expected gender imbalance as a proportion above an even split.
	maxGenderImbalance = 0.25
)

// Bathroom provisions a pair of lavatories on every floor.
type Bathroom struct{}

func (Bathroom) Name() string { return "bathroom" }

func (Bathroom) Description() string {
	return "lavatories sized by floor occupancy and niceness"
}

func (Bathroom) ProcessNeeds(needs Needs, b *BuildingContext) error {
	return nil
}

// Fixtures returns the stall, sink and wheelchair-accessible stall counts
// for one lavatory serving a floor of occupants.
//
// Each room must cope with the worst expected gender imbalance. Higher
// niceness lowers the duty cycle each stall is expected to run at; at
// niceness 0 only the minimum fixtures are provided.
func Fixtures(occupants int, niceness float64) (stalls, sinks, wca int) {
	sinks, wca = 1, 1

	if niceness <= 0 {
		return stalls, sinks, wca
	}
	occupantsPerStall := maxOccupantsPerStall * targetStallDutyCycle / niceness
	genderOccupants := float64(occupants) * (0.5 + maxGenderImbalance)
	// Rounds up from 0.4.
	boost := int(math.Floor(0.6 + genderOccupants/occupantsPerStall))

	return stalls + boost, sinks + boost, wca
}

// CreateRoomsForFloor returns a narrow, deep lavatory for each gender with
// fixtures arranged along the long wall.
func (Bathroom) CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error) {
	stalls, sinks, wca := Fixtures(f.Occupants, b.Niceness)

	depth := float64(sinks)*sinkWidth + float64(stalls)*stallWidth + float64(wca)*wcaStallWidth
	width := stallDepth + bathAisle

	var rooms []*room.Room
	for _, name := range []string{"Men's Lavatory", "Women's Lavatory"} {
		r, err := p.RequestExplicitSize(depth, width, 0.0, space.WindowsAvoid)
		if err != nil {
			return nil, err
		}
		r.Type = room.TypeBathroom
		r.Name = name
		rooms = append(rooms, r)
	}
	return rooms, nil
}

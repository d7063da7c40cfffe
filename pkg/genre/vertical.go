package genre

import (
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

const (
	flightWidth    = 120.0
	flightGap      = 20.0
	stairRun       = 28.0 * 16 // treads per flight times tread depth
	stairLanding   = 120.0
	carWidth       = 160.0
	carDepth       = 150.0
	shaftClearance = 20.0
	callLobby      = 150.0

	// Peak occupants one elevator car serves at niceness 1.
	occupantsPerCar = 300
)

// StairsNeeds is the recipe section for the stairs genre.
type StairsNeeds struct {
	Stairwells int `toml:"stairwells" json:"stairwells"`
}

// Stairs provides a switchback stairwell on every floor.
type Stairs struct{}

func (Stairs) Name() string { return "stairs" }

func (Stairs) Description() string {
	return "switchback stairwells for multi-floor buildings"
}

func (Stairs) ProcessNeeds(needs Needs, b *BuildingContext) error {
	n := StairsNeeds{Stairwells: 1}
	if err := needs.Decode(&n); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode stairs needs")
	}
	if n.Stairwells < 1 {
		return errors.New(errors.ErrCodeInvalidRecipe, "stairwells must be at least 1, got %d", n.Stairwells)
	}
	b.Blackboard["stairs"] = n
	return nil
}

// CreateRoomsForFloor returns the stairwells for one floor. Two flights and
// their landings fit in each stairwell.
func (Stairs) CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error) {
	n, ok := b.Blackboard["stairs"].(StairsNeeds)
	if !ok {
		n = StairsNeeds{Stairwells: 1}
	}

	a := 2*flightWidth + flightGap
	depth := stairRun + 2*stairLanding

	var rooms []*room.Room
	for i := 0; i < n.Stairwells; i++ {
		r, err := p.RequestExplicitSize(a, depth, 0.0, space.WindowsAny)
		if err != nil {
			return nil, err
		}
		r.Type = room.TypeStairs
		r.Name = "Stairwell"
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// ElevatorNeeds is the recipe section for the elevator genre. Zero cars
// derives the count from occupancy.
type ElevatorNeeds struct {
	Cars int `toml:"cars" json:"cars"`
}

// Elevator provides an elevator bank on every floor.
type Elevator struct{}

func (Elevator) Name() string { return "elevator" }

func (Elevator) Description() string {
	return "elevator banks sized by building occupancy and niceness"
}

func (Elevator) ProcessNeeds(needs Needs, b *BuildingContext) error {
	var n ElevatorNeeds
	if err := needs.Decode(&n); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode elevator needs")
	}
	if n.Cars < 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "elevator cars must not be negative, got %d", n.Cars)
	}
	b.Blackboard["elevator"] = n
	return nil
}

// Cars returns the number of elevator cars for a building.
func Cars(occupants int, niceness float64) int {
	if niceness <= 0 {
		return 1
	}
	return 1 + int(float64(occupants)*niceness)/occupantsPerCar
}

// CreateRoomsForFloor returns one elevator bank with its call lobby.
func (Elevator) CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error) {
	n, _ := b.Blackboard["elevator"].(ElevatorNeeds)
	cars := n.Cars
	if cars == 0 {
		cars = Cars(b.Occupants, b.Niceness)
	}

	a := float64(cars) * (carWidth + shaftClearance)
	depth := carDepth + shaftClearance + callLobby

	r, err := p.RequestExplicitSize(a, depth, 0.5, space.WindowsAvoid)
	if err != nil {
		return nil, err
	}
	r.Type = room.TypeElevator
	r.Name = "Elevator Bank"
	return []*room.Room{r}, nil
}

package genre

import (
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

const (
	couchWidth = 200.0
	couchDepth = 90.0
	couchAisle = 60.0
	tableWidth = 70.0

	baselineCouches   = 2
	occupantsPerCouch = 40
)

// Lobby sizes the hub each floor's hallway radiates from. Its area scales
// with the number of people expected to wait there.
type Lobby struct{}

func (Lobby) Name() string { return "lobby" }

func (Lobby) Description() string {
	return "floor hub sized by seating for waiting occupants"
}

// ProcessNeeds accepts an empty section; lobbies are derived from occupancy.
func (Lobby) ProcessNeeds(needs Needs, b *BuildingContext) error {
	return nil
}

// CreateRoomsForFloor returns the single lobby room. The ground floor lobby
// serves the whole building.
func (Lobby) CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error) {
	occupants := f.Occupants
	if f.Num == 0 {
		occupants = b.Occupants
	}
	couches := baselineCouches + occupants/occupantsPerCouch

	aCouch := couchDepth + couchAisle*2 + tableWidth
	bCouch := couchWidth + couchAisle*2
	area := float64(couches) * aCouch * bCouch

	r, err := p.RequestRoughSize(bCouch, aCouch, area, 0.5, space.WindowsWanted)
	if err != nil {
		return nil, err
	}
	r.Type = room.TypeLobby
	r.Name = "Lobby"
	return []*room.Room{r}, nil
}

package genre

import (
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

const (
	deskLength  = 160.0
	deskWidth   = 80.0
	deskSeating = 60.0
	deskAisle   = 60.0 // one aisle serves desks on both sides
	mainAisle   = 100.0

	mainAisleEveryN = 2

	confPerimAisle = 60.0
	confSegLength  = 60.0
	confSegWidth   = 60.0
	confSeating    = 60.0
)

// OfficeNeeds is the recipe section for the office genre.
type OfficeNeeds struct {
	OpenPlanDesks   int   `toml:"open_plan_desks" json:"open_plan_desks"`
	PrivateOffices  int   `toml:"private_offices" json:"private_offices"`
	ConferenceRooms []int `toml:"conference_rooms" json:"conference_rooms"`
}

// Office lays out open-plan desk areas, private offices and conference
// rooms.
type Office struct{}

func (Office) Name() string { return "office" }

func (Office) Description() string {
	return "open-plan desks, private offices and conference rooms"
}

// ProcessNeeds counts one occupant per desk and per private office.
func (Office) ProcessNeeds(needs Needs, b *BuildingContext) error {
	var n OfficeNeeds
	if err := needs.Decode(&n); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode office needs")
	}
	if n.OpenPlanDesks < 0 || n.PrivateOffices < 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "office counts must not be negative")
	}
	for i, c := range n.ConferenceRooms {
		if c <= 0 {
			return errors.New(errors.ErrCodeInvalidRecipe, "conference room %d needs a positive capacity, got %d", i, c)
		}
	}

	b.Occupants += n.OpenPlanDesks + n.PrivateOffices
	b.Blackboard["office"] = n
	return nil
}

// CreateRoomsForFloor lays out this floor's share of the office needs.
// Desks and private offices are split evenly with the remainder on the top
// floor; conference rooms are dealt out round-robin.
func (Office) CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error) {
	n, ok := b.Blackboard["office"].(OfficeNeeds)
	if !ok {
		return nil, nil
	}
	floors := max(1, b.Floors)

	var rooms []*room.Room

	if desks := share(n.OpenPlanDesks, floors, f.Num); desks > 0 {
		regions, err := p.RequestTileRegions(space.TileRequest{
			Count:        desks,
			PaddingA:     mainAisle,
			PaddingB:     mainAisle,
			SizeA:        deskAisle + deskSeating + deskWidth,
			SizeB:        deskLength,
			ExpandCountB: mainAisleEveryN,
			ExpandSizeB:  mainAisle,
		})
		if err != nil {
			return nil, err
		}
		for _, r := range regions {
			r.Type = room.TypeOfficeOpenPlan
			r.Name = "Open Plan"
		}
		rooms = append(rooms, regions...)
	}

	poA := deskWidth + deskSeating + 2*deskAisle
	poB := deskLength + 2*deskAisle
	for i := 0; i < share(n.PrivateOffices, floors, f.Num); i++ {
		r, err := p.RequestExplicitSize(poA, poB, 0.5, space.WindowsWanted)
		if err != nil {
			return nil, err
		}
		r.Type = room.TypeOfficePrivate
		r.Name = "Private Office"
		rooms = append(rooms, r)
	}

	for i, capacity := range n.ConferenceRooms {
		if i%floors != f.Num {
			continue
		}
		ca := (confPerimAisle + confSegLength + confSeating) * 2
		cb := confPerimAisle*2 + confSegWidth*float64(capacity)/2
		r, err := p.RequestExplicitSize(ca, cb, 0.5, space.WindowsAny)
		if err != nil {
			return nil, err
		}
		r.Type = room.TypeOfficeConference
		r.Name = "Conference Room"
		rooms = append(rooms, r)
	}

	return rooms, nil
}

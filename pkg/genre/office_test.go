package genre

import (
	"testing"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

func TestOfficeProcessNeeds(t *testing.T) {
	b := NewBuildingContext(1, 1)
	b.Occupants = 5

	err := Office{}.ProcessNeeds(tomlNeeds(`
open_plan_desks = 40
private_offices = 4
conference_rooms = [8, 12]
`), b)
	if err != nil {
		t.Fatalf("ProcessNeeds() error = %v", err)
	}
	if b.Occupants != 49 {
		t.Errorf("Occupants = %d, want 49", b.Occupants)
	}
	n, ok := b.Blackboard["office"].(OfficeNeeds)
	if !ok || len(n.ConferenceRooms) != 2 {
		t.Errorf("blackboard = %+v", b.Blackboard["office"])
	}
}

func TestOfficeProcessNeedsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"negative desks", `open_plan_desks = -1`},
		{"empty conference room", `conference_rooms = [8, 0]`},
		{"wrong type", `private_offices = "four"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Office{}.ProcessNeeds(tomlNeeds(tt.src), NewBuildingContext(1, 1))
			if !errors.Is(err, errors.ErrCodeInvalidRecipe) {
				t.Errorf("error = %v, want INVALID_RECIPE", err)
			}
		})
	}
}

func TestOfficeCreateRoomsSingleFloor(t *testing.T) {
	b := NewBuildingContext(1, 1)
	b.Blackboard["office"] = OfficeNeeds{OpenPlanDesks: 10, PrivateOffices: 2, ConferenceRooms: []int{8, 12}}

	rooms, err := Office{}.CreateRoomsForFloor(hallwayProvider(t), NewFloorContext(0, 12), b)
	if err != nil {
		t.Fatalf("CreateRoomsForFloor() error = %v", err)
	}

	wantTypes := []room.Type{
		room.TypeOfficeOpenPlan,
		room.TypeOfficePrivate, room.TypeOfficePrivate,
		room.TypeOfficeConference, room.TypeOfficeConference,
	}
	if len(rooms) != len(wantTypes) {
		t.Fatalf("got %d rooms, want %d", len(rooms), len(wantTypes))
	}
	for i, r := range rooms {
		if r.Type != wantTypes[i] {
			t.Errorf("room %d type = %q, want %q", i, r.Type, wantTypes[i])
		}
	}

	wantDims := [][2]float64{
		{1500, 1940}, // 7 x 9 desks with aisles
		{260, 280},
		{260, 280},
		{360, 360},
		{360, 480},
	}
	for i, r := range rooms {
		if short, long := dims(r); short != wantDims[i][0] || long != wantDims[i][1] {
			t.Errorf("room %d is %v x %v, want %v", i, short, long, wantDims[i])
		}
	}
}

func TestOfficeCreateRoomsSplitsAcrossFloors(t *testing.T) {
	b := NewBuildingContext(2, 1)
	b.Blackboard["office"] = OfficeNeeds{OpenPlanDesks: 100, PrivateOffices: 3, ConferenceRooms: []int{8, 12, 6}}

	count := func(rooms []*room.Room, typ room.Type) int {
		n := 0
		for _, r := range rooms {
			if r.Type == typ {
				n++
			}
		}
		return n
	}

	tests := []struct {
		floor               int
		open, private, conf int
	}{
		{0, 1, 1, 2},
		{1, 1, 2, 1},
	}
	for _, tt := range tests {
		rooms, err := Office{}.CreateRoomsForFloor(hallwayProvider(t), NewFloorContext(tt.floor, 0), b)
		if err != nil {
			t.Fatalf("floor %d: %v", tt.floor, err)
		}
		if got := count(rooms, room.TypeOfficeOpenPlan); got != tt.open {
			t.Errorf("floor %d open plan regions = %d, want %d", tt.floor, got, tt.open)
		}
		if got := count(rooms, room.TypeOfficePrivate); got != tt.private {
			t.Errorf("floor %d private offices = %d, want %d", tt.floor, got, tt.private)
		}
		if got := count(rooms, room.TypeOfficeConference); got != tt.conf {
			t.Errorf("floor %d conference rooms = %d, want %d", tt.floor, got, tt.conf)
		}
	}
}

func TestOfficeWithoutNeeds(t *testing.T) {
	rooms, err := Office{}.CreateRoomsForFloor(hallwayProvider(t), NewFloorContext(0, 0), NewBuildingContext(1, 1))
	if err != nil || len(rooms) != 0 {
		t.Errorf("CreateRoomsForFloor() = %d rooms, %v; want none", len(rooms), err)
	}
}

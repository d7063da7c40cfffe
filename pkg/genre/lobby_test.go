package genre

import (
	"testing"

	"github.com/matzehuels/arcisi/pkg/room"
)

func TestLobbyArea(t *testing.T) {
	tests := []struct {
		name     string
		floor    int
		floorOcc int
		building int
		wantArea float64
	}{
		{"ground floor serves the building", 0, 10, 400, 12 * 280 * 320},
		{"upper floor serves itself", 1, 10, 400, 2 * 280 * 320},
		{"empty building", 0, 0, 0, 2 * 280 * 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuildingContext(2, 1)
			b.Occupants = tt.building
			f := NewFloorContext(tt.floor, tt.floorOcc)

			rooms, err := Lobby{}.CreateRoomsForFloor(hallwayProvider(t), f, b)
			if err != nil {
				t.Fatalf("CreateRoomsForFloor() error = %v", err)
			}
			if len(rooms) != 1 {
				t.Fatalf("got %d rooms, want 1", len(rooms))
			}

			r := rooms[0]
			if r.Type != room.TypeLobby {
				t.Errorf("type = %q", r.Type)
			}
			if r.Area() > tt.wantArea || r.Area() < tt.wantArea*0.99 {
				t.Errorf("area = %v, want just under %v", r.Area(), tt.wantArea)
			}
			if short, long := dims(r); short < 280 || long < 320 {
				t.Errorf("lobby %v x %v is below one couch module", short, long)
			}
		})
	}
}

func TestLobbyIgnoresNeeds(t *testing.T) {
	b := NewBuildingContext(1, 1)
	if err := (Lobby{}).ProcessNeeds(tomlNeeds(`anything = 1`), b); err != nil {
		t.Errorf("ProcessNeeds() error = %v", err)
	}
	if b.Occupants != 0 {
		t.Errorf("lobby should not add occupants")
	}
}

package space

import (
	"math"
	"testing"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

// newFloor returns a 300x300 root room with a hallway growing from it.
func newFloor(t *testing.T) (*FirstRoomAllocator, *LinearHallway) {
	t.Helper()
	first := &FirstRoomAllocator{}
	if _, err := first.Allocate(300, 300, 0.5); err != nil {
		t.Fatalf("first Allocate() error = %v", err)
	}
	hall := NewLinearHallway()
	if err := first.LinkHallway(hall); err != nil {
		t.Fatalf("LinkHallway() error = %v", err)
	}
	return first, hall
}

func mustAllocate(t *testing.T, a Allocator, w, d, p float64) *room.Room {
	t.Helper()
	r, err := a.Allocate(w, d, p)
	if err != nil {
		t.Fatalf("Allocate(%v, %v, %v) error = %v", w, d, p, err)
	}
	return r
}

func bounds(r *room.Room) [4]float64 {
	return [4]float64{r.X1, r.Z1, r.X2, r.Z2}
}

func TestGrowFromPlacesHallwayAndDoorway(t *testing.T) {
	first, hall := newFloor(t)

	h := hall.Room()
	if h.Type != room.TypeHallway {
		t.Errorf("hallway type = %q", h.Type)
	}
	if got := bounds(h); got != [4]float64{-100, 0, 100, 0} {
		t.Errorf("hallway = %v, want zero-length span across [-100, 100]", got)
	}

	if len(first.Root.Doors) != 1 {
		t.Fatalf("root doors = %d, want 1", len(first.Root.Doors))
	}
	want := room.Door{X1: -80, Z1: 0, X2: 80, Z2: 0}
	if d := first.Root.Doors[0]; d != want {
		t.Errorf("doorway = %+v, want %+v", d, want)
	}
	if len(first.Root.Linked) != 1 || first.Root.Linked[0] != h {
		t.Error("hallway room should be linked to the root")
	}
}

func TestGrowFromErrors(t *testing.T) {
	owner := room.New(0, 0, 100, 100)

	tests := []struct {
		name             string
		gx, gz, gpx, gpz float64
		owner            *room.Room
	}{
		{"diagonal growth", 1, 1, -1, 0, owner},
		{"parallel vectors", 0, -1, 0, 1, owner},
		{"not unit length", 0, -2, -1, 0, owner},
		{"nil owner", 0, -1, -1, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLinearHallway()
			err := h.GrowFrom(0, 0, tt.gx, tt.gz, tt.gpx, tt.gpz, tt.owner)
			if !errors.Is(err, errors.ErrCodeInvalidRequest) {
				t.Errorf("GrowFrom() error = %v, want INVALID_REQUEST", err)
			}
		})
	}

	t.Run("called twice", func(t *testing.T) {
		h := NewLinearHallway()
		if err := h.GrowFrom(0, 0, 0, -1, -1, 0, owner); err != nil {
			t.Fatal(err)
		}
		if err := h.GrowFrom(0, 0, 0, -1, -1, 0, owner); !errors.Is(err, errors.ErrCodeInvalidRequest) {
			t.Errorf("second GrowFrom() error = %v, want INVALID_REQUEST", err)
		}
	})
}

func TestAllocateBeforeGrowFrom(t *testing.T) {
	h := NewLinearHallway()
	if _, err := h.Allocate(100, 100, 0.5); !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("Allocate() error = %v, want INVALID_REQUEST", err)
	}
}

func TestAllocateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		a, b, p float64
		code    errors.Code
	}{
		{"zero a", 0, 100, 0.5, errors.ErrCodeInvalidRequest},
		{"negative b", 100, -1, 0.5, errors.ErrCodeInvalidRequest},
		{"nan a", math.NaN(), 100, 0.5, errors.ErrCodeInvalidGeometry},
		{"door position above one", 100, 100, 1.5, errors.ErrCodeInvalidRequest},
		{"no room between side walls", 20, 100, 0.5, errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hall := newFloor(t)
			if _, err := hall.Allocate(tt.a, tt.b, tt.p); !errors.Is(err, tt.code) {
				t.Errorf("Allocate() error = %v, want %s", err, tt.code)
			}
			if l, r := hall.Distances(); l != 0 || r != 0 {
				t.Errorf("failed allocation advanced distances to %v/%v", l, r)
			}
		})
	}
}

func TestAllocateTieBreakGoesLeft(t *testing.T) {
	_, hall := newFloor(t)

	first := mustAllocate(t, hall, 200, 300, 0.5)
	if first.X2 != -100 {
		t.Errorf("first room = %v, want it on the left (-X) side", bounds(first))
	}

	second := mustAllocate(t, hall, 200, 300, 0.5)
	if second.X1 != 100 {
		t.Errorf("second room = %v, want it on the right (+X) side", bounds(second))
	}

	third := mustAllocate(t, hall, 200, 300, 0.5)
	if third.X2 != -100 || third.Z2 != -200 {
		t.Errorf("third room = %v, want it on the left after the first", bounds(third))
	}
}

func TestAllocateCanonicalizesDimensions(t *testing.T) {
	_, h1 := newFloor(t)
	_, h2 := newFloor(t)

	r1 := mustAllocate(t, h1, 50, 200, 0.5)
	r2 := mustAllocate(t, h2, 200, 50, 0.5)

	if bounds(r1) != bounds(r2) {
		t.Errorf("Allocate(50, 200) = %v, Allocate(200, 50) = %v", bounds(r1), bounds(r2))
	}
	if want := [4]float64{-300, -50, -100, 0}; bounds(r1) != want {
		t.Errorf("room = %v, want %v", bounds(r1), want)
	}
}

func TestFinishLayoutUsesLongerSide(t *testing.T) {
	_, hall := newFloor(t)

	mustAllocate(t, hall, 100, 300, 0.5) // left
	mustAllocate(t, hall, 60, 300, 0.5)  // right

	hall.FinishLayout()
	h := hall.Room()
	h.Normalize()
	if h.Depth() != 100 || h.Width() != HallwayWidth {
		t.Errorf("hallway = %v, want 200 wide and 100 long", bounds(h))
	}

	mustAllocate(t, hall, 80, 300, 0.5) // right again, now 140
	hall.FinishLayout()
	h.Normalize()
	if h.Depth() != 140 {
		t.Errorf("hallway length after second finish = %v, want 140", h.Depth())
	}
}

func TestAllocateDeterministic(t *testing.T) {
	sizes := [][3]float64{{260, 280, 0.5}, {180, 240, 0}, {1500, 1940, 0.5}, {300, 310, 0.5}, {294, 524, 0}}

	run := func() [][4]float64 {
		_, hall := newFloor(t)
		var out [][4]float64
		for _, s := range sizes {
			out = append(out, bounds(mustAllocate(t, hall, s[0], s[1], s[2])))
		}
		for _, d := range hall.Room().Doors {
			out = append(out, [4]float64{d.X1, d.Z1, d.X2, d.Z2})
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("entry %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestAllocateNoOverlap(t *testing.T) {
	first, hall := newFloor(t)

	sizes := [][2]float64{
		{260, 280}, {180, 240}, {1500, 1940}, {300, 310}, {294, 524},
		{294, 524}, {120, 900}, {700, 200}, {333, 333}, {150, 1200},
	}
	rooms := []*room.Room{first.Root}
	for _, s := range sizes {
		rooms = append(rooms, mustAllocate(t, hall, s[0], s[1], 0.5))
	}
	hall.FinishLayout()
	rooms = append(rooms, hall.Room())

	for i := range rooms {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].Overlaps(rooms[j]) {
				t.Errorf("rooms %d %v and %d %v overlap", i, bounds(rooms[i]), j, bounds(rooms[j]))
			}
		}
	}

	if got := first.Root.Count(); got != len(rooms) {
		t.Errorf("link graph holds %d rooms, want %d", got, len(rooms))
	}
}

func TestAllocateDoorsLieOnSharedWall(t *testing.T) {
	_, hall := newFloor(t)

	tests := []struct {
		a, b, p float64
	}{
		{260, 280, 0.5},
		{180, 240, 0},
		{300, 310, 0.5},
		{140, 400, 0.5},
		{294, 524, 0},
		{500, 500, 0.25},
	}

	for _, tt := range tests {
		r := mustAllocate(t, hall, tt.a, tt.b, tt.p)
		doors := hall.Room().Doors
		d := doors[len(doors)-1]

		if alongX, alongZ := d.Degenerate(); !alongX || alongZ {
			t.Errorf("door %+v should be degenerate along X only", d)
			continue
		}
		if d.Width() != room.DoorWidth {
			t.Errorf("door width = %v, want %v", d.Width(), room.DoorWidth)
		}

		wall := r.X1
		if r.X2 == -100 {
			wall = r.X2
		}
		if d.X1 != wall || math.Abs(wall) != HallwayWidth/2 {
			t.Errorf("door x = %v, want it on the shared wall at %v", d.X1, wall)
		}
		if d.Z1 < r.Z1 || d.Z2 > r.Z2 {
			t.Errorf("door z range [%v, %v] outside room range [%v, %v]", d.Z1, d.Z2, r.Z1, r.Z2)
		}
	}
}

func TestAllocateDoorStaysBetweenSideWalls(t *testing.T) {
	tests := []struct {
		name      string
		a, b, p   float64
		doorZ1    float64
		doorZ2    float64
		doorWidth float64
	}{
		{"narrow room narrows the door", 50, 200, 0.5, -40, -10, 30},
		{"far door position", 300, 300, 1, -290, -170, room.DoorWidth},
		{"tight room at far position", 140, 400, 1, -130, -10, room.DoorWidth},
		{"near door position", 300, 300, 0, -130, -10, room.DoorWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hall := newFloor(t)
			r := mustAllocate(t, hall, tt.a, tt.b, tt.p)
			d := hall.Room().Doors[0]

			if d.X1 != -100 || d.X2 != -100 {
				t.Errorf("door x = [%v, %v], want the shared wall at -100", d.X1, d.X2)
			}
			if d.Z1 != tt.doorZ1 || d.Z2 != tt.doorZ2 {
				t.Errorf("door z = [%v, %v], want [%v, %v]", d.Z1, d.Z2, tt.doorZ1, tt.doorZ2)
			}
			if d.Width() != tt.doorWidth {
				t.Errorf("door width = %v, want %v", d.Width(), tt.doorWidth)
			}
			if d.Z1 < r.Z1+room.WallThickness || d.Z2 > r.Z2-room.WallThickness {
				t.Errorf("door z [%v, %v] reaches into the side walls of room z [%v, %v]", d.Z1, d.Z2, r.Z1, r.Z2)
			}
		})
	}
}

func TestAllocateInOtherOrientation(t *testing.T) {
	owner := room.New(-300, -100, 0, 100)
	hall := NewLinearHallway()
	if err := hall.GrowFrom(0, 0, 1, 0, 0, 1, owner); err != nil {
		t.Fatal(err)
	}

	left := mustAllocate(t, hall, 150, 300, 0.5)
	if want := [4]float64{0, 100, 150, 400}; bounds(left) != want {
		t.Errorf("left room = %v, want %v", bounds(left), want)
	}

	right := mustAllocate(t, hall, 150, 300, 0.5)
	if want := [4]float64{0, -400, 150, -100}; bounds(right) != want {
		t.Errorf("right room = %v, want %v", bounds(right), want)
	}

	d := hall.Room().Doors[0]
	if d.Z1 != 100 || d.Z2 != 100 || d.X1 != 20 || d.X2 != 140 {
		t.Errorf("left door = %+v", d)
	}

	hall.FinishLayout()
	h := hall.Room()
	h.Normalize()
	if want := [4]float64{0, -100, 150, 100}; bounds(h) != want {
		t.Errorf("hallway = %v, want %v", bounds(h), want)
	}
	if left.Overlaps(h) || right.Overlaps(h) || owner.Overlaps(h) {
		t.Error("hallway overlaps an adjacent room")
	}
}

package genre

import (
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

// tomlNeeds returns Needs decoding src.
func tomlNeeds(src string) Needs {
	return func(v any) error {
		_, err := toml.Decode(src, v)
		return err
	}
}

// hallwayProvider returns a provider allocating from a fresh hallway.
func hallwayProvider(t *testing.T) *space.Provider {
	t.Helper()
	p := space.NewProvider(rand.New(rand.NewPCG(1, 2)))
	first := &space.FirstRoomAllocator{}
	p.UseForSpace(first)
	if _, err := p.RequestExplicitSize(400, 400, 0.5, space.WindowsAny); err != nil {
		t.Fatal(err)
	}
	hall := space.NewLinearHallway()
	if err := first.LinkHallway(hall); err != nil {
		t.Fatal(err)
	}
	p.UseForSpace(hall)
	return p
}

func dims(r *room.Room) (short, long float64) {
	return math.Min(r.Width(), r.Depth()), math.Max(r.Width(), r.Depth())
}

func TestRegistry(t *testing.T) {
	reg := Default()

	want := []string{"lobby", "office", "bathroom", "stairs", "elevator"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	g, err := reg.Get("office")
	if err != nil || g.Name() != "office" {
		t.Errorf("Get(office) = %v, %v", g, err)
	}
	if Describe(g) == "" {
		t.Error("built-in genres should describe themselves")
	}

	if _, err := reg.Get("spa"); !errors.Is(err, errors.ErrCodeUnknownGenre) {
		t.Errorf("Get(spa) error = %v, want UNKNOWN_GENRE", err)
	}

	reg.Register(Office{})
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("re-registering changed order: %v", got)
	}
}

func TestBuildingContextActivate(t *testing.T) {
	b := NewBuildingContext(1, 1)
	if !b.Activate("bathroom") || !b.Activate("office") {
		t.Fatal("first activation should report true")
	}
	if b.Activate("bathroom") {
		t.Error("duplicate activation should report false")
	}
	if !reflect.DeepEqual(b.ActiveGenres, []string{"bathroom", "office"}) {
		t.Errorf("ActiveGenres = %v", b.ActiveGenres)
	}
	if b.IsActive("stairs") {
		t.Error("stairs should not be active")
	}
}

func TestShare(t *testing.T) {
	tests := []struct {
		total, floors int
		want          []int
	}{
		{10, 1, []int{10}},
		{10, 3, []int{3, 3, 4}},
		{2, 4, []int{0, 0, 0, 2}},
		{0, 2, []int{0, 0}},
	}
	for _, tt := range tests {
		var got []int
		for f := 0; f < tt.floors; f++ {
			got = append(got, share(tt.total, tt.floors, f))
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("share(%d over %d) = %v, want %v", tt.total, tt.floors, got, tt.want)
		}
	}
}

func TestNilNeedsDecode(t *testing.T) {
	var n Needs
	v := OfficeNeeds{OpenPlanDesks: 3}
	if err := n.Decode(&v); err != nil || v.OpenPlanDesks != 3 {
		t.Errorf("nil Needs should leave value untouched, got %+v, %v", v, err)
	}
}

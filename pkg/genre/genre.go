// Package genre holds the room-type policies that turn building needs into
// space requests.
//
// A genre is consulted twice. During needs processing it decodes its section
// of the recipe and tallies occupants into the [BuildingContext]. During
// layout it is asked, floor by floor, to request rooms from a
// [space.Provider].
//
// Genres are looked up through an explicit [Registry]:
//
//	reg := genre.Default()
//	office, err := reg.Get("office")
package genre

import (
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

// Needs decodes a genre's recipe section into v. A nil Needs means the
// recipe has no section for the genre.
type Needs func(v any) error

// Decode decodes into v, leaving v untouched when n is nil.
func (n Needs) Decode(v any) error {
	if n == nil {
		return nil
	}
	return n(v)
}

// Genre is a family of rooms.
type Genre interface {
	// Name is the key used in recipes and the registry.
	Name() string

	// ProcessNeeds decodes the genre's needs and records them on the
	// building context.
	ProcessNeeds(needs Needs, b *BuildingContext) error

	// CreateRoomsForFloor requests this genre's rooms for one floor.
	CreateRoomsForFloor(p *space.Provider, f *FloorContext, b *BuildingContext) ([]*room.Room, error)
}

// Describer is implemented by genres that can summarize themselves for
// listings.
type Describer interface {
	Description() string
}

// Registry maps genre names to genres, remembering registration order.
type Registry struct {
	genres map[string]Genre
	order  []string
}

// NewRegistry returns a registry holding genres. Later genres replace
// earlier ones with the same name.
func NewRegistry(genres ...Genre) *Registry {
	r := &Registry{genres: map[string]Genre{}}
	for _, g := range genres {
		r.Register(g)
	}
	return r
}

// Default returns a registry with every built-in genre.
func Default() *Registry {
	return NewRegistry(
		Lobby{},
		Office{},
		Bathroom{},
		Stairs{},
		Elevator{},
	)
}

// Register adds g, replacing any genre of the same name.
func (r *Registry) Register(g Genre) {
	name := g.Name()
	if _, ok := r.genres[name]; !ok {
		r.order = append(r.order, name)
	}
	r.genres[name] = g
}

// Get returns the genre called name.
func (r *Registry) Get(name string) (Genre, error) {
	g, ok := r.genres[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownGenre, "unknown genre %q", name)
	}
	return g, nil
}

// Names returns registered genre names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Describe returns g's description, or an empty string.
func Describe(g Genre) string {
	if d, ok := g.(Describer); ok {
		return d.Description()
	}
	return ""
}

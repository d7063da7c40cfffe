// Package plan defines the serialized form of a baked building.
//
// A [Plan] records every floor's rooms with their rectangles, doors and link
// structure. It is what the pipeline caches, the store persists and the
// HTTP API returns; renderers rebuild room trees from it with [Floor.Root].
//
//	p := plan.New("Small office", 42)
//	p.AddFloor(0, 120, lobby)
//	data, _ := plan.Marshal(p)
//
// Plans round-trip through JSON and BSON without loss.
package plan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

// =============================================================================
// Plan - Serialized Building
// =============================================================================

// Plan is a baked building.
type Plan struct {
	Name      string   `json:"name" bson:"name"`
	Seed      uint64   `json:"seed" bson:"seed"`
	Occupants int      `json:"occupants" bson:"occupants"`
	Niceness  float64  `json:"niceness" bson:"niceness"`
	Genres    []string `json:"genres,omitempty" bson:"genres,omitempty"`
	Floors    []Floor  `json:"floors" bson:"floors"`
}

// Floor is one storey. Rooms are stored in pre-order: the first room is the
// floor's root and every room follows its parent.
type Floor struct {
	Num       int    `json:"num" bson:"num"`
	Occupants int    `json:"occupants" bson:"occupants"`
	Rooms     []Room `json:"rooms" bson:"rooms"`
}

// Room is a flattened room.
type Room struct {
	ID     string  `json:"id" bson:"id"`
	Parent string  `json:"parent,omitempty" bson:"parent,omitempty"`
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Type   string  `json:"type,omitempty" bson:"type,omitempty"`
	X1     float64 `json:"x1" bson:"x1"`
	Z1     float64 `json:"z1" bson:"z1"`
	X2     float64 `json:"x2" bson:"x2"`
	Z2     float64 `json:"z2" bson:"z2"`
	Doors  []Door  `json:"doors,omitempty" bson:"doors,omitempty"`
}

// Door is a flattened door opening.
type Door struct {
	X1 float64 `json:"x1" bson:"x1"`
	Z1 float64 `json:"z1" bson:"z1"`
	X2 float64 `json:"x2" bson:"x2"`
	Z2 float64 `json:"z2" bson:"z2"`
}

// New returns an empty plan.
func New(name string, seed uint64) *Plan {
	return &Plan{Name: name, Seed: seed}
}

// AddFloor flattens the room tree under root into a new floor.
func (p *Plan) AddFloor(num, occupants int, root *room.Room) {
	f := Floor{Num: num, Occupants: occupants}
	flatten(&f, root, "")
	p.Floors = append(p.Floors, f)
}

func flatten(f *Floor, r *room.Room, parent string) {
	pr := Room{
		ID:     r.ID,
		Parent: parent,
		Name:   r.Name,
		Type:   string(r.Type),
		X1:     r.X1,
		Z1:     r.Z1,
		X2:     r.X2,
		Z2:     r.Z2,
	}
	for _, d := range r.Doors {
		pr.Doors = append(pr.Doors, Door{X1: d.X1, Z1: d.Z1, X2: d.X2, Z2: d.Z2})
	}
	f.Rooms = append(f.Rooms, pr)
	for _, c := range r.Linked {
		flatten(f, c, r.ID)
	}
}

// Root rebuilds the floor's room tree.
func (f *Floor) Root() (*room.Room, error) {
	if len(f.Rooms) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "floor %d has no rooms", f.Num)
	}

	byID := make(map[string]*room.Room, len(f.Rooms))
	var root *room.Room
	for i, pr := range f.Rooms {
		if pr.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "floor %d room %d has no id", f.Num, i)
		}
		if _, dup := byID[pr.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "floor %d has duplicate room %s", f.Num, pr.ID)
		}

		r := &room.Room{
			ID:   pr.ID,
			Name: pr.Name,
			Type: room.Type(pr.Type),
			X1:   pr.X1,
			Z1:   pr.Z1,
			X2:   pr.X2,
			Z2:   pr.Z2,
		}
		for _, d := range pr.Doors {
			r.Doors = append(r.Doors, room.Door{X1: d.X1, Z1: d.Z1, X2: d.X2, Z2: d.Z2})
		}
		byID[pr.ID] = r

		switch {
		case i == 0:
			if pr.Parent != "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "floor %d root room has a parent", f.Num)
			}
			root = r
		case pr.Parent == "":
			return nil, errors.New(errors.ErrCodeInvalidInput, "floor %d has more than one root room", f.Num)
		default:
			parent, ok := byID[pr.Parent]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "room %s appears before its parent %s", pr.ID, pr.Parent)
			}
			parent.Link(r)
		}
	}
	return root, nil
}

// Roots rebuilds every floor's room tree in floor order.
func (p *Plan) Roots() ([]*room.Room, error) {
	roots := make([]*room.Room, 0, len(p.Floors))
	for i := range p.Floors {
		r, err := p.Floors[i].Root()
		if err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return roots, nil
}

// Validate checks that every floor rebuilds into a tree of rooms that can
// be assembled into geometry.
func (p *Plan) Validate() error {
	if len(p.Floors) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "plan has no floors")
	}
	roots, err := p.Roots()
	if err != nil {
		return err
	}
	for i, root := range roots {
		root.Walk(func(r *room.Room, _ int) bool {
			if err == nil {
				err = r.Validate()
			}
			return err == nil
		})
		if err != nil {
			return errors.Annotate(err, "floor %d", p.Floors[i].Num)
		}
	}
	return nil
}

// =============================================================================
// Stats
// =============================================================================

// Stats summarizes a plan.
type Stats struct {
	Floors int
	Rooms  int
	Area   float64
	ByType map[string]int
}

// Stats counts rooms and floor area. Hallways and lobbies are included.
func (p *Plan) Stats() Stats {
	s := Stats{Floors: len(p.Floors), ByType: map[string]int{}}
	for _, f := range p.Floors {
		for _, r := range f.Rooms {
			s.Rooms++
			w, d := r.X2-r.X1, r.Z2-r.Z1
			if w < 0 {
				w = -w
			}
			if d < 0 {
				d = -d
			}
			s.Area += w * d
			s.ByType[r.Type]++
		}
	}
	return s
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Plan to pretty-printed JSON bytes.
func Marshal(p *Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Unmarshal deserializes and validates JSON bytes into a Plan.
func Unmarshal(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal plan")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteFile writes a Plan to a JSON file.
func WriteFile(p *Plan, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Plan from a JSON file.
func ReadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

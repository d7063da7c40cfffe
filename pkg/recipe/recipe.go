// Package recipe loads building recipes: the TOML documents naming a
// building's floors, niceness and per-genre needs.
//
// A recipe looks like:
//
//	name = "Small office"
//	floors = 2
//	niceness = 1.0
//
//	[render]
//	what = "floorplan"
//
//	[needs.office]
//	open_plan_desks = 40
//	private_offices = 4
//	conference_rooms = [8, 12]
//
// Needs sections are decoded lazily by the genre that owns them; the recipe
// only keeps them in document order.
package recipe

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arcisi/pkg/errors"
)

// Render modes.
const (
	ModeFloorplan = "floorplan"
	ModeShell     = "shell"
)

const (
	DefaultFloors   = 1
	DefaultNiceness = 1.0
	MaxFloors       = 200
	MaxNiceness     = 2.0
)

// Render holds a recipe's default render settings.
type Render struct {
	What  string `toml:"what" json:"what"`
	Floor *int   `toml:"floor,omitempty" json:"floor,omitempty"`
}

// Recipe is a parsed building recipe.
type Recipe struct {
	Name     string  `toml:"name" json:"name"`
	Floors   int     `toml:"floors" json:"floors"`
	Niceness float64 `toml:"niceness" json:"niceness"`
	Render   Render  `toml:"render" json:"render"`

	RawNeeds map[string]toml.Primitive `toml:"needs" json:"-"`

	genres []string
	md     toml.MetaData
	source []byte
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read recipe %s", path)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, errors.Annotate(err, "recipe %s", path)
	}
	return r, nil
}

// Parse decodes a recipe, applies defaults and validates it.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "decode recipe")
	}
	r.md = md
	r.source = append([]byte(nil), data...)

	if undecoded := topLevelUndecoded(md); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "unknown recipe keys: %s", strings.Join(undecoded, ", "))
	}

	r.genres = genreOrder(md, r.RawNeeds)

	if !md.IsDefined("floors") {
		r.Floors = DefaultFloors
	}
	if !md.IsDefined("niceness") {
		r.Niceness = DefaultNiceness
	}
	if r.Render.What == "" {
		r.Render.What = ModeFloorplan
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the recipe's scalar settings.
func (r *Recipe) Validate() error {
	if r.Floors < 1 || r.Floors > MaxFloors {
		return errors.New(errors.ErrCodeInvalidRecipe, "floors must be within [1, %d], got %d", MaxFloors, r.Floors)
	}
	if r.Name != "" {
		if err := errors.ValidateRecipeName(r.Name); err != nil {
			return err
		}
	}
	if r.Niceness < 0 || r.Niceness > MaxNiceness || math.IsNaN(r.Niceness) {
		return errors.New(errors.ErrCodeInvalidRecipe, "niceness must be within [0, %v], got %v", MaxNiceness, r.Niceness)
	}
	switch r.Render.What {
	case ModeFloorplan, ModeShell:
	default:
		return errors.New(errors.ErrCodeInvalidMode, "render mode must be %q or %q, got %q", ModeFloorplan, ModeShell, r.Render.What)
	}
	if r.Render.Floor != nil && (*r.Render.Floor < -1 || *r.Render.Floor >= r.Floors) {
		return errors.New(errors.ErrCodeInvalidRecipe, "render floor %d is outside the building", *r.Render.Floor)
	}
	return nil
}

// Genres returns the genres with a needs section, in document order.
func (r *Recipe) Genres() []string {
	return append([]string(nil), r.genres...)
}

// Needs returns a decoder for genre's needs section, or nil if the recipe
// has none. Keys in the section that the target does not consume are
// reported as an error.
func (r *Recipe) Needs(genre string) func(v any) error {
	prim, ok := r.RawNeeds[genre]
	if !ok {
		return nil
	}
	return func(v any) error {
		if err := r.md.PrimitiveDecode(prim, v); err != nil {
			return err
		}
		var unknown []string
		for _, k := range r.md.Undecoded() {
			if len(k) > 2 && k[0] == "needs" && k[1] == genre {
				unknown = append(unknown, strings.Join(k[2:], "."))
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("unknown %s needs: %s", genre, strings.Join(unknown, ", "))
		}
		return nil
	}
}

// Source returns the raw recipe document.
func (r *Recipe) Source() []byte { return r.source }

// topLevelUndecoded lists undecoded keys outside the needs sections.
func topLevelUndecoded(md toml.MetaData) []string {
	var keys []string
	for _, k := range md.Undecoded() {
		if len(k) > 0 && k[0] == "needs" {
			continue
		}
		keys = append(keys, k.String())
	}
	return keys
}

// genreOrder returns the needs sections in the order they appear in the
// document. Sections only reachable through inline tables go last, sorted.
func genreOrder(md toml.MetaData, needs map[string]toml.Primitive) []string {
	var order []string
	seen := map[string]bool{}
	for _, k := range md.Keys() {
		if len(k) < 2 || k[0] != "needs" || seen[k[1]] {
			continue
		}
		if _, ok := needs[k[1]]; !ok {
			continue
		}
		seen[k[1]] = true
		order = append(order, k[1])
	}

	var rest []string
	for name := range needs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	return append(order, rest...)
}

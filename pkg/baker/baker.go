// Package baker drives a building from its recipe to geometry.
//
// Baking runs in three phases:
//
//  1. [Baker.ProcessNeeds] activates genres and lets each one tally its
//     needs into the building context.
//  2. [Baker.Design] splits occupants across floors and lays out every
//     floor: a lobby anchors the floor, a hallway grows from it, and every
//     active genre requests its rooms from the hallway.
//  3. [Baker.Render] assembles floorplan or shell geometry for one floor or
//     the whole stack.
//
// Layout is deterministic for a given recipe and seed.
package baker

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcisi/pkg/csg"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/genre"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
	"github.com/matzehuels/arcisi/pkg/room"
	"github.com/matzehuels/arcisi/pkg/space"
)

// MandatedGenres are laid out on every floor.
var MandatedGenres = []string{"bathroom"}

// MaybeMandatedGenres are laid out on every floor of multi-floor buildings.
var MaybeMandatedGenres = []string{"stairs", "elevator"}

// AllFloors selects every floor for rendering.
const AllFloors = -1

// DefaultSeed seeds layouts when no seed is given.
const DefaultSeed uint64 = 42

// Floor is a laid-out floor.
type Floor struct {
	Context *genre.FloorContext
	Hallway *space.LinearHallway
	Rooms   []*room.Room
}

// Root returns the floor's anchor room.
func (f *Floor) Root() *room.Room { return f.Context.Root }

// Baker designs one building.
type Baker struct {
	recipe   *recipe.Recipe
	registry *genre.Registry
	ctx      *genre.BuildingContext
	floors   []*Floor

	seed   uint64
	rng    *rand.Rand
	logger *log.Logger

	processed bool
}

// Option configures a Baker.
type Option func(*Baker)

// WithSeed seeds the random source used for rough room sizes.
func WithSeed(seed uint64) Option {
	return func(b *Baker) { b.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Baker) {
		if l != nil {
			b.logger = l
		}
	}
}

// New returns a Baker for r. A nil registry uses [genre.Default].
func New(r *recipe.Recipe, registry *genre.Registry, opts ...Option) *Baker {
	if registry == nil {
		registry = genre.Default()
	}
	b := &Baker{
		recipe:   r,
		registry: registry,
		seed:     DefaultSeed,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.ctx = genre.NewBuildingContext(r.Floors, r.Niceness)
	return b
}

// Context returns the building context.
func (b *Baker) Context() *genre.BuildingContext { return b.ctx }

// Floors returns the laid-out floors, empty before Design.
func (b *Baker) Floors() []*Floor { return b.floors }

// Seed returns the layout seed.
func (b *Baker) Seed() uint64 { return b.seed }

// ProcessNeeds activates the mandated genres and every genre the recipe
// names, then lets each named genre process its needs in recipe order.
func (b *Baker) ProcessNeeds() error {
	if b.processed {
		return nil
	}

	for _, name := range MandatedGenres {
		b.ctx.Activate(name)
	}
	if b.recipe.Floors > 1 {
		for _, name := range MaybeMandatedGenres {
			b.ctx.Activate(name)
		}
	}

	for _, name := range b.recipe.Genres() {
		g, err := b.registry.Get(name)
		if err != nil {
			return err
		}
		b.ctx.Activate(name)
		if err := g.ProcessNeeds(b.recipe.Needs(name), b.ctx); err != nil {
			return err
		}
		b.logger.Debug("processed needs", "genre", name, "occupants", b.ctx.Occupants)
	}

	for _, name := range b.ctx.ActiveGenres {
		if _, err := b.registry.Get(name); err != nil {
			return err
		}
	}

	b.processed = true
	return nil
}

// Design apportions occupants to floors and lays each floor out. It
// processes needs first if that has not happened yet. Every call reseeds the
// random source, so redesigning yields the same layout.
func (b *Baker) Design() error {
	if err := b.ProcessNeeds(); err != nil {
		return err
	}
	b.rng = rand.New(rand.NewPCG(b.seed, b.seed^0xdeadbeef))

	b.floors = b.floors[:0]
	for _, fc := range b.allocateFloors() {
		f, err := b.layoutFloor(fc)
		if err != nil {
			return errors.Annotate(err, "lay out floor %d", fc.Num)
		}
		b.floors = append(b.floors, f)
		b.logger.Debug("laid out floor", "floor", fc.Num, "occupants", fc.Occupants, "rooms", f.Root().Count())
	}
	b.logger.Info("designed building", "floors", len(b.floors), "occupants", b.ctx.Occupants)
	return nil
}

// allocateFloors splits the building's occupants evenly. The top floor also
// takes the remainder so nobody is left out.
func (b *Baker) allocateFloors() []*genre.FloorContext {
	n := b.recipe.Floors
	per := b.ctx.Occupants / n

	floors := make([]*genre.FloorContext, n)
	for i := range floors {
		occ := per
		if i == n-1 {
			occ = b.ctx.Occupants - per*(n-1)
		}
		floors[i] = genre.NewFloorContext(i, occ)
	}
	return floors
}

func (b *Baker) layoutFloor(fc *genre.FloorContext) (*Floor, error) {
	provider := space.NewProvider(b.rng, space.WithLogger(b.logger))
	first := &space.FirstRoomAllocator{}
	provider.UseForSpace(first)

	lobby, err := b.registry.Get("lobby")
	if err != nil {
		return nil, err
	}
	rooms, err := lobby.CreateRoomsForFloor(provider, fc, b.ctx)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 || first.Root == nil {
		return nil, errors.New(errors.ErrCodeInternal, "lobby genre produced no anchor room")
	}
	fc.Root = first.Root

	hall := space.NewLinearHallway()
	if err := first.LinkHallway(hall); err != nil {
		return nil, err
	}
	provider.UseForSpace(hall)

	f := &Floor{Context: fc, Hallway: hall}
	for _, name := range b.ctx.ActiveGenres {
		if name == "lobby" {
			continue
		}
		g, err := b.registry.Get(name)
		if err != nil {
			return nil, err
		}
		created, err := g.CreateRoomsForFloor(provider, fc, b.ctx)
		if err != nil {
			return nil, errors.Annotate(err, "%s rooms", name)
		}
		f.Rooms = append(f.Rooms, created...)
	}

	hall.FinishLayout()
	return f, nil
}

// Plan exports the designed building.
func (b *Baker) Plan() (*plan.Plan, error) {
	if len(b.floors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "building has not been designed")
	}
	p := plan.New(b.recipe.Name, b.seed)
	p.Occupants = b.ctx.Occupants
	p.Niceness = b.ctx.Niceness
	p.Genres = append([]string(nil), b.ctx.ActiveGenres...)
	for _, f := range b.floors {
		p.AddFloor(f.Context.Num, f.Context.Occupants, f.Root())
	}
	return p, nil
}

// Render assembles geometry for the designed building. mode is
// [recipe.ModeFloorplan] or [recipe.ModeShell]; floor selects one floor or
// [AllFloors].
func (b *Baker) Render(builder csg.Builder, mode string, floor int) (csg.Solid, error) {
	if len(b.floors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "building has not been designed")
	}
	roots := make([]*room.Room, len(b.floors))
	for i, f := range b.floors {
		roots[i] = f.Root()
	}
	return Render(builder, roots, mode, floor)
}

// Render assembles geometry for a stack of floor roots. Floor i sits at
// height i * room.RoomHeight.
func Render(builder csg.Builder, roots []*room.Room, mode string, floor int) (csg.Solid, error) {
	var geometry func(r *room.Room, y float64) (csg.Solid, error)
	switch mode {
	case recipe.ModeFloorplan:
		geometry = func(r *room.Room, y float64) (csg.Solid, error) { return r.FloorplanGeometry(builder, y) }
	case recipe.ModeShell:
		geometry = func(r *room.Room, y float64) (csg.Solid, error) { return r.ShellGeometry(builder, y) }
	default:
		return nil, errors.New(errors.ErrCodeInvalidMode, "invalid render mode %q", mode)
	}

	if floor != AllFloors {
		if floor < 0 || floor >= len(roots) {
			return nil, errors.New(errors.ErrCodeInvalidRequest, "floor %d out of range [0, %d)", floor, len(roots))
		}
		return geometry(roots[floor], 0)
	}

	var out csg.Solid
	for i, r := range roots {
		s, err := geometry(r, float64(i)*room.RoomHeight)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = s
		} else {
			out = out.Union(s)
		}
	}
	if out == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no floors to render")
	}
	return out, nil
}

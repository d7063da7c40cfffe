package space

import (
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/room"
)

// WindowDesire states whether a room wants exterior windows. Current
// allocators record nothing for it.
type WindowDesire int

const (
	WindowsAvoid  WindowDesire = -1
	WindowsAny    WindowDesire = 0
	WindowsWanted WindowDesire = 1
)

// TileRequest describes a region of repeated units such as desks.
//
// Count units of SizeA x SizeB are tiled with PaddingA/PaddingB around each
// region. Every ExpandCountA units along A an extra ExpandSizeA is inserted
// (an aisle, for example); likewise for B. An ExpandCount of zero disables
// expansion on that axis.
type TileRequest struct {
	Count int

	PaddingA, PaddingB float64
	SizeA, SizeB       float64

	ExpandCountA, ExpandCountB int
	ExpandSizeA, ExpandSizeB   float64
}

// Provider translates size requests into calls on the active [Allocator].
type Provider struct {
	alloc  Allocator
	rng    *rand.Rand
	logger *log.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithLogger sets the logger used for per-allocation debug output.
func WithLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider returns a Provider without an active allocator. rng drives
// RequestRoughSize; a nil rng uses a fixed seed.
func NewProvider(rng *rand.Rand, opts ...ProviderOption) *Provider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0xdeadbeef))
	}
	p := &Provider{
		rng:    rng,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UseForSpace makes a the target of subsequent requests.
func (p *Provider) UseForSpace(a Allocator) {
	p.alloc = a
}

// Allocator returns the active allocator, nil if none is set.
func (p *Provider) Allocator() Allocator { return p.alloc }

// RequestExplicitSize allocates a room of exactly a by b.
func (p *Provider) RequestExplicitSize(a, b, doorPos float64, windows WindowDesire) (*room.Room, error) {
	if p.alloc == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no allocator in use")
	}
	r, err := p.alloc.Allocate(a, b, doorPos)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("allocated room", "a", a, "b", b, "door", doorPos, "windows", windows, "id", r.ID)
	return r, nil
}

// RequestRoughSize allocates a room covering about area, no smaller than
// aMin by bMin.
//
// The A dimension is drawn uniformly from [aMin, floor(area/bMin)) and B
// fills out the area, both floored to integers.
func (p *Provider) RequestRoughSize(aMin, bMin, area, doorPos float64, windows WindowDesire) (*room.Room, error) {
	for _, d := range []struct {
		name string
		v    float64
	}{{"aMin", aMin}, {"bMin", bMin}, {"area", area}} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return nil, err
		}
	}
	if aMin*bMin > area {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"area %v is smaller than the minimum size %v x %v", area, aMin, bMin)
	}

	aMax := math.Floor(area / bMin)
	spread := math.Max(0, aMax-aMin)
	aUse := aMin + math.Floor(p.rng.Float64()*spread)
	bUse := math.Floor(area / aUse)

	return p.RequestExplicitSize(aUse, bUse, doorPos, windows)
}

// RequestTileRegions allocates as many regions as needed to hold req.Count
// tiles. Each region is as large as the allocator's largest available space
// permits and is sized to fit its tiles exactly. The active allocator must
// implement [SpaceReporter].
func (p *Provider) RequestTileRegions(req TileRequest) ([]*room.Room, error) {
	if p.alloc == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "no allocator in use")
	}
	reporter, ok := p.alloc.(SpaceReporter)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "allocator %T cannot report available space", p.alloc)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	expandCountA, expandCountB := req.ExpandCountA, req.ExpandCountB
	weightedA, weightedB := req.SizeA, req.SizeB
	if expandCountA != 0 {
		weightedA += req.ExpandSizeA / float64(expandCountA)
	} else {
		expandCountA = 1
	}
	if expandCountB != 0 {
		weightedB += req.ExpandSizeB / float64(expandCountB)
	} else {
		expandCountB = 1
	}

	var regions []*room.Room
	for remaining := req.Count; remaining > 0; {
		availA, availB := reporter.LargestAvailableSpace()
		availA -= req.PaddingA
		availB -= req.PaddingB

		numA := max(1, int(math.Floor(availA/weightedA)))
		numB := max(1, int(math.Floor(availB/weightedB)))

		actualA := req.PaddingA + float64(numA)*req.SizeA + float64(numA/expandCountA)*req.ExpandSizeA
		actualB := req.PaddingB + float64(numB)*req.SizeB + float64(numB/expandCountB)*req.ExpandSizeB

		r, err := p.alloc.Allocate(actualA, actualB, 0.5)
		if err != nil {
			return regions, err
		}
		p.logger.Debug("allocated tile region", "a", actualA, "b", actualB, "tiles", numA*numB, "remaining", remaining)

		regions = append(regions, r)
		remaining -= numA * numB
	}
	return regions, nil
}

func (r TileRequest) validate() error {
	if r.Count < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "tile count must not be negative, got %d", r.Count)
	}
	if r.ExpandCountA < 0 || r.ExpandCountB < 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "expand counts must not be negative")
	}
	if err := errors.ValidateDimension("tile size a", r.SizeA); err != nil {
		return err
	}
	if err := errors.ValidateDimension("tile size b", r.SizeB); err != nil {
		return err
	}
	for _, v := range []float64{r.PaddingA, r.PaddingB, r.ExpandSizeA, r.ExpandSizeB} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidRequest, "tile padding and expansion must be finite and non-negative")
		}
	}
	return nil
}

package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/errors"
	"github.com/matzehuels/arcisi/pkg/observability"
	"github.com/matzehuels/arcisi/pkg/plan"
	"github.com/matzehuels/arcisi/pkg/recipe"
)

const testRecipe = `
name = "Small office"
floors = 2

[render]
what = "shell"

[needs.office]
open_plan_desks = 24
private_offices = 2
conference_rooms = [8]
`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func intPtr(v int) *int { return &v }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"scad", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"graph", false},
		{"stl", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"scad", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateMode(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"floorplan", false},
		{"shell", false},
		{"wireframe", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMode(tt.mode)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Missing recipe error = %v, want INVALID_INPUT", err)
	}

	opts = Options{Recipe: []byte(testRecipe)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [scad], got %v", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale should be %v, got %v", DefaultPNGScale, opts.PNGScale)
	}
	if opts.Mode != "" || opts.Floor != nil {
		t.Error("Mode and floor should stay unset until resolved against the recipe")
	}

	// Second call should be idempotent
	opts.Formats = append(opts.Formats, "svg")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if len(opts.Formats) != 2 {
		t.Error("Formats changed on second call")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad mode", Options{Mode: "wireframe"}, errors.ErrCodeInvalidMode},
		{"bad format", Options{Formats: []string{"stl"}}, errors.ErrCodeInvalidFormat},
		{"bad floor", Options{Floor: intPtr(-2)}, errors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForRender(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateForRender() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsResolve(t *testing.T) {
	r, err := recipe.Parse([]byte("[render]\nwhat = \"shell\"\nfloor = 0\n"))
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{}
	opts.Resolve(r)
	if opts.Mode != recipe.ModeShell || opts.FloorOrAll() != 0 {
		t.Errorf("from recipe: mode=%s floor=%d, want shell 0", opts.Mode, opts.FloorOrAll())
	}

	opts = Options{Mode: recipe.ModeFloorplan, Floor: intPtr(AllFloors)}
	opts.Resolve(r)
	if opts.Mode != recipe.ModeFloorplan || opts.FloorOrAll() != AllFloors {
		t.Errorf("explicit options should win: mode=%s floor=%d", opts.Mode, opts.FloorOrAll())
	}

	opts = Options{}
	opts.Resolve(nil)
	if opts.Mode != DefaultMode || opts.FloorOrAll() != AllFloors {
		t.Errorf("defaults: mode=%s floor=%d", opts.Mode, opts.FloorOrAll())
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Mode: recipe.ModeShell, Floor: intPtr(1), Detailed: true}

	if got := opts.ArtifactKeyOpts("scad"); got.Mode != recipe.ModeShell || got.Floor != 1 {
		t.Errorf("scad key opts = %+v", got)
	}
	// Plan-wide formats ignore the floor selection
	if got := opts.ArtifactKeyOpts("dot"); got.Floor != AllFloors || !got.Detailed {
		t.Errorf("dot key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts("svg"); got.Mode != "" || got.Unlabeled {
		t.Errorf("svg key opts = %+v", got)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := NewRunner(c, nil, nil)

	opts := Options{Recipe: []byte(testRecipe), Formats: []string{"scad", "svg", "json", "dot"}}
	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if first.CacheInfo.BakeHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if first.Stats.Floors != 2 || first.Stats.Rooms == 0 || first.Stats.Occupants != 26 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if first.PlanHash == "" {
		t.Error("PlanHash should be set")
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !strings.Contains(string(first.Artifacts["scad"]), "shell mode") {
		t.Error("recipe [render] table should select shell mode")
	}

	p, err := plan.Unmarshal(first.Artifacts["json"])
	if err != nil {
		t.Fatalf("json artifact is not a plan: %v", err)
	}
	if p.Name != "Small office" || p.Seed != DefaultSeed {
		t.Errorf("plan = %q seed %d", p.Name, p.Seed)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.BakeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want all hits", second.CacheInfo)
	}
	if second.PlanHash != first.PlanHash {
		t.Error("cached plan should hash the same")
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(first.Artifacts[f], second.Artifacts[f]) {
			t.Errorf("cached %s artifact differs", f)
		}
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)
	opts := Options{Recipe: []byte(testRecipe)}

	if _, err := runner.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.BakeHit || res.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerSeedChangesPlanKey(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)

	if _, err := runner.Execute(ctx, Options{Recipe: []byte(testRecipe), Seed: 1}); err != nil {
		t.Fatal(err)
	}
	res, err := runner.Execute(ctx, Options{Recipe: []byte(testRecipe), Seed: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.BakeHit {
		t.Error("a different seed must not reuse the cached plan")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad recipe", Options{Recipe: []byte("floors = 0\n")}, errors.ErrCodeInvalidRecipe},
		{"unknown genre", Options{Recipe: []byte("[needs.spa]\nsaunas = 1\n")}, errors.ErrCodeUnknownGenre},
		{"bad format", Options{Recipe: []byte(testRecipe), Formats: []string{"stl"}}, errors.ErrCodeInvalidFormat},
		{"floor out of range", Options{Recipe: []byte(testRecipe), Floor: intPtr(5)}, errors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runner.Execute(ctx, tt.opts); !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderSingleFloorSVG(t *testing.T) {
	ctx := context.Background()
	r, err := recipe.Parse([]byte(testRecipe))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Bake(ctx, r, Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, p, Options{Formats: []string{"svg"}, Floor: intPtr(1)})
	if err != nil {
		t.Fatal(err)
	}
	svg := string(artifacts["svg"])
	if !strings.Contains(svg, `id="floor-1"`) || strings.Contains(svg, `id="floor-0"`) {
		t.Error("svg should draw floor 1 only")
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu         sync.Mutex
	hits, miss int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.miss++
}

func TestRunnerReportsCacheHooks(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)
	opts := Options{Recipe: []byte(testRecipe), Formats: []string{"json"}}
	for range 2 {
		if _, err := runner.Execute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}

	// plan + artifact miss, then plan + artifact hit
	if hooks.miss != 2 || hooks.hits != 2 {
		t.Errorf("hooks saw %d hits and %d misses, want 2 and 2", hooks.hits, hooks.miss)
	}
}

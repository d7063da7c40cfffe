// Package cache stores baked plans and rendered artifacts.
//
// Baking is deterministic: the same recipe and seed always yield the same
// plan, and the same plan and render options always yield the same bytes.
// The pipeline therefore caches at two levels:
//
//   - plan keys: hash of the recipe source plus the seed
//   - artifact keys: hash of the plan plus format, mode and floor
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: never stores anything
//
// Keys are built by a [Keyer]. Wrap one with [NewScopedKeyer] to give a
// tenant or environment its own namespace.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// PlanKeyOpts holds the inputs besides the recipe that shape a plan.
type PlanKeyOpts struct {
	Seed uint64 `json:"seed"`
}

// ArtifactKeyOpts holds the inputs besides the plan that shape an artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Mode      string `json:"mode,omitempty"`
	Floor     int    `json:"floor"`
	Detailed  bool   `json:"detailed,omitempty"`
	Unlabeled bool   `json:"unlabeled,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PlanKey returns the key of the plan baked from a recipe.
	PlanKey(recipeHash string, opts PlanKeyOpts) string
	// ArtifactKey returns the key of an artifact rendered from a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey implements [Keyer].
func (DefaultKeyer) PlanKey(recipeHash string, opts PlanKeyOpts) string {
	return hashKey("plan", recipeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

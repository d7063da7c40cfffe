// Package store persists bake records.
//
// A [Record] is one finished bake: the recipe it came from, the seed, the
// exported plan and when it was made. The HTTP API saves a record per
// POST /v1/bakes and renders artifacts from stored plans on demand.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [MongoStore]: MongoDB collection shared by every server instance
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/arcisi/pkg/plan"
)

// DefaultListLimit caps List when the caller passes a limit of zero.
const DefaultListLimit = 50

// Record is a stored bake.
type Record struct {
	ID         string     `json:"id" bson:"_id"`
	Name       string     `json:"name" bson:"name"`
	Recipe     string     `json:"recipe" bson:"recipe"`
	RecipeHash string     `json:"recipe_hash" bson:"recipe_hash"`
	Seed       uint64     `json:"seed" bson:"seed"`
	PlanHash   string     `json:"plan_hash" bson:"plan_hash"`
	Plan       *plan.Plan `json:"plan" bson:"plan"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

// NewRecord returns a record with a fresh ID for p.
func NewRecord(source []byte, recipeHash string, p *plan.Plan, planHash string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		Name:       p.Name,
		Recipe:     string(source),
		RecipeHash: recipeHash,
		Seed:       p.Seed,
		PlanHash:   planHash,
		Plan:       p,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists bake records.
type Store interface {
	// Save inserts or replaces rec. A record without an ID gets one.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*Record, error)
	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ValidID reports whether id looks like a record ID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}

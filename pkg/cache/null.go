package cache

import (
	"context"
	"time"
)

var _ Cache = (*NullCache)(nil)

// NullCache misses on every lookup and drops every write. The CLI uses it
// for --no-cache runs and the server for the "none" cache backend; the
// pipeline falls back to it when a Runner has no cache.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

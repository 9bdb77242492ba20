package store

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned when a cached snapshot does not exist or expired.
var ErrCacheMiss = errors.New("cache miss")

// SnapshotCache stores derived read-model snapshots (progression state,
// rhythm bins) as JSON. Entries live in per-key buckets of named fields so
// that every variant cached for one user can be dropped with a single Delete.
type SnapshotCache interface {
	// Get decodes the field of key into dest.
	// Returns ErrCacheMiss if the entry is absent.
	Get(ctx context.Context, key, field string, dest any) error

	// Set encodes value into the field of key and refreshes the key's TTL.
	Set(ctx context.Context, key, field string, value any) error

	// Delete drops whole keys with all their fields.
	Delete(ctx context.Context, keys ...string) error
}

// Package store holds the reconciliation table: one merged entity per
// callsign, mutated only through the field-preserving Upsert. Three
// interchangeable backings are provided; the correlator and artifact writer
// depend only on the Store interface.
package store

import (
	"context"
	"fmt"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// Store is the reconciliation table contract.
//
// Upsert merges a partial field set into the entity for its callsign,
// creating the entity on first contact. A populated field is never replaced
// by an empty (nil, for coordinates) incoming value, which makes upserts
// idempotent and commutative across record families.
//
// Flush is a durability pacing point between upsert batches; it never
// changes what Get or ForEach observe.
type Store interface {
	Upsert(ctx context.Context, u domain.Update) error
	Get(ctx context.Context, callsign string) (domain.Entity, bool, error)
	ForEach(ctx context.Context, fn func(domain.Entity) error) error
	Count(ctx context.Context) (int64, error)
	Flush(ctx context.Context) error
	Close() error
}

// Supported backends for Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Open creates a store for the named backend. path is the database file
// (sqlite) or directory (pebble) and is ignored by the memory backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return NewSQLite(path)
	case BackendPebble:
		return NewPebble(path)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

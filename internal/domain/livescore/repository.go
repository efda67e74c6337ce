package livescore

import (
	"context"
	"errors"
)

var (
	// ErrStoreUnavailable marks live-score store I/O failures that a later
	// attempt may recover from.
	ErrStoreUnavailable = errors.New("live score store unavailable")
	// ErrMalformedRecord marks a stored row whose score payload failed to
	// decode. Callers treat it as a miss so the next refresh repairs the row.
	ErrMalformedRecord = errors.New("malformed live score record")
)

// Store is the durable cache of live-score records, one row per canonical
// match key. Upsert replaces the whole record and is idempotent; the backing
// store serializes concurrent writers at the row level.
type Store interface {
	GetByKey(ctx context.Context, key string) (Record, bool, error)
	Upsert(ctx context.Context, record Record) error
}

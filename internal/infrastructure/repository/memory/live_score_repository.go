package memory

import (
	"context"
	"sync"

	"github.com/goalfeed/livescore-api/internal/domain/livescore"
)

// LiveScoreRepository is the in-process livescore.Store used in dev mode and
// tests. Upserts replace whole records under one lock, mirroring the
// row-level guarantee the durable store provides.
type LiveScoreRepository struct {
	mu    sync.RWMutex
	items map[string]livescore.Record
}

func NewLiveScoreRepository() *LiveScoreRepository {
	return &LiveScoreRepository{
		items: make(map[string]livescore.Record),
	}
}

func (r *LiveScoreRepository) GetByKey(_ context.Context, key string) (livescore.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.items[key]
	if !ok {
		return livescore.Record{}, false, nil
	}

	return record, true, nil
}

func (r *LiveScoreRepository) Upsert(_ context.Context, record livescore.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[record.Key] = record
	return nil
}

package weatherlog

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryRepository is a concurrency-safe in-memory implementation of
// Repository, used by unit tests and as the storeless dev fallback.
type MemoryRepository struct {
	mu   sync.RWMutex
	logs []Observation
	// seq breaks CreatedAt ties so rapid inserts keep a stable order.
	seq int64
}

// NewMemoryRepository creates an empty in-memory observation repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Insert(_ context.Context, o Observation) (Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	o.ID = bson.NewObjectID().Hex()
	o.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Nanosecond)
	r.logs = append(r.logs, o)
	return o, nil
}

func (r *MemoryRepository) FindRecent(_ context.Context, limit int) ([]Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Observation, len(r.logs))
	copy(result, r.logs)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) FindOldest(_ context.Context, limit int) ([]Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Observation, len(r.logs))
	copy(result, r.logs)
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.logs), nil
}

func (r *MemoryRepository) Remove(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := r.logs[:0]
	removed := 0
	for _, o := range r.logs {
		if drop[o.ID] {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	r.logs = kept
	return removed, nil
}

package weatherlog

import "context"

// Repository is the storage contract for persisted observations.
// Ordering is always by creation time.
type Repository interface {
	// Insert persists an observation, assigning ID and CreatedAt.
	Insert(ctx context.Context, o Observation) (Observation, error)

	// FindRecent returns observations newest-first. limit <= 0 returns all.
	FindRecent(ctx context.Context, limit int) ([]Observation, error)

	// FindOldest returns observations oldest-first, at most limit.
	FindOldest(ctx context.Context, limit int) ([]Observation, error)

	// Count returns the number of persisted observations.
	Count(ctx context.Context) (int, error)

	// Remove permanently deletes the given observations and returns how many
	// were actually removed.
	Remove(ctx context.Context, ids []string) (int, error)
}

package user

import "context"

// Repository is the storage contract for account records. Implementations are
// expected to report apperr.ErrConflict from Insert and Save when a unique
// index rejects the write: the application-level uniqueness checks in Service
// are a fast path, the store's own constraint enforcement is the authority.
type Repository interface {
	// Insert persists a new account, assigning ID and timestamps.
	Insert(ctx context.Context, u User) (User, error)

	// FindActiveByID returns the active account with the given id.
	// A malformed id is indistinguishable from an absent record: both
	// report apperr.ErrNotFound.
	FindActiveByID(ctx context.Context, id string) (User, error)
	FindActiveByEmail(ctx context.Context, email string) (User, error)
	FindActiveByEmailAndProvider(ctx context.Context, email, provider string) (User, error)
	FindActiveByUsername(ctx context.Context, username string) (User, error)
	FindAllActive(ctx context.Context) ([]User, error)

	// FindAllInactive returns every soft-deleted account, regardless of age.
	FindAllInactive(ctx context.Context) ([]User, error)

	// Save replaces the stored record identified by u.ID, bumping UpdatedAt.
	Save(ctx context.Context, u User) (User, error)

	// Remove permanently deletes the given accounts and returns how many
	// were actually removed. Unknown ids are not an error.
	Remove(ctx context.Context, ids []string) (int, error)
}

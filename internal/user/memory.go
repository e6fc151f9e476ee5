package user

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
)

// MemoryRepository is a concurrency-safe in-memory implementation of Repository.
// It backs unit tests and lets the server run without a database; data does
// not survive a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository creates an empty in-memory account repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Insert(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror the unique indexes of the Mongo store so races between
	// check-then-act callers still surface a conflict here.
	for _, existing := range r.users {
		if !existing.IsActive {
			continue
		}
		if existing.Username == u.Username {
			return User{}, fmt.Errorf("%w: this username is already in use", apperr.ErrConflict)
		}
		if existing.Email == u.Email && existing.Provider == u.Provider {
			return User{}, fmt.Errorf("%w: this email is already in use", apperr.ErrConflict)
		}
	}

	now := time.Now()
	u.ID = bson.NewObjectID().Hex()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) FindActiveByID(_ context.Context, id string) (User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		// Malformed ids are reported exactly like absent records.
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok || !u.IsActive {
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return u, nil
}

func (r *MemoryRepository) FindActiveByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.IsActive && u.Email == email {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
}

func (r *MemoryRepository) FindActiveByEmailAndProvider(_ context.Context, email, provider string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.IsActive && u.Email == email && u.Provider == provider {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
}

func (r *MemoryRepository) FindActiveByUsername(_ context.Context, username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.IsActive && u.Username == username {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
}

func (r *MemoryRepository) FindAllActive(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []User
	for _, u := range r.users {
		if u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *MemoryRepository) FindAllInactive(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []User
	for _, u := range r.users {
		if !u.IsActive {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Save(_ context.Context, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return User{}, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) Remove(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			delete(r.users, id)
			removed++
		}
	}
	return removed, nil
}

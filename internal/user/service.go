package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
	pwhash "github.com/Le0Vieir4/Weather-io/internal/password"
)

// Service implements the account operations on top of a Repository.
// It owns uniqueness checks, password hashing, and the soft-delete lifecycle.
type Service struct {
	repo Repository
}

// NewService constructs a Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new account. The provider defaults to "local" when unset.
//
// Uniqueness rules: OAuth-tagged accounts collide on (email, provider); local
// registration collides on email across the whole active namespace. Username
// is unique among active accounts regardless of provider.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if in.Provider != "" && in.Provider != ProviderLocal {
		_, err := s.repo.FindActiveByEmailAndProvider(ctx, in.Email, in.Provider)
		if err == nil {
			return User{}, fmt.Errorf("%w: this email is already in use with %s", apperr.ErrConflict, in.Provider)
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return User{}, err
		}
	} else {
		_, err := s.repo.FindActiveByEmail(ctx, in.Email)
		if err == nil {
			return User{}, fmt.Errorf("%w: this email is already in use", apperr.ErrConflict)
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return User{}, err
		}
	}

	_, err := s.repo.FindActiveByUsername(ctx, in.Username)
	if err == nil {
		return User{}, fmt.Errorf("%w: this username is already in use", apperr.ErrConflict)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, err
	}

	u := User{
		Username:  in.Username,
		Email:     in.Email,
		Provider:  in.Provider,
		Picture:   in.Picture,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	if u.Provider == "" {
		u.Provider = ProviderLocal
	}
	if in.Password != "" {
		hash, err := pwhash.HashPassword(in.Password)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}

	return s.repo.Insert(ctx, u)
}

// FindByID returns the active account with the given id, or apperr.ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id string) (User, error) {
	return s.repo.FindActiveByID(ctx, id)
}

// FindByEmail returns the active account with the given email, or apperr.ErrNotFound.
func (s *Service) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindActiveByEmail(ctx, email)
}

// FindByEmailAndProvider returns the active account matching both fields.
func (s *Service) FindByEmailAndProvider(ctx context.Context, email, provider string) (User, error) {
	return s.repo.FindActiveByEmailAndProvider(ctx, email, provider)
}

// FindByUsername returns the active account with the given username.
func (s *Service) FindByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.FindActiveByUsername(ctx, username)
}

// FindAll returns every active account.
func (s *Service) FindAll(ctx context.Context) ([]User, error) {
	return s.repo.FindAllActive(ctx)
}

// Update applies a partial profile update to the active account with the given
// id. Email and username changes are re-checked for uniqueness. Password
// changes are not possible through this path.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.repo.FindActiveByEmail(ctx, *in.Email); err == nil {
			return User{}, fmt.Errorf("%w: this email is already in use", apperr.ErrConflict)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return User{}, err
		}
		u.Email = *in.Email
	}
	if in.Username != nil && *in.Username != u.Username {
		if _, err := s.repo.FindActiveByUsername(ctx, *in.Username); err == nil {
			return User{}, fmt.Errorf("%w: this username is already in use", apperr.ErrConflict)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return User{}, err
		}
		u.Username = *in.Username
	}
	if in.Picture != nil {
		u.Picture = *in.Picture
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}

	return s.repo.Save(ctx, u)
}

// ChangePassword verifies the current password and stores a fresh hash of the
// new one. A wrong current password reports a conflict, matching the HTTP
// mapping the dashboard expects.
func (s *Service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (User, error) {
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if !pwhash.VerifyPassword(currentPassword, u.PasswordHash) {
		return User{}, fmt.Errorf("%w: current password is incorrect", apperr.ErrConflict)
	}

	hash, err := pwhash.HashPassword(newPassword)
	if err != nil {
		return User{}, err
	}
	u.PasswordHash = hash

	return s.repo.Save(ctx, u)
}

// Deactivate soft-deletes the account: it stays stored but becomes invisible
// to the active-scoped lookups until the retention cleaner purges it.
func (s *Service) Deactivate(ctx context.Context, id string) (User, error) {
	u, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	now := time.Now()
	u.IsActive = false
	u.DeactivatedAt = &now

	return s.repo.Save(ctx, u)
}

// DeleteInactiveOlderThan permanently removes accounts deactivated more than
// the given number of days ago and returns how many were removed.
func (s *Service) DeleteInactiveOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	inactive, err := s.repo.FindAllInactive(ctx)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, u := range inactive {
		if u.DeactivatedAt != nil && u.DeactivatedAt.Before(cutoff) {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	return s.repo.Remove(ctx, ids)
}

// DeleteAllInactive permanently removes every soft-deleted account regardless
// of age. Administrative operation, never run on a schedule.
func (s *Service) DeleteAllInactive(ctx context.Context) (int, error) {
	inactive, err := s.repo.FindAllInactive(ctx)
	if err != nil {
		return 0, err
	}
	if len(inactive) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(inactive))
	for _, u := range inactive {
		ids = append(ids, u.ID)
	}

	return s.repo.Remove(ctx, ids)
}

// ValidateCredentials looks up the active account by email and verifies the
// password. It reports only "match" or "no match": callers cannot tell an
// unknown email apart from a wrong password.
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) (User, bool) {
	u, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		return User{}, false
	}
	if u.PasswordHash == "" || !pwhash.VerifyPassword(password, u.PasswordHash) {
		return User{}, false
	}
	return u, true
}

// Package auth implements the session identity model: password hashing, the
// stateless signed-token contract, OAuth profile resolution, and the
// orchestrator composing them over the account store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
	"github.com/Le0Vieir4/Weather-io/internal/user"
)

// RegisterInput carries local registration fields, shape-validated upstream.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Response is returned by register and login: the public account plus a token.
type Response struct {
	User        user.Public `json:"user"`
	AccessToken string      `json:"access_token"`
}

// Identity is the resolved principal behind a valid token. Local identities
// are store-backed; OAuth identities exist only inside the token.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Picture   string `json:"picture,omitempty"`
	Provider  string `json:"provider"`
	IsOAuth   bool   `json:"isOAuth,omitempty"`
}

// Service orchestrates registration, login, OAuth federation, and token
// validation. It holds no session state: the token is the session.
type Service struct {
	users    *user.Service
	issuer   *Issuer
	tokenTTL time.Duration
}

// NewService wires the orchestrator to the account service and token issuer.
func NewService(users *user.Service, issuer *Issuer, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{users: users, issuer: issuer, tokenTTL: tokenTTL}
}

// Register creates a local account and issues its first token. Uniqueness
// conflicts propagate unchanged (so the caller learns which field collided);
// any other failure is reported as a generic registration conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Response, error) {
	u, err := s.users.Create(ctx, user.CreateInput{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("%w: registration failed", apperr.ErrConflict)
	}

	return s.respond(u)
}

// Login exchanges local credentials for a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Response, error) {
	u, ok := s.users.ValidateCredentials(ctx, email, password)
	if !ok {
		return Response{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	return s.respond(u)
}

func (s *Service) respond(u user.User) (Response, error) {
	token, err := s.issuer.Issue(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: u.ID},
		Email:            u.Email,
	}, s.tokenTTL)
	if err != nil {
		return Response{}, err
	}
	return Response{User: u.Public(), AccessToken: token}, nil
}

// LoginWithOAuth issues a token directly from the resolved provider profile.
// No account is read or written: OAuth identities are token-only and live
// exactly as long as the token does.
func (s *Service) LoginWithOAuth(profile Profile) (string, error) {
	return s.issuer.Issue(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: profile.Provider + "-" + profile.Email,
		},
		Email:     profile.Email,
		IsOAuth:   true,
		Provider:  profile.Provider,
		Username:  profile.Username,
		Picture:   profile.Picture,
		FirstName: profile.GivenName,
		LastName:  profile.FamilyName,
	}, s.tokenTTL)
}

// ValidateToken verifies the token and resolves the principal behind it.
// OAuth claims are trusted as-is; local claims are re-resolved against the
// account store and fail when the account is gone or deactivated.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (Identity, error) {
	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		return Identity{}, err
	}

	if claims.IsOAuth {
		return Identity{
			ID:        claims.Subject,
			Email:     claims.Email,
			Username:  claims.Username,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Picture:   claims.Picture,
			Provider:  claims.Provider,
			IsOAuth:   true,
		}, nil
	}

	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: user not found", apperr.ErrUnauthorized)
	}
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Picture:   u.Picture,
		Provider:  u.Provider,
	}, nil
}

// Logout is a no-op on the server: tokens are stateless and cannot be revoked,
// logging out is purely a client-side token discard.
func (s *Service) Logout() {}

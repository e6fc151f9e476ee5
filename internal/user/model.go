// Package user owns account records and their lifecycle: active accounts are
// visible to normal lookups, deactivation soft-deletes them, and the retention
// cleaner permanently removes accounts deactivated past the retention window.
package user

import (
	"strings"
	"time"
)

// Provider tags identifying how an account was created.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGithub = "github"
)

// User is an account record. PasswordHash never leaves the user package;
// HTTP responses are built from Public().
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Provider      string     `json:"provider"`
	PasswordHash  string     `json:"-"`
	Picture       string     `json:"picture,omitempty"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	IsActive      bool       `json:"isActive"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FullName joins first and last name, trimming when either is empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Public is the account shape exposed over HTTP. It never carries the password hash.
type Public struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	Picture   string    `json:"picture,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the externally visible view of the account.
func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Provider:  u.Provider,
		Picture:   u.Picture,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CreateInput carries the fields accepted at registration time.
// Password arrives in plaintext and is hashed exactly once before persistence.
type CreateInput struct {
	Username  string
	Email     string
	Password  string
	Provider  string
	Picture   string
	FirstName string
	LastName  string
}

// UpdateInput carries the fields a profile update may change. Nil pointers
// leave the field untouched. There is deliberately no password field here;
// password changes go through ChangePassword only.
type UpdateInput struct {
	Username  *string
	Email     *string
	Picture   *string
	FirstName *string
	LastName  *string
}

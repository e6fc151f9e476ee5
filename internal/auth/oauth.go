package auth

import "context"

// Profile is the normalized, already-authenticated identity resolved from an
// OAuth provider. The orchestrator treats it as opaque input: it is turned
// into a token and never persisted as an account.
type Profile struct {
	Email      string
	Username   string
	Picture    string
	Provider   string
	GivenName  string
	FamilyName string
}

// OAuthProvider abstracts one federated identity source (Google, GitHub).
type OAuthProvider interface {
	// Name returns the provider tag embedded in tokens ("google", "github").
	Name() string

	// AuthURL builds the provider's authorization URL carrying the state token.
	AuthURL(state string) string

	// ResolveProfile exchanges the callback code for a normalized profile.
	ResolveProfile(ctx context.Context, code string) (Profile, error)
}

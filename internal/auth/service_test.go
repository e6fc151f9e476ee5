package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
	"github.com/Le0Vieir4/Weather-io/internal/user"
)

func newAuthService(t *testing.T) (*Service, *user.Service) {
	t.Helper()
	users := user.NewService(user.NewMemoryRepository())
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)
	return NewService(users, issuer, time.Hour), users
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, user.ProviderLocal, resp.User.Provider)

	// The issued token resolves back to the stored account.
	id, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id.ID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.False(t, id.IsOAuth)
}

func TestRegisterDuplicatePropagatesConflict(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "a@x.com", Password: "pw123456"})
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "email")
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	// Wrong password and unknown email return the same error.
	_, errWrong := svc.Login(ctx, "a@x.com", "nope")
	_, errUnknown := svc.Login(ctx, "nobody@x.com", "pw123456")
	require.ErrorIs(t, errWrong, apperr.ErrUnauthorized)
	require.ErrorIs(t, errUnknown, apperr.ErrUnauthorized)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLoginWithOAuthLeavesNoStoreFootprint(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	token, err := svc.LoginWithOAuth(Profile{
		Email:      "o@x.com",
		Username:   "oauth-user",
		Picture:    "https://pics/o.png",
		Provider:   user.ProviderGoogle,
		GivenName:  "Olive",
		FamilyName: "Oak",
	})
	require.NoError(t, err)

	id, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "google-o@x.com", id.ID)
	assert.Equal(t, "o@x.com", id.Email)
	assert.Equal(t, user.ProviderGoogle, id.Provider)
	assert.True(t, id.IsOAuth)
	assert.Equal(t, "Olive", id.FirstName)

	// The federation never touched the account store.
	_, err = users.FindByEmail(ctx, "o@x.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestValidateTokenDeactivatedUser(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = users.Deactivate(ctx, resp.User.ID)
	require.NoError(t, err)

	// A still-unexpired token dies with the account it points at.
	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _ := newAuthService(t)

	for _, tok := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		_, err := svc.ValidateToken(context.Background(), tok)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized, "token %q", tok)
	}
}

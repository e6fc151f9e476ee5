package httpapi

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
	"github.com/Le0Vieir4/Weather-io/internal/auth"
)

const identityKey = "identity"

// RequireAuth validates the bearer token and stores the resolved identity in
// the request locals. Missing or invalid tokens fail with 401.
func RequireAuth(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}

		identity, err := authSvc.ValidateToken(c.Context(), token)
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth.
func CurrentIdentity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized)
	}
	return parts[1], nil
}

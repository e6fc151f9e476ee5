// Package httpapi wires the HTTP handlers into the Fiber app and maps the
// application error taxonomy onto status codes. It shape-validates request
// DTOs at the boundary; business invariants live in the services.
package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Le0Vieir4/Weather-io/internal/apperr"
	"github.com/Le0Vieir4/Weather-io/internal/auth"
	"github.com/Le0Vieir4/Weather-io/internal/user"
	"github.com/Le0Vieir4/Weather-io/internal/weatherlog"
)

var validate = validator.New()

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Auth        *auth.Service
	Users       *user.Service
	Weather     *weatherlog.Service
	Cleaner     *user.Cleaner
	Providers   []auth.OAuthProvider
	FrontendURL string
}

// RegisterRoutes wires all handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	registerAuthRoutes(app, deps)
	registerUserRoutes(app, deps)
	registerWeatherRoutes(app, deps)
}

// ErrorHandler is the centralized Fiber error handler translating the error
// taxonomy: conflict → 409, not found → 404, unauthorized → 401, rest → 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, apperr.ErrConflict):
		code = fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		code = fiber.StatusUnauthorized
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

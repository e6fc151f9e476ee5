package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Le0Vieir4/Weather-io/internal/auth"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=20"`
	Password  string `json:"password" validate:"required,min=8,max=32"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

const oauthStateCookie = "oauth_state"

func registerAuthRoutes(app *fiber.App, deps Deps) {
	grp := app.Group("/auth")

	grp.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := deps.Auth.Register(c.Context(), auth.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	})

	grp.Post("/login", func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := deps.Auth.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	})

	grp.Get("/profile", RequireAuth(deps.Auth), func(c *fiber.Ctx) error {
		identity, _ := CurrentIdentity(c)
		return c.JSON(identity)
	})

	grp.Post("/logout", func(c *fiber.Ctx) error {
		// Tokens are stateless; logout is a client-side discard.
		deps.Auth.Logout()
		return c.JSON(fiber.Map{"message": "logged out"})
	})

	for _, p := range deps.Providers {
		registerOAuthRoutes(grp, deps, p)
	}
}

// registerOAuthRoutes wires the redirect and callback endpoints for one
// provider. The state token round-trips through a short-lived cookie.
func registerOAuthRoutes(grp fiber.Router, deps Deps, provider auth.OAuthProvider) {
	name := provider.Name()

	grp.Get("/"+name, func(c *fiber.Ctx) error {
		state := uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
		})
		return c.Redirect(provider.AuthURL(state), fiber.StatusTemporaryRedirect)
	})

	grp.Get("/"+name+"/callback", func(c *fiber.Ctx) error {
		failure := deps.FrontendURL + "/login?error=" + name + "_auth_failed"

		code := c.Query("code")
		state := c.Query("state")
		if code == "" || state == "" || state != c.Cookies(oauthStateCookie) {
			return c.Redirect(failure, fiber.StatusTemporaryRedirect)
		}
		c.ClearCookie(oauthStateCookie)

		profile, err := provider.ResolveProfile(c.Context(), code)
		if err != nil {
			return c.Redirect(failure, fiber.StatusTemporaryRedirect)
		}

		token, err := deps.Auth.LoginWithOAuth(profile)
		if err != nil {
			return c.Redirect(failure, fiber.StatusTemporaryRedirect)
		}

		return c.Redirect(
			deps.FrontendURL+"/auth/"+name+"/callback?token="+token,
			fiber.StatusTemporaryRedirect,
		)
	})
}

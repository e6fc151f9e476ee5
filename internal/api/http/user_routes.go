package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Le0Vieir4/Weather-io/internal/user"
)

type updateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=20"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Picture   *string `json:"picture"`
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=32"`
}

func registerUserRoutes(app *fiber.App, deps Deps) {
	grp := app.Group("/users")

	grp.Get("/", func(c *fiber.Ctx) error {
		users, err := deps.Users.FindAll(c.Context())
		if err != nil {
			return err
		}
		out := make([]user.Public, 0, len(users))
		for _, u := range users {
			out = append(out, u.Public())
		}
		return c.JSON(out)
	})

	// Cleanup routes are registered before /:id so the literal path wins.
	grp.Post("/cleanup/inactive", func(c *fiber.Ctx) error {
		deleted, err := deps.Cleaner.RunNow(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"deleted": deleted,
			"message": fmt.Sprintf("%d inactive user(s) permanently deleted", deleted),
		})
	})

	grp.Delete("/cleanup/all-inactive", func(c *fiber.Ctx) error {
		deleted, err := deps.Users.DeleteAllInactive(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"deleted": deleted,
			"message": fmt.Sprintf("%d inactive user(s) deleted", deleted),
		})
	})

	grp.Get("/:id", func(c *fiber.Ctx) error {
		u, err := deps.Users.FindByID(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(u.Public())
	})

	grp.Patch("/:id/password", RequireAuth(deps.Auth), func(c *fiber.Ctx) error {
		if err := requireOwner(c); err != nil {
			return err
		}

		var req changePasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		u, err := deps.Users.ChangePassword(c.Context(), c.Params("id"), req.CurrentPassword, req.NewPassword)
		if err != nil {
			return err
		}
		return c.JSON(u.Public())
	})

	grp.Patch("/:id", RequireAuth(deps.Auth), func(c *fiber.Ctx) error {
		if err := requireOwner(c); err != nil {
			return err
		}

		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		u, err := deps.Users.Update(c.Context(), c.Params("id"), user.UpdateInput{
			Username:  req.Username,
			Email:     req.Email,
			Picture:   req.Picture,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return err
		}
		return c.JSON(u.Public())
	})

	grp.Delete("/:id", RequireAuth(deps.Auth), func(c *fiber.Ctx) error {
		if err := requireOwner(c); err != nil {
			return err
		}

		u, err := deps.Users.Deactivate(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(u.Public())
	})
}

// requireOwner ensures the authenticated identity is operating on its own account.
func requireOwner(c *fiber.Ctx) error {
	identity, ok := CurrentIdentity(c)
	if !ok || identity.ID != c.Params("id") {
		return fiber.NewError(fiber.StatusForbidden, "you can only manage your own account")
	}
	return nil
}

package rest

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bulkRequest struct {
	UserIDs []int64 `json:"userIds"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    *users.User `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	users *users.Service
	store Pinger
}

// register handles POST /auth/register.
func (h *handlers) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidPayload)
	}

	_, err := h.users.Register(c.UserContext(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrMissingFields):
		return fiber.NewError(fiber.StatusBadRequest, msgMissingFields)
	case errors.Is(err, common.ErrorAlreadyExists):
		return fiber.NewError(fiber.StatusConflict, msgEmailTaken)
	case err != nil:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Success: true,
		Message: "Registration successful. Please check your email to verify your account.",
	})
}

// login handles POST /auth/login.
func (h *handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidPayload)
	}

	token, user, err := h.users.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrMissingFields):
		return fiber.NewError(fiber.StatusBadRequest, msgMissingLogin)
	case errors.Is(err, common.ErrorUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, msgBadCredentials)
	case errors.Is(err, common.ErrorForbidden):
		return fiber.NewError(fiber.StatusForbidden, msgBlocked)
	case err != nil:
		return err
	}

	return c.JSON(authResponse{Success: true, Token: token, User: user})
}

// verify handles GET /auth/verify/:id.
func (h *handlers) verify(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidID)
	}

	if err := h.users.Verify(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(authResponse{Success: true, Message: "Email verified successfully"})
}

// list handles GET /users.
func (h *handlers) list(c *fiber.Ctx) error {
	all, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": all})
}

// bulk adapts a Service bulk operation to POST /users/<action>.
func (h *handlers) bulk(op func(ctx context.Context, ids []int64) (int, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, msgInvalidPayload)
		}

		n, err := op(c.UserContext(), req.UserIDs)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// deleteUnverified handles POST /users/delete-unverified.
func (h *handlers) deleteUnverified(c *fiber.Ctx) error {
	n, err := h.users.DeleteUnverified(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": n})
}

// health handles GET /health.
func (h *handlers) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "store unavailable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

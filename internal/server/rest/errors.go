package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

const (
	msgMissingFields  = "Name, email and password are required"
	msgMissingLogin   = "Email and password are required"
	msgEmailTaken     = "Email already exists"
	msgBadCredentials = "Invalid email or password"
	msgBlocked        = "Your account has been blocked"
	msgUserNotFound   = "User not found"
	msgInvalidID      = "Invalid user id"
	msgNoUserIDs      = "userIds must be a non-empty array"
	msgInvalidPayload = "Invalid request body"
	msgUnauthorized   = "Authentication required"
	msgInternal       = "Internal server error"
)

// errorHandler renders every error as {"error": message}. Unknown errors
// become a 500 and are logged; the client only sees a generic message.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := fiber.StatusInternalServerError, msgInternal

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status, msg = fe.Code, fe.Message
		case errors.Is(err, users.ErrNoUsers):
			status, msg = fiber.StatusBadRequest, msgNoUserIDs
		case errors.Is(err, common.ErrorNotFound):
			status, msg = fiber.StatusNotFound, msgUserNotFound
		case errors.Is(err, common.ErrorUnauthorized):
			status, msg = fiber.StatusUnauthorized, msgUnauthorized
		case errors.Is(err, common.ErrorForbidden):
			status, msg = fiber.StatusForbidden, msgBlocked
		}

		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}

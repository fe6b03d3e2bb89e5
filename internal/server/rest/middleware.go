package rest

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/rosterctl/internal/common"
	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

const userKey = "auth_user"

// recoverMiddleware turns a handler panic into a 500.
func recoverMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = fiber.NewError(fiber.StatusInternalServerError, msgInternal)
			}
		}()
		return c.Next()
	}
}

// requestLogger echoes or assigns X-Request-ID and logs one line per request.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(common.RequestIDHeaderName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(common.RequestIDHeaderName, reqID)

		// Render errors here so the logged status is the one sent.
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()

		logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)))

		return nil
	}
}

// authMiddleware admits requests carrying a valid bearer token of an
// existing, non-blocked account and stores that account in Locals.
func authMiddleware(svc *users.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(common.AuthorizationHeaderName)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, msgUnauthorized)
		}

		user, err := svc.Authorize(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// UserFromContext returns the caller resolved by the auth middleware.
func UserFromContext(c *fiber.Ctx) (*users.User, bool) {
	u, ok := c.Locals(userKey).(*users.User)
	return u, ok
}

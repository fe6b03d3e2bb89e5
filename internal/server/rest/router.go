// Package rest is the sandbox's REST API: the directory contract the
// console talks to, served with fiber under /api.
package rest

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

// NewApp builds the fiber application with all routes and middlewares.
func NewApp(logger *zap.Logger, svc *users.Service, store Pinger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "rosterctl-sandbox",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(requestLogger(logger))
	app.Use(recoverMiddleware(logger))

	h := &handlers{users: svc, store: store}

	api := app.Group("/api")
	api.Get("/health", h.health)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", h.register)
	authGroup.Post("/login", h.login)
	authGroup.Get("/verify/:id", h.verify)

	usersGroup := api.Group("/users", authMiddleware(svc))
	usersGroup.Get("", h.list)
	usersGroup.Post("/block", h.bulk(svc.Block))
	usersGroup.Post("/unblock", h.bulk(svc.Unblock))
	usersGroup.Post("/delete", h.bulk(svc.Delete))
	usersGroup.Post("/delete-unverified", h.deleteUnverified)

	return app
}

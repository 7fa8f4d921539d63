// Package handlers wires the HTTP routes to the session store, the resource
// stores and the order workflow engine. All dependencies are injected through
// the Handlers struct; nothing reaches into globals.
package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"guevara/ai"
	"guevara/audit"
	"guevara/config"
	"guevara/session"
	"guevara/store"
	"guevara/upstream"
	"guevara/workflow"
)

// Handlers carries the injected application dependencies.
type Handlers struct {
	Config   *config.Config
	Sessions *session.Store
	Client   *upstream.Client
	Store    *store.Store
	Engine   *workflow.Engine
	Audit    *audit.Logger
	AI       *ai.Service
}

// ErrorHandler is the app-wide Fiber error handler. A session rejected by the
// backend (any endpoint, any resource) clears the cookie and redirects to the
// login entry exactly once; every other upstream error passes through with
// its own status and message for local display.
func (h *Handlers) ErrorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, upstream.ErrUnauthorized) {
		h.Sessions.Clear(c)
		return c.Redirect("/", fiber.StatusFound)
	}

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return c.Status(statusErr.Code).JSON(fiber.Map{"status": "error", "message": statusErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"status": "error", "message": fiberErr.Message})
	}

	log.Printf("unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Internal server error"})
}

// HandleEntry is the login entry point. The guard has already bounced
// signed-in admins to the dashboard.
func (h *Handlers) HandleEntry(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "Guevara admin — sign in required"})
}

func (h *Handlers) token(c *fiber.Ctx) string {
	return h.Sessions.Token(c)
}

// canServeStale reports whether a failed refetch may fall back to the cached
// copy. A session rejected by the backend never falls back: the error must
// reach ErrorHandler so the cookie is cleared and the admin lands back on the
// login entry instead of browsing stale data on a dead session.
func canServeStale(err error) bool {
	return !errors.Is(err, upstream.ErrUnauthorized)
}

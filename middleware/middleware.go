package middleware

import (
	"github.com/gofiber/fiber/v2"

	"guevara/session"
)

// Guard gates routes on session presence. It is evaluated on every request,
// so a cleared or expired cookie takes effect on the next navigation.
type Guard struct {
	Sessions *session.Store
}

// RequireSession redirects unauthenticated requests to the login entry.
func (g *Guard) RequireSession(c *fiber.Ctx) error {
	if !g.Sessions.IsAuthenticated(c) {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Next()
}

// RedirectIfAuthenticated sends an already-signed-in admin from the login
// entry to the dashboard.
func (g *Guard) RedirectIfAuthenticated(c *fiber.Ctx) error {
	if g.Sessions.IsAuthenticated(c) {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.Next()
}

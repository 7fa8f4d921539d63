package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"guevara/models"
)

// HandleLogin authenticates against the backend and stores the session.
// POST /api/v1/auth/login
func (h *Handlers) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email and password are required"})
	}

	// No token on the login call: a 401 here is bad credentials, shown on the
	// form, not a session expiry.
	var resp models.LoginResponse
	if err := h.Client.PostJSON(c.Context(), "", "/auth/login", req, &resp); err != nil {
		return err
	}
	if resp.Token.AccessToken == "" {
		log.Printf("login for %s returned no access token", req.Email)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Login response missing token"})
	}

	if err := h.Sessions.Set(c, resp.Token.AccessToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "redirect": "/dashboard"})
}

// HandleLogout clears the session and returns to the login entry.
// POST /api/v1/auth/logout
func (h *Handlers) HandleLogout(c *fiber.Ctx) error {
	h.Sessions.Clear(c)
	return c.Redirect("/", fiber.StatusFound)
}

// HandleChangePassword forwards a password change for the signed-in admin.
// PATCH /api/v1/auth/change-password
func (h *Handlers) HandleChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Both passwords are required"})
	}

	if err := h.Client.PatchJSON(c.Context(), h.token(c), "/auth/change-password", req, nil); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleForgotPassword starts the OTP reset flow.
// POST /api/v1/auth/forgot-password
func (h *Handlers) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email is required"})
	}

	if err := h.Client.PostJSON(c.Context(), "", "/auth/forgot-password", req, nil); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleResetPassword completes the OTP reset flow.
// PATCH /api/v1/auth/reset-password
func (h *Handlers) HandleResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email, OTP and new password are required"})
	}

	if err := h.Client.PatchJSON(c.Context(), "", "/auth/reset-password", req, nil); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success"})
}

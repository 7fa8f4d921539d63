package routes

import (
	"github.com/gofiber/fiber/v2"

	"guevara/handlers"
	"guevara/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handlers, guard *middleware.Guard) {
	// Login entry. A live session skips straight to the dashboard.
	app.Get("/", guard.RedirectIfAuthenticated, h.HandleEntry)

	// Protected views.
	app.Get("/dashboard", guard.RequireSession, h.HandleDashboard)
	app.Get("/products", guard.RequireSession, h.HandleListProducts)
	app.Get("/categories", guard.RequireSession, h.HandleListCategories)
	app.Get("/history", guard.RequireSession, h.HandleHistory)

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", h.HandleLogin)
	auth.Post("/forgot-password", h.HandleForgotPassword)
	auth.Patch("/reset-password", h.HandleResetPassword)
	auth.Post("/logout", guard.RequireSession, h.HandleLogout)
	auth.Patch("/change-password", guard.RequireSession, h.HandleChangePassword)

	// --- Catalog Routes ---
	category := api.Group("/category", guard.RequireSession)
	category.Get("/companies", h.HandleListCompanies)
	category.Post("/", h.HandleCreateCategory)
	category.Patch("/:id", h.HandleUpdateCategory)
	category.Delete("/:id", h.HandleDeleteCategory)

	product := api.Group("/product", guard.RequireSession)
	product.Post("/", h.HandleCreateProduct)
	product.Patch("/:id", h.HandleUpdateProduct)
	product.Delete("/:id", h.HandleDeleteProduct)

	// --- Order Workflow Routes ---
	order := api.Group("/order", guard.RequireSession)
	order.Post("/:id/accept", h.HandleAcceptOrder)
	order.Post("/:id/reject", h.HandleRejectOrder)
	order.Post("/:id/confirm", h.HandleConfirmOrder)
	order.Post("/:id/delete", h.HandleDeleteOrder)

	// --- Report Routes ---
	reports := api.Group("/reports", guard.RequireSession)
	reports.Get("/monthly", h.HandleReportStatus)
	reports.Post("/monthly", h.HandleGenerateReport)
}

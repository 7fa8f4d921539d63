package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"guevara/models"
	"guevara/workflow"
)

// HandleDashboard serves the dashboard view data: the per-status counters
// and the active order list.
// GET /dashboard
func (h *Handlers) HandleDashboard(c *fiber.Ctx) error {
	token := h.token(c)

	stale := false
	summary, err := h.Store.StatusSummary(c.Context(), token)
	if err != nil {
		if summary == nil || !canServeStale(err) {
			return err
		}
		stale = true
	}
	orders, err := h.Store.ActiveOrders(c.Context(), token)
	if err != nil {
		if orders == nil || !canServeStale(err) {
			return err
		}
		stale = true
	}

	response := fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"statusSummary": summary,
			"activeOrders":  orders,
		},
	}
	if stale {
		response["stale"] = true
	}
	return c.JSON(response)
}

// HandleHistory serves closed orders with search and an incrementally
// growing limit (?search=&limit=).
// GET /history
func (h *Handlers) HandleHistory(c *fiber.Ctx) error {
	orders, pagination, err := h.Store.HistoryOrders(c.Context(), h.token(c), c.Query("search"), c.QueryInt("limit"))
	if err != nil {
		if orders == nil || !canServeStale(err) {
			return err
		}
		return c.JSON(fiber.Map{
			"status":     "success",
			"stale":      true,
			"data":       orders,
			"pagination": pagination,
		})
	}
	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       orders,
		"pagination": pagination,
	})
}

// HandleAcceptOrder moves a pending order to In Progress and hands the
// WhatsApp link back for the browser to open.
// POST /api/v1/order/:id/accept
func (h *Handlers) HandleAcceptOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}
	result, err := h.Engine.Accept(c.Context(), h.token(c), order)
	return h.transitionResponse(c, result, err)
}

// HandleRejectOrder moves a pending order to Rejected; the optional reason
// goes into the customer notification.
// POST /api/v1/order/:id/reject
func (h *Handlers) HandleRejectOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// The reason is optional; an empty body is fine.
	_ = c.BodyParser(&body)

	result, err := h.Engine.Reject(c.Context(), h.token(c), order, body.Reason)
	return h.transitionResponse(c, result, err)
}

// HandleConfirmOrder marks an in-progress order as Delivered.
// POST /api/v1/order/:id/confirm
func (h *Handlers) HandleConfirmOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}
	result, err := h.Engine.Confirm(c.Context(), h.token(c), order)
	return h.transitionResponse(c, result, err)
}

// HandleDeleteOrder soft-deletes an order from the active view.
// POST /api/v1/order/:id/delete
func (h *Handlers) HandleDeleteOrder(c *fiber.Ctx) error {
	order, err := h.findOrder(c)
	if err != nil {
		return err
	}
	result, err := h.Engine.Delete(c.Context(), h.token(c), order)
	return h.transitionResponse(c, result, err)
}

// findOrder resolves the :id route param against the cached order list.
func (h *Handlers) findOrder(c *fiber.Ctx) (models.Order, error) {
	orders, err := h.Store.Orders(c.Context(), h.token(c))
	if err != nil && (orders == nil || !canServeStale(err)) {
		return models.Order{}, err
	}

	id := c.Params("id")
	for _, order := range orders {
		if order.ID == id {
			return order, nil
		}
	}
	return models.Order{}, fiber.NewError(fiber.StatusNotFound, "Order not found")
}

func (h *Handlers) transitionResponse(c *fiber.Ctx, result *workflow.Result, err error) error {
	if errors.Is(err, workflow.ErrInvalidTransition) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"status": "error", "message": "Order status does not allow this action"})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "data": result})
}

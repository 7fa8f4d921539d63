// Package workflow is the order lifecycle engine. Transitions are gated on
// the order's current status, mutate it through the order store, and may
// dispatch a fire-and-forget customer notification afterwards. Canceled and
// Deleted orders are display-only: nothing here transitions out of them.
package workflow

import (
	"context"
	"errors"
	"log"

	"guevara/audit"
	"guevara/models"
	"guevara/store"
)

// ErrInvalidTransition means the order's current status does not permit the
// requested transition. No network call is made.
var ErrInvalidTransition = errors.New("workflow: transition not allowed for current status")

// Result describes a completed transition. NotifyURL is set for the
// transitions that message the customer; the browser opens it.
type Result struct {
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
	NotifyURL string             `json:"notifyUrl,omitempty"`
}

// Engine runs order transitions against the store.
type Engine struct {
	store    *store.Store
	notifier Notifier
	audit    *audit.Logger
}

// New creates an engine. notifier may be nil for no notifications; audit may
// be nil when the trail is disabled.
func New(s *store.Store, notifier Notifier, auditLog *audit.Logger) *Engine {
	return &Engine{store: s, notifier: notifier, audit: auditLog}
}

// Accept moves a pending order to In Progress and notifies the customer.
func (e *Engine) Accept(ctx context.Context, token string, order models.Order) (*Result, error) {
	if !order.Status.CanAccept() {
		return nil, ErrInvalidTransition
	}
	if err := e.store.MarkInProgress(ctx, token, order.ID); err != nil {
		return nil, err
	}

	e.record(ctx, "order.accept", order, nil)
	link := NotificationURL(order.Phone, AcceptanceMessage(order))
	e.notify(order, link)
	return &Result{OrderID: order.ID, Status: models.StatusInProgress, NotifyURL: link}, nil
}

// Reject moves a pending order to Rejected, with an optional free-text
// reason included in the customer notification.
func (e *Engine) Reject(ctx context.Context, token string, order models.Order, reason string) (*Result, error) {
	if !order.Status.CanReject() {
		return nil, ErrInvalidTransition
	}
	if err := e.store.MarkRejected(ctx, token, order.ID); err != nil {
		return nil, err
	}

	e.record(ctx, "order.reject", order, models.JSONB{"reason": reason})
	link := NotificationURL(order.Phone, RejectionMessage(order, reason))
	e.notify(order, link)
	return &Result{OrderID: order.ID, Status: models.StatusRejected, NotifyURL: link}, nil
}

// Confirm marks an in-progress order as Delivered. No customer notification
// is sent for delivery.
func (e *Engine) Confirm(ctx context.Context, token string, order models.Order) (*Result, error) {
	if !order.Status.CanConfirm() {
		return nil, ErrInvalidTransition
	}
	if err := e.store.MarkDelivered(ctx, token, order.ID); err != nil {
		return nil, err
	}

	e.record(ctx, "order.confirm", order, nil)
	return &Result{OrderID: order.ID, Status: models.StatusDelivered}, nil
}

// Delete soft-deletes an order out of the active view.
func (e *Engine) Delete(ctx context.Context, token string, order models.Order) (*Result, error) {
	if !order.Status.CanDelete() {
		return nil, ErrInvalidTransition
	}
	if err := e.store.MarkDeleted(ctx, token, order.ID); err != nil {
		return nil, err
	}

	e.record(ctx, "order.delete", order, nil)
	return &Result{OrderID: order.ID, Status: models.StatusDeleted}, nil
}

// notify runs the post-transition hook. A failed notification is logged and
// dropped; the transition already happened.
func (e *Engine) notify(order models.Order, link string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(order, link); err != nil {
		log.Printf("order %s: notification failed: %v", order.OrderID, err)
	}
}

func (e *Engine) record(ctx context.Context, action string, order models.Order, detail models.JSONB) {
	e.audit.Record(ctx, action, "order", order.ID, detail)
}

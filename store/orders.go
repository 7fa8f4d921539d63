package store

import (
	"context"

	"guevara/models"
	"guevara/utils"
)

// Orders fetches the full order collection, cached.
func (s *Store) Orders(ctx context.Context, token string) ([]models.Order, error) {
	return get(ctx, s, RegionOrders, func(ctx context.Context) ([]models.Order, error) {
		var orders []models.Order
		if err := s.client.GetJSON(ctx, token, "/order/all-orders", &orders); err != nil {
			return nil, err
		}
		return orders, nil
	})
}

// ActiveOrders returns the dashboard's working set: everything except
// delivered and rejected orders. A stale copy surviving a failed refetch is
// filtered the same way and returned alongside the error.
func (s *Store) ActiveOrders(ctx context.Context, token string) ([]models.Order, error) {
	orders, err := s.Orders(ctx, token)
	if orders == nil {
		return nil, err
	}

	active := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status.OnDashboard() {
			active = append(active, order)
		}
	}
	return active, err
}

// HistoryOrders returns closed orders (delivered, rejected or deleted)
// matching the search term, sliced to limit. Search is a case-insensitive
// substring match over the customer name and the human-readable order id;
// pagination is fetch-all-then-slice with a growing limit, not server-side.
func (s *Store) HistoryOrders(ctx context.Context, token, search string, limit int) ([]models.Order, *utils.Pagination, error) {
	orders, err := s.Orders(ctx, token)
	if orders == nil {
		return nil, nil, err
	}

	matched := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if !order.Status.IsHistory() {
			continue
		}
		if utils.ContainsFold(order.ShippingName, search) || utils.ContainsFold(order.OrderID, search) {
			matched = append(matched, order)
		}
	}

	limit = utils.GrowLimit(limit, 10, len(matched))
	return matched[:limit], utils.CreatePagination(len(matched), 1, limit), err
}

// StatusSummary fetches the backend's per-status order counts, cached in its
// own region so order mutations force a recount.
func (s *Store) StatusSummary(ctx context.Context, token string) ([]models.StatusCount, error) {
	return get(ctx, s, RegionStatus, func(ctx context.Context) ([]models.StatusCount, error) {
		var counts []models.StatusCount
		if err := s.client.GetJSON(ctx, token, "/order/status-of-each-order", &counts); err != nil {
			return nil, err
		}
		return counts, nil
	})
}

// statusUpdate is the body of every order transition endpoint.
type statusUpdate struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status"`
}

// MarkInProgress moves an order to In Progress (accept).
func (s *Store) MarkInProgress(ctx context.Context, token, id string) error {
	return s.patchStatus(ctx, token, "/order/inprogress-order", id, models.StatusInProgress)
}

// MarkRejected moves an order to Rejected.
func (s *Store) MarkRejected(ctx context.Context, token, id string) error {
	return s.patchStatus(ctx, token, "/order/reject-order", id, models.StatusRejected)
}

// MarkDelivered moves an order to Delivered (confirm).
func (s *Store) MarkDelivered(ctx context.Context, token, id string) error {
	return s.patchStatus(ctx, token, "/order/confirm-order", id, models.StatusDelivered)
}

// MarkDeleted soft-deletes an order out of the active view.
func (s *Store) MarkDeleted(ctx context.Context, token, id string) error {
	return s.patchStatus(ctx, token, "/order/delete-order", id, models.StatusDeleted)
}

func (s *Store) patchStatus(ctx context.Context, token, path, id string, status models.OrderStatus) error {
	err := s.client.PatchJSON(ctx, token, path, statusUpdate{ID: id, Status: status}, nil)
	if err != nil {
		// Failed mutations leave the cache untouched.
		return err
	}
	s.cache.Invalidate(RegionOrders)
	return nil
}

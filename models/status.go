package models

// OrderStatus is the closed set of order lifecycle states. Pending moves to
// In Progress (accept) or Rejected (reject); In Progress moves to Delivered
// (confirm). Canceled and Deleted are set outside this client and are
// terminal here.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusDelivered  OrderStatus = "Delivered"
	StatusRejected   OrderStatus = "Rejected"
	StatusCanceled   OrderStatus = "Canceled"
	StatusDeleted    OrderStatus = "Deleted"
)

// AllStatuses lists every known status, in display order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusInProgress,
	StatusDelivered,
	StatusRejected,
	StatusCanceled,
	StatusDeleted,
}

// IsValidStatus reports whether s is one of the known statuses.
func IsValidStatus(s OrderStatus) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsHistory reports whether an order with this status belongs to the history
// view. History and active partition the full order set: an order is active
// iff it is not history.
func (s OrderStatus) IsHistory() bool {
	return s == StatusDelivered || s == StatusRejected || s == StatusDeleted
}

// OnDashboard reports whether an order with this status shows on the
// dashboard's active list, which keeps Canceled and Deleted visible as
// terminal markers and hides only the closed outcomes.
func (s OrderStatus) OnDashboard() bool {
	return s != StatusDelivered && s != StatusRejected
}

// CanAccept reports whether an order may move to In Progress.
func (s OrderStatus) CanAccept() bool { return s == StatusPending }

// CanReject reports whether an order may move to Rejected.
func (s OrderStatus) CanReject() bool { return s == StatusPending }

// CanConfirm reports whether an order may move to Delivered.
func (s OrderStatus) CanConfirm() bool { return s == StatusInProgress }

// CanDelete reports whether an order may be soft-deleted from the active
// view. Already-historical orders stay as they are.
func (s OrderStatus) CanDelete() bool { return !s.IsHistory() }

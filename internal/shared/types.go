package shared

// Task types processed by the worker
const (
	TypeSweepPendingOrders = "bayarcash:sweep_pending_orders"
	TypeClearCart          = "bayarcash:clear_cart"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

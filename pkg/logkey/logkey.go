package logkey

// Shared attribute names so log queries line up across handlers and stores.
const (
	TraceID = "trace_id"
	ERROR   = "error"
	UserID  = "user_id"
	OrderID = "order_id"
)

package orders

import (
	"time"

	"pasteleria-api/internal/pricing"
)

// Order statuses, as rendered by the storefront and admin consoles.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a persisted order with its frozen discount breakdown. The
// breakdown is the engine Summary at checkout time; later cart or profile
// changes never touch it.
type Order struct {
	ID                  string          `json:"id"`
	UserID              int64           `json:"user_id"`
	Status              string          `json:"status"`
	Subtotal            float64         `json:"subtotal"`
	DiscountByAge       float64         `json:"discount_by_age"`
	DiscountByCode      float64         `json:"discount_by_code"`
	BirthdayBenefit     float64         `json:"birthday_benefit"`
	Total               float64         `json:"total"`
	Details             pricing.Details `json:"discount_details"`
	StripeTransactionID string          `json:"stripe_transaction_id,omitempty"`
	Items               []OrderItem     `json:"items"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// OrderItem is one frozen line of an order.
type OrderItem struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	MessageForCake string  `json:"message_for_cake,omitempty"`
}

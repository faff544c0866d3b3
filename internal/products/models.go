package products

import "time"

// Product is one catalog entry. Price is in CLP.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	StripePriceID string    `json:"stripe_price_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type NewProduct struct {
	Name          string  `json:"name" validate:"required,min=2"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Stock         int     `json:"stock" validate:"gte=0"`
	StripePriceID string  `json:"stripe_price_id"`
}

// ReduceStockItem is one line of a stock reduction request issued after a
// confirmed order.
type ReduceStockItem struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

package cart

// CartItem is one line of the active cart joined with its catalog entry.
type CartItem struct {
	ProductID      int64   `json:"product_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	MessageForCake string  `json:"message_for_cake,omitempty"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
}

package kafka

import "time"

const (
	TopicAccountCreated  = `pasteleria.account-created`
	TopicOrderPaid       = `pasteleria.order-paid`
	TopicContactReceived = `pasteleria.contact-received`
)

// AccountCreatedEvent is published when a customer registers.
type AccountCreatedEvent struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderPaidEvent is published once per order line after payment confirmation
// so stock consumers can decrement inventory.
type OrderPaidEvent struct {
	OrderId   string    `json:"order_id"`
	ProductId string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactReceivedEvent is published when the contact form is submitted.
type ContactReceivedEvent struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

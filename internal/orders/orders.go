package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pasteleria-api/internal/pricing"
)

var ErrNotFound = errors.New("order not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// CreateOrder persists a PENDING order with the engine summary frozen at
// checkout time, in one transaction with its lines.
func (c *Conf) CreateOrder(ctx context.Context, orderID string, userID int64, items []pricing.LineItem, summary pricing.Summary) (Order, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	order := Order{
		ID:              orderID,
		UserID:          userID,
		Status:          StatusPending,
		Subtotal:        summary.Subtotal,
		DiscountByAge:   summary.DiscountByAge,
		DiscountByCode:  summary.DiscountByCode,
		BirthdayBenefit: summary.BirthdayBenefit,
		Total:           summary.Total,
		Details:         summary.Details,
	}

	queryOrder := `
		INSERT INTO orders (id, user_id, status, subtotal, discount_by_age, discount_by_code, birthday_benefit, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, queryOrder,
		order.ID, order.UserID, order.Status, order.Subtotal,
		order.DiscountByAge, order.DiscountByCode, order.BirthdayBenefit, order.Total,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("inserting order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price, message_for_cake)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, it := range items {
		if _, err := tx.ExecContext(ctx, queryItem,
			order.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.MessageForCake,
		); err != nil {
			return Order{}, fmt.Errorf("inserting order item %d: %w", it.ProductID, err)
		}
		order.Items = append(order.Items, OrderItem{
			ProductID:      it.ProductID,
			ProductName:    it.Name,
			Quantity:       it.Quantity,
			Price:          it.UnitPrice,
			MessageForCake: it.MessageForCake,
		})
	}

	if err := tx.Commit(); err != nil {
		return Order{}, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, nil
}

// UpdateOrder sets the status (and Stripe transaction id when non-empty).
func (c *Conf) UpdateOrder(ctx context.Context, orderID, status, stripeTransactionID string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid order status %q", status)
	}
	res, err := c.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    stripe_transaction_id = CASE WHEN $2 <> '' THEN $2 ELSE stripe_transaction_id END,
		    updated_at = NOW()
		WHERE id = $3
	`, status, stripeTransactionID, orderID)
	if err != nil {
		return fmt.Errorf("updating order %s: %w", orderID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking order update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches one order with its lines.
func (c *Conf) GetByID(ctx context.Context, orderID string) (Order, error) {
	order, err := c.scanOrder(ctx, `WHERE o.id = $1`, orderID)
	if err != nil {
		return Order{}, err
	}
	if len(order) == 0 {
		return Order{}, ErrNotFound
	}
	return order[0], nil
}

// ListByUser returns a customer's orders, newest first.
func (c *Conf) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return c.scanOrder(ctx, `WHERE o.user_id = $1`, userID)
}

// ListAll returns every order, newest first.
func (c *Conf) ListAll(ctx context.Context) ([]Order, error) {
	return c.scanOrder(ctx, ``)
}

func (c *Conf) scanOrder(ctx context.Context, where string, args ...interface{}) ([]Order, error) {
	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, o.status, o.subtotal, o.discount_by_age, o.discount_by_code,
		       o.birthday_benefit, o.total, o.stripe_transaction_id, o.created_at, o.updated_at
		FROM orders o
		%s
		ORDER BY o.created_at DESC
	`, where)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.DiscountByAge, &o.DiscountByCode,
			&o.BirthdayBenefit, &o.Total, &o.StripeTransactionID, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.Details = pricing.Details{
			Age50Plus:      o.DiscountByAge > 0,
			Felices50:      o.DiscountByCode > 0,
			Birthday:       o.BirthdayBenefit > 0,
			AmountByAge:    o.DiscountByAge,
			AmountByCode:   o.DiscountByCode,
			AmountBirthday: o.BirthdayBenefit,
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	for i := range result {
		items, err := c.orderItems(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}

func (c *Conf) orderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, price, message_for_cake
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &it.MessageForCake); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}
	return items, nil
}

// Package dashboard computes the aggregates behind the admin charts: order
// counts by status, revenue by day and top-selling products.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pasteleria-api/internal/orders"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DailyRevenue struct {
	Day     time.Time `json:"day"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

type TopProduct struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitsSold   int     `json:"units_sold"`
	Revenue     float64 `json:"revenue"`
}

// Summary is the payload behind the admin dashboard charts. Revenue counts
// only orders that got past PENDING and were not cancelled.
type Summary struct {
	TotalOrders    int            `json:"total_orders"`
	TotalRevenue   float64        `json:"total_revenue"`
	TotalUsers     int            `json:"total_users"`
	TotalDiscounts float64        `json:"total_discounts"`
	OrdersByStatus []StatusCount  `json:"orders_by_status"`
	RevenueByDay   []DailyRevenue `json:"revenue_by_day"`
	TopProducts    []TopProduct   `json:"top_products"`
}

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// BuildSummary gathers every dashboard aggregate. days bounds the revenue
// series (e.g. 30 for the last month).
func (c *Conf) BuildSummary(ctx context.Context, days int) (Summary, error) {
	var s Summary

	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total) FILTER (WHERE status NOT IN ($1, $2)), 0),
		       COALESCE(SUM(discount_by_age + discount_by_code + birthday_benefit), 0)
		FROM orders
	`, orders.StatusPending, orders.StatusCancelled).Scan(&s.TotalOrders, &s.TotalRevenue, &s.TotalDiscounts)
	if err != nil {
		return Summary{}, fmt.Errorf("querying order totals: %w", err)
	}

	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.TotalUsers); err != nil {
		return Summary{}, fmt.Errorf("counting users: %w", err)
	}

	byStatus, err := c.ordersByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.OrdersByStatus = byStatus

	revenue, err := c.revenueByDay(ctx, days)
	if err != nil {
		return Summary{}, err
	}
	s.RevenueByDay = revenue

	top, err := c.topProducts(ctx, 5)
	if err != nil {
		return Summary{}, err
	}
	s.TopProducts = top

	return s, nil
}

func (c *Conf) ordersByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("querying orders by status: %w", err)
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}
	return result, nil
}

func (c *Conf) revenueByDay(ctx context.Context, days int) ([]DailyRevenue, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT DATE_TRUNC('day', created_at) AS day, COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE status NOT IN ($1, $2)
		  AND created_at >= NOW() - ($3 || ' days')::interval
		GROUP BY day
		ORDER BY day
	`, orders.StatusPending, orders.StatusCancelled, days)
	if err != nil {
		return nil, fmt.Errorf("querying revenue by day: %w", err)
	}
	defer rows.Close()

	var result []DailyRevenue
	for rows.Next() {
		var dr DailyRevenue
		if err := rows.Scan(&dr.Day, &dr.Revenue, &dr.Orders); err != nil {
			return nil, fmt.Errorf("scanning daily revenue: %w", err)
		}
		result = append(result, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily revenue: %w", err)
	}
	return result, nil
}

func (c *Conf) topProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT oi.product_id, oi.product_name, SUM(oi.quantity), SUM(oi.price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status NOT IN ($1, $2)
		GROUP BY oi.product_id, oi.product_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $3
	`, orders.StatusPending, orders.StatusCancelled, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	var result []TopProduct
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.ProductName, &tp.UnitsSold, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("scanning top product: %w", err)
		}
		result = append(result, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top products: %w", err)
	}
	return result, nil
}

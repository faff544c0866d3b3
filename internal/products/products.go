package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("product not found")

// ErrInsufficientStock is returned when a stock reduction would go negative.
var ErrInsufficientStock = errors.New("insufficient stock")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// InsertProduct creates a catalog entry.
func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	query := `
		INSERT INTO products (name, description, category, price, stock, stripe_price_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	p := Product{
		Name:          np.Name,
		Description:   np.Description,
		Category:      np.Category,
		Price:         np.Price,
		Stock:         np.Stock,
		StripePriceID: np.StripePriceID,
	}
	err := c.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.StripePriceID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("inserting product: %w", err)
	}
	return p, nil
}

// GetProductByID fetches one product.
func (c *Conf) GetProductByID(ctx context.Context, id int64) (Product, error) {
	query := `
		SELECT id, name, description, category, price, stock, stripe_price_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var p Product
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.StripePriceID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("querying product %d: %w", id, err)
	}
	return p, nil
}

// ListProductsFromDB lists products with optional name/category filters,
// pagination and sorting.
func (c *Conf) ListProductsFromDB(ctx context.Context, name, category string, limit, offset int, sortBy, order string) ([]Product, error) {
	sortColumns := map[string]string{
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if strings.EqualFold(order, "desc") {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, category, price, stock, stripe_price_id, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		  AND ($2 = '' OR category = $2)
		ORDER BY %s %s
		LIMIT $3 OFFSET $4
	`, column, direction)

	rows, err := c.db.QueryContext(ctx, query, name, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.StripePriceID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return result, nil
}

// UpdateProductInDB overwrites the mutable fields of a product.
func (c *Conf) UpdateProductInDB(ctx context.Context, id int64, p Product) (Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5, stripe_price_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := c.db.QueryRowContext(ctx, query,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.StripePriceID, id,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("updating product %d: %w", id, err)
	}
	p.ID = id
	return p, nil
}

// DeleteProductFromDB removes a product.
func (c *Conf) DeleteProductFromDB(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProductStockAndStripePriceId returns the live stock and the Stripe price
// id for checkout.
func (c *Conf) GetProductStockAndStripePriceId(ctx context.Context, id int64) (int, string, error) {
	var (
		stock   int
		priceID string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT stock, stripe_price_id FROM products WHERE id = $1`, id,
	).Scan(&stock, &priceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", fmt.Errorf("querying stock for product %d: %w", id, err)
	}
	return stock, priceID, nil
}

// ReduceStock decrements stock for each item in one transaction. The whole
// batch fails when any product would go negative.
func (c *Conf) ReduceStock(ctx context.Context, items []ReduceStockItem) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("reducing stock for product %d: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking stock update for product %d: %w", item.ProductID, err)
		}
		if affected == 0 {
			return fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stock reduction: %w", err)
	}
	return nil
}

// CountProducts reports whether the catalog has been seeded.
func (c *Conf) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}

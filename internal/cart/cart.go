package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pasteleria-api/internal/pricing"
)

var ErrNoActiveCart = errors.New("no active cart")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// AddToCartDB adds a product to the user's active cart, creating the cart on
// first use and merging quantities when the product is already present. A
// non-empty inscription replaces the stored one.
func (c *Conf) AddToCartDB(ctx context.Context, userID, productID int64, quantity, stock int, messageForCake string) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			if !errors.Is(err, ErrNoActiveCart) {
				return err
			}
			queryCreateCart := `
				INSERT INTO cart (user_id, status, created_at, updated_at)
				VALUES ($1, 'active', NOW(), NOW())
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, queryCreateCart, userID).Scan(&cartID); err != nil {
				return fmt.Errorf("failed to create new cart: %w", err)
			}
		}

		queryCartItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		var cartItemID int64
		var existingQuantity int
		err = tx.QueryRowContext(ctx, queryCartItem, cartID, productID).Scan(&cartItemID, &existingQuantity)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to query cart items: %w", err)
			}
			if quantity > stock {
				return fmt.Errorf("insufficient stock: requested %d, available %d", quantity, stock)
			}
			queryAddCartItem := `
				INSERT INTO cart_items (cart_id, product_id, quantity, message_for_cake, created_at, updated_at)
				VALUES ($1, $2, $3, $4, NOW(), NOW())
			`
			if _, err := tx.ExecContext(ctx, queryAddCartItem, cartID, productID, quantity, messageForCake); err != nil {
				return fmt.Errorf("failed to add product to cart: %w", err)
			}
			return nil
		}

		newQuantity := existingQuantity + quantity
		if newQuantity > stock {
			return fmt.Errorf("insufficient stock: requested %d, available %d", newQuantity, stock)
		}
		queryUpdateCartItem := `
			UPDATE cart_items
			SET quantity = $1,
			    message_for_cake = CASE WHEN $2 <> '' THEN $2 ELSE message_for_cake END,
			    updated_at = NOW()
			WHERE id = $3
		`
		if _, err := tx.ExecContext(ctx, queryUpdateCartItem, newQuantity, messageForCake, cartItemID); err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		return nil
	})
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or less
// removes the line, mirroring the storefront behaviour.
func (c *Conf) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, userID, productID)
	}
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_id = $3
		`, quantity, cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check quantity update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("product %d not in cart", productID)
		}
		return nil
	})
}

// UpdateMessage replaces the cake inscription on a cart line.
func (c *Conf) UpdateMessage(ctx context.Context, userID, productID int64, message string) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE cart_items
			SET message_for_cake = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_id = $3
		`, message, cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to update inscription: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check inscription update: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("product %d not in cart", productID)
		}
		return nil
	})
}

// RemoveItem removes one product line from the active cart.
func (c *Conf) RemoveItem(ctx context.Context, userID, productID int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2
		`, cartID, productID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

// ClearCart removes every line from the active cart. Clearing without an
// active cart is a no-op.
func (c *Conf) ClearCart(ctx context.Context, userID int64) error {
	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, ErrNoActiveCart) {
				return nil
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// GetActiveCartItems returns the active cart joined with catalog names and
// current prices. A user without a cart gets an empty response.
func (c *Conf) GetActiveCartItems(ctx context.Context, userID int64) (*CartResponse, error) {
	var items []CartItem

	err := c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, ErrNoActiveCart) {
				return nil
			}
			return err
		}

		queryItems := `
			SELECT ci.product_id, p.name, p.price, ci.quantity, ci.message_for_cake
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.cart_id = $1
			ORDER BY ci.created_at
		`
		rows, err := tx.QueryContext(ctx, queryItems, cartID)
		if err != nil {
			return fmt.Errorf("failed to query cart items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item CartItem
			if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.MessageForCake); err != nil {
				return fmt.Errorf("failed to scan cart item: %w", err)
			}
			items = append(items, item)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating cart items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CartResponse{Items: items}, nil
}

// Snapshot converts the active cart into the plain line items the pricing
// engine consumes.
func (c *Conf) Snapshot(ctx context.Context, userID int64) ([]pricing.LineItem, error) {
	resp, err := c.GetActiveCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]pricing.LineItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, pricing.LineItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			UnitPrice:      it.Price,
			Quantity:       it.Quantity,
			MessageForCake: it.MessageForCake,
		})
	}
	return items, nil
}

func activeCartForUpdate(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	queryActiveCart := `
		SELECT id
		FROM cart
		WHERE user_id = $1 AND status = 'active'
		FOR UPDATE
	`
	err := tx.QueryRowContext(ctx, queryActiveCart, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoActiveCart
		}
		return 0, fmt.Errorf("failed to query active cart: %w", err)
	}
	return cartID, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}

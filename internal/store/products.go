package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nrstore/storefront/internal/model"
)

// Sentinel errors for stock decrements.
var (
	ErrNoProduct         = errors.New("no such product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CreateProduct inserts a new product and returns the stored row.
func CreateProduct(ctx context.Context, db *sql.DB, draft model.ProductDraft) (*model.Product, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, stock, image) VALUES (?, ?, ?, ?, ?)`,
		draft.Name, draft.Description, draft.Price, draft.Stock, draft.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID, or nil if it doesn't exist.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	var description, image sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, price, stock, image FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &description, &p.Price, &p.Stock, &image)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p.Description = description.String
	p.Image = image.String
	return p, nil
}

// ListProducts returns all products in insertion order.
func ListProducts(ctx context.Context, db *sql.DB) ([]model.Product, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, price, stock, image FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var description, image sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Stock, &image); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.Description = description.String
		p.Image = image.String
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpdateProduct replaces a product's writable fields.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, draft model.ProductDraft) error {
	_, err := db.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, image = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		draft.Name, draft.Description, draft.Price, draft.Stock, draft.Image, id,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product and (by cascade) its comments.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

// ReduceStock atomically decrements a product's stock by qty. Returns
// ErrInsufficientStock (never underflows) when qty exceeds current stock,
// and ErrNoProduct when the product doesn't exist.
func ReduceStock(ctx context.Context, db *sql.DB, id int64, qty int) error {
	if qty < 1 {
		return fmt.Errorf("reducing stock: quantity must be positive, got %d", qty)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reducing stock: %w", err)
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, id).Scan(&stock)
	if err == sql.ErrNoRows {
		return ErrNoProduct
	}
	if err != nil {
		return fmt.Errorf("reducing stock: %w", err)
	}
	if qty > stock {
		return ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		qty, id,
	)
	if err != nil {
		return fmt.Errorf("reducing stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reducing stock: %w", err)
	}
	return nil
}

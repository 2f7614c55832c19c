package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"boozetrack/model"
)

const ProductColumns = `id, name, brand, category, unit_price, quantity_on_hand, description`

// ProductExists reports whether a product row with the given id is present.
func ProductExists(db *sqlx.DB, id int64) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return exists, nil
}

// InsertProduct creates a new product row. The id is caller-assigned; the
// catalog checks for duplicates before calling this.
func InsertProduct(db *sqlx.DB, p *model.Product) error {
	_, err := db.Exec(
		`INSERT INTO products (id, name, brand, category, unit_price, quantity_on_hand, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Brand, p.Category, p.UnitPrice, p.QuantityOnHand, p.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
	}
	return nil
}

// ProductUpdate carries the catalog fields that may change after creation.
// Nil pointers leave the column untouched. Quantity is deliberately absent:
// stock only moves through the inventory tracker or a sale.
type ProductUpdate struct {
	Name        *string
	Brand       *string
	Category    *string
	UnitPrice   *decimal.Decimal
	Description *string
}

// UpdateProduct applies the non-nil fields of u to the product row and
// reports whether a row was touched.
func UpdateProduct(db *sqlx.DB, id int64, u ProductUpdate) (bool, error) {
	setClause := ""
	var args []interface{}
	add := func(col string, val interface{}) {
		if setClause != "" {
			setClause += ", "
		}
		setClause += col + " = ?"
		args = append(args, val)
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Brand != nil {
		add("brand", *u.Brand)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.UnitPrice != nil {
		add("unit_price", *u.UnitPrice)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if setClause == "" {
		return false, errors.New("no fields to update")
	}

	args = append(args, id)
	res, err := db.Exec(`UPDATE products SET `+setClause+` WHERE id = ?`, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result for product %d: %w", id, err)
	}
	return n > 0, nil
}

// GetProduct fetches one product. sql.ErrNoRows passes through for the
// caller to map.
func GetProduct(db *sqlx.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := db.Get(&p, `SELECT `+ProductColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

// GetProductTx is GetProduct inside an open transaction; the sale commit uses
// it to read quantities that are stable for the duration of the commit.
func GetProductTx(tx *sqlx.Tx, id int64) (*model.Product, error) {
	var p model.Product
	err := tx.Get(&p, `SELECT `+ProductColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &p, nil
}

// ListProducts returns products matching the filter, ordered by name then id.
func ListProducts(db *sqlx.DB, filter model.ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + ProductColumns + ` FROM products WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		query += ` AND (name LIKE ? OR brand LIKE ? OR category LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY name ASC, id ASC`

	products := []model.Product{}
	if err := db.Select(&products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// LowStockProducts returns every product at or below the threshold, ordered
// by quantity ascending with ties broken by id.
func LowStockProducts(db *sqlx.DB, threshold int) ([]model.Product, error) {
	products := []model.Product{}
	err := db.Select(&products,
		`SELECT `+ProductColumns+` FROM products
		 WHERE quantity_on_hand <= ?
		 ORDER BY quantity_on_hand ASC, id ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	return products, nil
}

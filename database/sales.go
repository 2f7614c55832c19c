package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"boozetrack/model"
)

const TransactionColumns = `id, created_at, total_amount, status`

// InsertTransactionTx creates the sale header and fills in the generated id.
func InsertTransactionTx(tx *sqlx.Tx, t *model.SaleTransaction) error {
	res, err := tx.Exec(
		`INSERT INTO sale_transactions (created_at, total_amount, status) VALUES (?, ?, ?)`,
		t.CreatedAt, t.TotalAmount, t.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sale transaction id: %w", err)
	}
	t.ID = id
	return nil
}

// InsertLineItemTx creates one line item row and fills in the generated id.
func InsertLineItemTx(tx *sqlx.Tx, item *model.SaleLineItem) error {
	res, err := tx.Exec(
		`INSERT INTO sale_line_items (transaction_id, product_id, quantity, unit_price, line_total)
		 VALUES (?, ?, ?, ?, ?)`,
		item.TransactionID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("failed to insert line item for transaction %d: %w", item.TransactionID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read line item id for transaction %d: %w", item.TransactionID, err)
	}
	item.ID = id
	return nil
}

// GetTransaction fetches one sale header. sql.ErrNoRows passes through.
func GetTransaction(db *sqlx.DB, id int64) (*model.SaleTransaction, error) {
	var t model.SaleTransaction
	err := db.Get(&t, `SELECT `+TransactionColumns+` FROM sale_transactions WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return &t, nil
}

// LineItemsForTransaction returns the ordered line items of one sale, joined
// with the current product name for display.
func LineItemsForTransaction(db *sqlx.DB, transactionID int64) ([]model.SaleLineItem, error) {
	items := []model.SaleLineItem{}
	err := db.Select(&items,
		`SELECT li.id, li.transaction_id, li.product_id, p.name AS product_name,
		        li.quantity, li.unit_price, li.line_total
		 FROM sale_line_items li
		 JOIN products p ON p.id = li.product_id
		 WHERE li.transaction_id = ?
		 ORDER BY li.id ASC`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items for transaction %d: %w", transactionID, err)
	}
	return items, nil
}

// LastTransaction returns the most recently committed sale header, or
// sql.ErrNoRows when the store has no sales yet.
func LastTransaction(db *sqlx.DB) (*model.SaleTransaction, error) {
	var t model.SaleTransaction
	err := db.Get(&t, `SELECT `+TransactionColumns+` FROM sale_transactions ORDER BY id DESC LIMIT 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get last transaction: %w", err)
	}
	return &t, nil
}

// ListTransactions returns sale headers inside the range, newest first.
func ListTransactions(db *sqlx.DB, r model.DateRange) ([]model.SaleTransaction, error) {
	query := `SELECT ` + TransactionColumns + ` FROM sale_transactions WHERE 1=1`
	var args []interface{}
	if !r.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, r.From.UTC())
	}
	if !r.To.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, r.To.UTC())
	}
	query += ` ORDER BY id DESC`

	transactions := []model.SaleTransaction{}
	if err := db.Select(&transactions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

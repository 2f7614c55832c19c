package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"boozetrack/model"
)

const MovementColumns = `id, product_id, delta, reason, note, created_at`

// AdjustStockTx shifts quantity_on_hand by delta inside an open transaction.
// The guard in the WHERE clause keeps the quantity from ever dipping below
// zero even if a caller's validation was stale; zero rows affected means the
// adjustment was refused.
func AdjustStockTx(tx *sqlx.Tx, productID int64, delta int) (bool, error) {
	res, err := tx.Exec(
		`UPDATE products SET quantity_on_hand = quantity_on_hand + ?
		 WHERE id = ? AND quantity_on_hand + ? >= 0`,
		delta, productID, delta,
	)
	if err != nil {
		return false, fmt.Errorf("failed to adjust stock for product %d: %w", productID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read stock adjustment result for product %d: %w", productID, err)
	}
	return n > 0, nil
}

// InsertMovementTx appends one entry to the stock log and fills in the
// generated id. Movements are immutable once written; there is no update or
// delete counterpart.
func InsertMovementTx(tx *sqlx.Tx, m *model.StockMovement) error {
	res, err := tx.Exec(
		`INSERT INTO stock_movements (product_id, delta, reason, note, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ProductID, m.Delta, m.Reason, m.Note, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock movement for product %d: %w", m.ProductID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read movement id for product %d: %w", m.ProductID, err)
	}
	m.ID = id
	return nil
}

// MovementsByProduct returns the full movement history of one product,
// oldest first.
func MovementsByProduct(db *sqlx.DB, productID int64) ([]model.StockMovement, error) {
	movements := []model.StockMovement{}
	err := db.Select(&movements,
		`SELECT `+MovementColumns+` FROM stock_movements
		 WHERE product_id = ? ORDER BY id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for product %d: %w", productID, err)
	}
	return movements, nil
}

// CountMovements returns the total number of log entries across all
// products.
func CountMovements(db *sqlx.DB) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM stock_movements`); err != nil {
		return 0, fmt.Errorf("failed to count stock movements: %w", err)
	}
	return n, nil
}

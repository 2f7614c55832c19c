package model

import "time"

type MovementReason string

const (
	ReasonReceive MovementReason = "RECEIVE"
	ReasonLoss    MovementReason = "LOSS"
	ReasonSale    MovementReason = "SALE"
)

// StockMovement is one entry of the append-only stock log. Delta is positive
// for a receipt and negative for a loss or a sale. Rows are never updated or
// deleted once written.
type StockMovement struct {
	ID        int64          `db:"id" json:"id"`
	ProductID int64          `db:"product_id" json:"productId"`
	Delta     int            `db:"delta" json:"delta"`
	Reason    MovementReason `db:"reason" json:"reason"`
	Note      string         `db:"note" json:"note,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

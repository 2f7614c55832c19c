package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const StatusCompleted SaleStatus = "COMPLETED"

// SaleTransaction is a committed sale. TotalAmount equals the sum of the line
// totals; both the header and its items are immutable once committed.
type SaleTransaction struct {
	ID          int64           `db:"id" json:"id"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	Status      SaleStatus      `db:"status" json:"status"`
	Items       []SaleLineItem  `json:"items,omitempty"`
}

// SaleLineItem captures one product line of a sale. UnitPrice is the catalog
// price at the moment of sale, not a reference to the current price.
// ProductName is filled from the products table when a transaction is loaded
// for display; it is not stored on the line item row.
type SaleLineItem struct {
	ID            int64           `db:"id" json:"id"`
	TransactionID int64           `db:"transaction_id" json:"transactionId"`
	ProductID     int64           `db:"product_id" json:"productId"`
	ProductName   string          `db:"product_name" json:"productName,omitempty"`
	Quantity      int             `db:"quantity" json:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price" json:"unitPrice"`
	LineTotal     decimal.Decimal `db:"line_total" json:"lineTotal"`
}

// DateRange bounds a history or summary query. A zero From or To leaves that
// end open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

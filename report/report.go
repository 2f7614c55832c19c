// Package report is the read-only aggregation layer: low-stock listing,
// inventory valuation, and sales summaries, each computed fresh from the
// store on every call.
package report

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/logger"
	"boozetrack/model"
)

type Reporter struct {
	db     *sqlx.DB
	dbPath string
	log    zerolog.Logger
}

// New creates a Reporter. dbPath is the live database file; exports refuse
// to overwrite it.
func New(db *sqlx.DB, dbPath string) *Reporter {
	return &Reporter{db: db, dbPath: dbPath, log: logger.Get().With().Str("component", "report").Logger()}
}

// LowStock returns every product with quantity_on_hand at or below the
// threshold, ordered by quantity ascending then id.
func (r *Reporter) LowStock(threshold int) ([]model.Product, error) {
	if threshold < 0 {
		return nil, apperr.Validation("low-stock threshold must be non-negative, got %d", threshold)
	}
	products, err := database.LowStockProducts(r.db, threshold)
	if err != nil {
		return nil, apperr.Persistence(err, "could not build low-stock report")
	}
	return products, nil
}

// InventoryValue returns the sum of quantity_on_hand x unit_price over the
// whole catalog.
func (r *Reporter) InventoryValue() (decimal.Decimal, error) {
	products, err := database.ListProducts(r.db, model.ProductFilter{})
	if err != nil {
		return decimal.Zero, apperr.Persistence(err, "could not compute inventory value")
	}

	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].StockValue())
	}
	return total, nil
}

// SalesSummary aggregates transaction count and revenue inside the range.
func (r *Reporter) SalesSummary(dr model.DateRange) (*model.SalesSummary, error) {
	transactions, err := database.ListTransactions(r.db, dr)
	if err != nil {
		return nil, apperr.Persistence(err, "could not build sales summary")
	}

	summary := &model.SalesSummary{Range: dr, TotalRevenue: decimal.Zero}
	for i := range transactions {
		summary.Count++
		summary.TotalRevenue = summary.TotalRevenue.Add(transactions[i].TotalAmount)
	}
	return summary, nil
}

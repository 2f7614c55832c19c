// Package sales commits multi-item sales. A sale is one indivisible unit:
// every stock decrement, its SALE movement, the transaction header, and the
// line items land together or not at all.
package sales

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/logger"
	"boozetrack/model"
)

type Processor struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func New(db *sqlx.DB) *Processor {
	return &Processor{db: db, log: logger.Get().With().Str("component", "sales").Logger()}
}

// Line is one requested product/quantity pair of a sale.
type Line struct {
	ProductID int64
	Quantity  int
}

// Sell validates and commits the sale. Validation covers every line before
// any stock is touched; duplicate product ids within one call are rejected
// rather than merged. The unit price on each line item is the catalog price
// at commit time.
func (p *Processor) Sell(lines []Line) (*model.SaleTransaction, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("sale requires at least one line")
	}
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity for product %d must be a positive integer, got %d",
				line.ProductID, line.Quantity)
		}
		if seen[line.ProductID] {
			return nil, apperr.Validation("product %d appears more than once; combine the quantities into one line",
				line.ProductID)
		}
		seen[line.ProductID] = true
	}

	txn := &model.SaleTransaction{
		CreatedAt: time.Now().UTC(),
		Status:    model.StatusCompleted,
	}

	err := database.WithTx(p.db, func(tx *sqlx.Tx) error {
		// First pass: validate all lines against current stock and capture
		// prices. Nothing is written until every line has passed.
		products := make([]*model.Product, len(lines))
		for i, line := range lines {
			prod, err := database.GetProductTx(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apperr.NotFound("product %d not found", line.ProductID)
				}
				return apperr.Persistence(err, "could not load product %d", line.ProductID)
			}
			if prod.QuantityOnHand < line.Quantity {
				return apperr.InsufficientStock(
					"insufficient stock for %s: available %d, requested %d",
					prod.Name, prod.QuantityOnHand, line.Quantity)
			}
			products[i] = prod
		}

		total := decimal.Zero
		items := make([]model.SaleLineItem, len(lines))
		for i, line := range lines {
			lineTotal := products[i].UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items[i] = model.SaleLineItem{
				ProductID:   line.ProductID,
				ProductName: products[i].Name,
				Quantity:    line.Quantity,
				UnitPrice:   products[i].UnitPrice,
				LineTotal:   lineTotal,
			}
			total = total.Add(lineTotal)
		}
		txn.TotalAmount = total

		if err := database.InsertTransactionTx(tx, txn); err != nil {
			return apperr.Persistence(err, "could not create sale transaction")
		}

		// Second pass: apply every decrement, its movement, and its line item.
		for i := range items {
			line := lines[i]
			adjusted, err := database.AdjustStockTx(tx, line.ProductID, -line.Quantity)
			if err != nil {
				return apperr.Persistence(err, "could not decrement stock for product %d", line.ProductID)
			}
			if !adjusted {
				return apperr.InsufficientStock(
					"insufficient stock for %s: available %d, requested %d",
					products[i].Name, products[i].QuantityOnHand, line.Quantity)
			}
			if err := database.InsertMovementTx(tx, &model.StockMovement{
				ProductID: line.ProductID,
				Delta:     -line.Quantity,
				Reason:    model.ReasonSale,
				CreatedAt: txn.CreatedAt,
			}); err != nil {
				return apperr.Persistence(err, "could not record sale movement for product %d", line.ProductID)
			}

			items[i].TransactionID = txn.ID
			if err := database.InsertLineItemTx(tx, &items[i]); err != nil {
				return apperr.Persistence(err, "could not record line item for product %d", line.ProductID)
			}
		}

		txn.Items = items
		return nil
	})
	if err != nil {
		p.log.Warn().Int("lines", len(lines)).Err(err).Msg("sale rejected")
		return nil, err
	}

	p.log.Info().
		Int64("transaction_id", txn.ID).
		Int("lines", len(txn.Items)).
		Str("total", txn.TotalAmount.StringFixed(2)).
		Msg("sale completed")
	return txn, nil
}

// LastSale returns the most recently committed transaction with its items,
// or nil when no sale exists yet.
func (p *Processor) LastSale() (*model.SaleTransaction, error) {
	txn, err := database.LastTransaction(p.db)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence(err, "could not load last sale")
	}
	return p.attachItems(txn)
}

// History returns sale headers in the range, newest first. Line items are
// loaded on demand through Get.
func (p *Processor) History(r model.DateRange) ([]model.SaleTransaction, error) {
	transactions, err := database.ListTransactions(p.db, r)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load sales history")
	}
	return transactions, nil
}

// Get returns one transaction with its line items.
func (p *Processor) Get(id int64) (*model.SaleTransaction, error) {
	txn, err := database.GetTransaction(p.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("transaction %d not found", id)
		}
		return nil, apperr.Persistence(err, "could not load transaction %d", id)
	}
	return p.attachItems(txn)
}

func (p *Processor) attachItems(txn *model.SaleTransaction) (*model.SaleTransaction, error) {
	items, err := database.LineItemsForTransaction(p.db, txn.ID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load items for transaction %d", txn.ID)
	}
	txn.Items = items
	return txn, nil
}

// Package inventory mutates stock levels. Every change goes through a
// transaction that updates the product row and appends to the movement log
// together, so quantity and audit trail can never drift apart.
package inventory

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/logger"
	"boozetrack/model"
)

type Tracker struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func New(db *sqlx.DB) *Tracker {
	return &Tracker{db: db, log: logger.Get().With().Str("component", "inventory").Logger()}
}

// Receive books an incoming shipment: quantity_on_hand goes up by quantity
// and a RECEIVE movement is appended, both or neither.
func (t *Tracker) Receive(productID int64, quantity int) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("receive quantity must be a positive integer, got %d", quantity)
	}

	movement := &model.StockMovement{
		ProductID: productID,
		Delta:     quantity,
		Reason:    model.ReasonReceive,
		CreatedAt: time.Now().UTC(),
	}
	if err := t.apply(movement); err != nil {
		return nil, err
	}

	t.log.Info().Int64("product_id", productID).Int("quantity", quantity).Msg("stock received")
	return movement, nil
}

// LogLoss books breakage, theft, or spoilage: quantity_on_hand goes down by
// quantity and a LOSS movement is appended. The loss may not exceed the
// current stock.
func (t *Tracker) LogLoss(productID int64, quantity int, note string) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("loss quantity must be a positive integer, got %d", quantity)
	}

	movement := &model.StockMovement{
		ProductID: productID,
		Delta:     -quantity,
		Reason:    model.ReasonLoss,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	if err := t.apply(movement); err != nil {
		return nil, err
	}

	t.log.Info().Int64("product_id", productID).Int("quantity", quantity).Str("note", note).Msg("stock loss logged")
	return movement, nil
}

// apply runs one stock change atomically: read the product, check the
// resulting quantity, adjust the row, append the movement.
func (t *Tracker) apply(m *model.StockMovement) error {
	err := database.WithTx(t.db, func(tx *sqlx.Tx) error {
		p, err := database.GetProductTx(tx, m.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFound("product %d not found", m.ProductID)
			}
			return apperr.Persistence(err, "could not load product %d", m.ProductID)
		}

		if p.QuantityOnHand+m.Delta < 0 {
			return apperr.InsufficientStock(
				"insufficient stock for %s: available %d, requested %d",
				p.Name, p.QuantityOnHand, -m.Delta)
		}

		adjusted, err := database.AdjustStockTx(tx, m.ProductID, m.Delta)
		if err != nil {
			return apperr.Persistence(err, "could not adjust stock for product %d", m.ProductID)
		}
		if !adjusted {
			return apperr.InsufficientStock(
				"insufficient stock for %s: available %d, requested %d",
				p.Name, p.QuantityOnHand, -m.Delta)
		}

		if err := database.InsertMovementTx(tx, m); err != nil {
			return apperr.Persistence(err, "could not record stock movement for product %d", m.ProductID)
		}
		return nil
	})
	if err != nil {
		t.log.Warn().Int64("product_id", m.ProductID).Int("delta", m.Delta).Err(err).Msg("stock change rejected")
	}
	return err
}

// History returns the movement log of one product, oldest first.
func (t *Tracker) History(productID int64) ([]model.StockMovement, error) {
	exists, err := database.ProductExists(t.db, productID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not check product %d", productID)
	}
	if !exists {
		return nil, apperr.NotFound("product %d not found", productID)
	}

	movements, err := database.MovementsByProduct(t.db, productID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not load movements for product %d", productID)
	}
	return movements, nil
}

// Package catalog implements product management: create, update, fetch, and
// list. Stock quantities are read-only here; they move only through the
// inventory tracker and the sales processor.
package catalog

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/logger"
	"boozetrack/model"
	"boozetrack/validate"
)

type Catalog struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func New(db *sqlx.DB) *Catalog {
	return &Catalog{db: db, log: logger.Get().With().Str("component", "catalog").Logger()}
}

// AddInput carries the fields for a new product. The id is assigned by the
// store owner and immutable afterwards.
type AddInput struct {
	ID          int64  `validate:"gt=0"`
	Name        string `validate:"required"`
	Brand       string
	Category    string
	UnitPrice   decimal.Decimal
	Description string
}

// Add creates a product with quantity_on_hand = 0. Opening stock arrives
// through the inventory tracker so the movement log stays complete.
func (c *Catalog) Add(in AddInput) (*model.Product, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit price must be non-negative")
	}

	exists, err := database.ProductExists(c.db, in.ID)
	if err != nil {
		return nil, apperr.Persistence(err, "could not check product id %d", in.ID)
	}
	if exists {
		return nil, apperr.DuplicateID("product id %d already exists", in.ID)
	}

	p := &model.Product{
		ID:          in.ID,
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		UnitPrice:   in.UnitPrice,
		Description: in.Description,
	}
	if err := database.InsertProduct(c.db, p); err != nil {
		return nil, apperr.Persistence(err, "could not save product %d", in.ID)
	}

	c.log.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product added")
	return p, nil
}

// UpdateInput carries partial updates; nil fields are untouched.
// quantity_on_hand is deliberately not settable here.
type UpdateInput struct {
	Name        *string
	Brand       *string
	Category    *string
	UnitPrice   *decimal.Decimal
	Description *string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Brand == nil && in.Category == nil &&
		in.UnitPrice == nil && in.Description == nil
}

// Update applies the given fields to an existing product and returns the
// refreshed row.
func (c *Catalog) Update(id int64, in UpdateInput) (*model.Product, error) {
	if in.empty() {
		return nil, apperr.Validation("no fields to update")
	}
	if in.Name != nil && *in.Name == "" {
		return nil, apperr.Validation("name must not be empty")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit price must be non-negative")
	}

	updated, err := database.UpdateProduct(c.db, id, database.ProductUpdate{
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		UnitPrice:   in.UnitPrice,
		Description: in.Description,
	})
	if err != nil {
		return nil, apperr.Persistence(err, "could not update product %d", id)
	}
	if !updated {
		return nil, apperr.NotFound("product %d not found", id)
	}

	c.log.Info().Int64("product_id", id).Msg("product updated")
	return c.Get(id)
}

// Get returns one product by id.
func (c *Catalog) Get(id int64) (*model.Product, error) {
	p, err := database.GetProduct(c.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("product %d not found", id)
		}
		return nil, apperr.Persistence(err, "could not load product %d", id)
	}
	return p, nil
}

// List returns products matching the filter, ordered by name.
func (c *Catalog) List(filter model.ProductFilter) ([]model.Product, error) {
	products, err := database.ListProducts(c.db, filter)
	if err != nil {
		return nil, apperr.Persistence(err, "could not list products")
	}
	return products, nil
}

package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. QuantityOnHand is owned by the inventory
// tracker and the sales processor; it is never set through a catalog update.
type Product struct {
	ID             int64           `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Brand          string          `db:"brand" json:"brand,omitempty"`
	Category       string          `db:"category" json:"category,omitempty"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unitPrice"`
	QuantityOnHand int             `db:"quantity_on_hand" json:"quantityOnHand"`
	Description    string          `db:"description" json:"description,omitempty"`
}

// StockValue returns quantity_on_hand x unit_price for this product.
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.QuantityOnHand)))
}

// ProductFilter narrows a catalog listing. Search matches name, brand, or
// category as a substring; Category matches exactly. Empty fields match all.
type ProductFilter struct {
	Search   string
	Category string
}

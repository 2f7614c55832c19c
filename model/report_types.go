package model

import "github.com/shopspring/decimal"

// SalesSummary aggregates committed transactions inside a date range.
type SalesSummary struct {
	Range        DateRange       `json:"-"`
	Count        int             `json:"count"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

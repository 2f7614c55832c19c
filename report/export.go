package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"boozetrack/apperr"
	"boozetrack/database"
	"boozetrack/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps user input to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", apperr.Validation("unknown export format %q, expected csv or json", s)
	}
}

// inventoryRow is the export shape shared by the low-stock and full
// inventory reports. Field order here fixes the CSV column order; it must
// stay stable across runs.
type inventoryRow struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Category       string `json:"category"`
	QuantityOnHand int    `json:"quantityOnHand"`
	UnitPrice      string `json:"unitPrice"`
	StockValue     string `json:"stockValue"`
}

var inventoryHeader = []string{"id", "name", "brand", "category", "quantity_on_hand", "unit_price", "stock_value"}

func toInventoryRows(products []model.Product) []inventoryRow {
	rows := make([]inventoryRow, len(products))
	for i := range products {
		p := &products[i]
		rows[i] = inventoryRow{
			ID:             p.ID,
			Name:           p.Name,
			Brand:          p.Brand,
			Category:       p.Category,
			QuantityOnHand: p.QuantityOnHand,
			UnitPrice:      p.UnitPrice.StringFixed(2),
			StockValue:     p.StockValue().StringFixed(2),
		}
	}
	return rows
}

// ExportLowStock writes the low-stock report to path.
func (r *Reporter) ExportLowStock(threshold int, format Format, path string) error {
	products, err := r.LowStock(threshold)
	if err != nil {
		return err
	}
	return r.writeRows(format, path, toInventoryRows(products))
}

// ExportInventory writes the full catalog with per-product stock values.
func (r *Reporter) ExportInventory(format Format, path string) error {
	products, err := database.ListProducts(r.db, model.ProductFilter{})
	if err != nil {
		return apperr.Persistence(err, "could not list products")
	}
	return r.writeRows(format, path, toInventoryRows(products))
}

// summaryRow mirrors model.SalesSummary with the range spelled out.
type summaryRow struct {
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Count        int    `json:"count"`
	TotalRevenue string `json:"totalRevenue"`
}

var summaryHeader = []string{"from", "to", "count", "total_revenue"}

// ExportSalesSummary writes the aggregated sales figures for the range.
func (r *Reporter) ExportSalesSummary(dr model.DateRange, format Format, path string) error {
	summary, err := r.SalesSummary(dr)
	if err != nil {
		return err
	}
	row := summaryRow{
		Count:        summary.Count,
		TotalRevenue: summary.TotalRevenue.StringFixed(2),
	}
	if !dr.From.IsZero() {
		row.From = dr.From.UTC().Format(time.RFC3339)
	}
	if !dr.To.IsZero() {
		row.To = dr.To.UTC().Format(time.RFC3339)
	}

	if err := r.checkTarget(path); err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return writeCSV(path, summaryHeader, [][]string{{
			row.From, row.To, strconv.Itoa(row.Count), row.TotalRevenue,
		}})
	case FormatJSON:
		return writeJSON(path, row)
	default:
		return apperr.Validation("unknown export format %q, expected csv or json", format)
	}
}

func (r *Reporter) writeRows(format Format, path string, rows []inventoryRow) error {
	if err := r.checkTarget(path); err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		records := make([][]string, len(rows))
		for i, row := range rows {
			records[i] = []string{
				strconv.FormatInt(row.ID, 10), row.Name, row.Brand, row.Category,
				strconv.Itoa(row.QuantityOnHand), row.UnitPrice, row.StockValue,
			}
		}
		return writeCSV(path, inventoryHeader, records)
	case FormatJSON:
		return writeJSON(path, rows)
	default:
		return apperr.Validation("unknown export format %q, expected csv or json", format)
	}
}

// checkTarget refuses to clobber the live database file.
func (r *Reporter) checkTarget(path string) error {
	if r.dbPath == "" {
		return nil
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return apperr.Validation("invalid export path %q", path)
	}
	live, err := filepath.Abs(r.dbPath)
	if err != nil {
		return nil
	}
	if target == live {
		return apperr.Validation("refusing to overwrite the database file %q", r.dbPath)
	}
	return nil
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Persistence(err, "could not create export file %q", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return apperr.Persistence(err, "could not write export file %q", path)
	}
	if err := w.WriteAll(records); err != nil {
		return apperr.Persistence(err, "could not write export file %q", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperr.Persistence(err, "could not write export file %q", path)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Persistence(err, "could not encode export data")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return apperr.Persistence(err, "could not write export file %q", path)
	}
	return nil
}

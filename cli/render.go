package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"boozetrack/apperr"
	"boozetrack/model"
	"boozetrack/sales"
)

const timeLayout = "2006-01-02 15:04:05"

func parseInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%q is not a valid number", raw)
	}
	return n, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Validation("%q is not a valid amount", raw)
	}
	return d, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (a *App) renderProducts(products []model.Product) {
	fmt.Fprintf(a.out, "\n%-5s %-28s %-15s %-10s %8s %10s\n", "ID", "Name", "Brand", "Category", "Stock", "Price")
	fmt.Fprintln(a.out, strings.Repeat("-", 80))
	for i := range products {
		p := &products[i]
		fmt.Fprintf(a.out, "%-5d %-28s %-15s %-10s %8d %10s\n",
			p.ID, truncate(p.Name, 28), truncate(p.Brand, 15), truncate(p.Category, 10),
			p.QuantityOnHand, a.money(p.UnitPrice))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 80))
}

func (a *App) renderMovements(movements []model.StockMovement) {
	if len(movements) == 0 {
		fmt.Fprintln(a.out, "No stock movements recorded.")
		return
	}
	fmt.Fprintf(a.out, "\n%-6s %-20s %-8s %7s  %s\n", "ID", "Date/Time", "Reason", "Delta", "Note")
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
	for i := range movements {
		m := &movements[i]
		fmt.Fprintf(a.out, "%-6d %-20s %-8s %+7d  %s\n",
			m.ID, m.CreatedAt.Format(timeLayout), m.Reason, m.Delta, m.Note)
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 60))
}

func (a *App) renderTransactions(transactions []model.SaleTransaction) {
	if len(transactions) == 0 {
		fmt.Fprintln(a.out, "No sales transactions found.")
		return
	}
	fmt.Fprintf(a.out, "\n%-6s %-20s %12s\n", "ID", "Date/Time", "Total")
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	for i := range transactions {
		t := &transactions[i]
		fmt.Fprintf(a.out, "%-6d %-20s %12s\n", t.ID, t.CreatedAt.Format(timeLayout), a.money(t.TotalAmount))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	fmt.Fprintf(a.out, "Total transactions: %d\n", len(transactions))
}

func (a *App) renderReceipt(txn *model.SaleTransaction, title string) {
	fmt.Fprintf(a.out, "\n%s\n%s\n", strings.Repeat("=", 56), title)
	fmt.Fprintf(a.out, "Transaction ID: %d\nDate/Time: %s\n", txn.ID, txn.CreatedAt.Format(timeLayout))
	fmt.Fprintln(a.out, strings.Repeat("-", 56))
	fmt.Fprintf(a.out, "%-28s %5s %10s %10s\n", "Item", "Qty", "Price", "Total")
	for i := range txn.Items {
		item := &txn.Items[i]
		fmt.Fprintf(a.out, "%-28s %5d %10s %10s\n",
			truncate(item.ProductName, 28), item.Quantity, a.money(item.UnitPrice), a.money(item.LineTotal))
	}
	fmt.Fprintln(a.out, strings.Repeat("-", 56))
	fmt.Fprintf(a.out, "%-44s %10s\n", "TOTAL:", a.money(txn.TotalAmount))
	fmt.Fprintln(a.out, strings.Repeat("=", 56))
}

// cartEntry pairs a sale line with display fields captured when the item was
// added, so the cart can render without re-querying.
type cartEntry struct {
	line  sales.Line
	name  string
	price decimal.Decimal
}

func (a *App) addToCart(cart *[]cartEntry) error {
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := a.promptInt("Quantity: ")
	if err != nil {
		return err
	}
	if qty <= 0 {
		return apperr.Validation("quantity must be a positive integer, got %d", qty)
	}
	for _, entry := range *cart {
		if entry.line.ProductID == id {
			return apperr.Validation("product %d is already in the cart; cancel and start over to change it", id)
		}
	}

	p, err := a.catalog.Get(id)
	if err != nil {
		return err
	}
	if p.QuantityOnHand < qty {
		return apperr.InsufficientStock("insufficient stock for %s: available %d, requested %d",
			p.Name, p.QuantityOnHand, qty)
	}

	*cart = append(*cart, cartEntry{
		line:  sales.Line{ProductID: id, Quantity: qty},
		name:  p.Name,
		price: p.UnitPrice,
	})
	fmt.Fprintf(a.out, "Added %d x %s to cart.\n", qty, p.Name)
	return nil
}

func (a *App) renderCart(cart []cartEntry) {
	if len(cart) == 0 {
		fmt.Fprintln(a.out, "Cart is empty.")
		return
	}
	fmt.Fprintln(a.out, "\n--- Current Cart ---")
	total := decimal.Zero
	for _, entry := range cart {
		lineTotal := entry.price.Mul(decimal.NewFromInt(int64(entry.line.Quantity)))
		total = total.Add(lineTotal)
		fmt.Fprintf(a.out, "%s - %d @ %s = %s\n", entry.name, entry.line.Quantity, a.money(entry.price), a.money(lineTotal))
	}
	fmt.Fprintf(a.out, "Total: %s\n", a.money(total))
}

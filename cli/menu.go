package cli

import (
	"fmt"

	"boozetrack/auth"
	"boozetrack/catalog"
	"boozetrack/config"
	"boozetrack/model"
	"boozetrack/report"
	"boozetrack/sales"
)

type menuItem struct {
	key   string
	label string
	op    auth.Operation
	run   func(a *App, s *model.Session) error
}

// menuItems is the full dispatch table. Which entries a session sees and may
// run is decided in one place, by auth.Authorize against the capability
// table; nothing below re-checks roles.
var menuItems = []menuItem{
	{"1", "Record a Sale", auth.OpSell, (*App).handleSell},
	{"2", "Receive New Stock", auth.OpReceiveStock, (*App).handleReceiveStock},
	{"3", "Log Product Loss", auth.OpLogLoss, (*App).handleLogLoss},
	{"4", "View / Search Products", auth.OpProductView, (*App).handleViewProducts},
	{"5", "View Stock History", auth.OpStockHistory, (*App).handleStockHistory},
	{"6", "View Last Sale", auth.OpLastSale, (*App).handleLastSale},
	{"7", "View Sales History", auth.OpSalesHistory, (*App).handleSalesHistory},
	{"8", "View Transaction Details", auth.OpTransactionDetail, (*App).handleTransactionDetail},
	{"9", "Add New Product", auth.OpProductAdd, (*App).handleAddProduct},
	{"10", "Update Product", auth.OpProductUpdate, (*App).handleUpdateProduct},
	{"11", "Low Stock Report", auth.OpLowStockReport, (*App).handleLowStock},
	{"12", "Total Inventory Value", auth.OpInventoryValue, (*App).handleInventoryValue},
	{"13", "Sales Summary", auth.OpSalesSummary, (*App).handleSalesSummary},
	{"14", "Export Report", auth.OpExportReport, (*App).handleExport},
	{"15", "Set Low Stock Threshold", auth.OpConfigureThreshold, (*App).handleThreshold},
	{"16", "Manage Accounts", auth.OpManageAccounts, (*App).handleAccounts},
}

func (a *App) handleAddProduct(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Add New Product ===")
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	name := a.prompt("Product Name: ")
	price, err := a.promptDecimal("Price (EUR): ")
	if err != nil {
		return err
	}
	in := catalog.AddInput{ID: id, Name: name, UnitPrice: price}
	if v := a.promptOptional("Brand"); v != nil {
		in.Brand = *v
	}
	if v := a.promptOptional("Category (e.g. Beer, Wine, Spirit)"); v != nil {
		in.Category = *v
	}
	if v := a.promptOptional("Description"); v != nil {
		in.Description = *v
	}

	p, err := a.catalog.Add(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSuccess! Product %q added with ID %d. Use Receive New Stock to book opening stock.\n", p.Name, p.ID)
	return nil
}

func (a *App) handleUpdateProduct(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Update Product ===")
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	current, err := a.catalog.Get(id)
	if err != nil {
		return err
	}
	a.renderProducts([]model.Product{*current})

	var in catalog.UpdateInput
	in.Name = a.promptOptional("New name")
	if raw := a.promptOptional("New price (EUR)"); raw != nil {
		price, err := parseDecimal(*raw)
		if err != nil {
			return err
		}
		in.UnitPrice = &price
	}
	in.Brand = a.promptOptional("New brand")
	in.Category = a.promptOptional("New category")
	in.Description = a.promptOptional("New description")

	p, err := a.catalog.Update(id, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nProduct %d updated.\n", p.ID)
	a.renderProducts([]model.Product{*p})
	return nil
}

func (a *App) handleViewProducts(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== View / Search Products ===")
	filter := model.ProductFilter{Search: a.prompt("Search term (Enter for all): ")}
	products, err := a.catalog.List(filter)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.out, "No products found.")
		return nil
	}
	a.renderProducts(products)
	return nil
}

func (a *App) handleReceiveStock(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n--- Receive New Stock ---")
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := a.promptInt("Quantity to add: ")
	if err != nil {
		return err
	}
	movement, err := a.tracker.Receive(id, qty)
	if err != nil {
		return err
	}
	p, err := a.catalog.Get(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nSuccess! Received %d x %s. New stock level: %d.\n", movement.Delta, p.Name, p.QuantityOnHand)
	return nil
}

func (a *App) handleLogLoss(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n--- Log Product Loss ---")
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := a.promptInt("Quantity lost: ")
	if err != nil {
		return err
	}
	note := a.prompt("Reason (breakage, theft, spoilage...): ")
	movement, err := a.tracker.LogLoss(id, qty, note)
	if err != nil {
		return err
	}
	p, err := a.catalog.Get(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nLoss of %d x %s logged. New stock level: %d.\n", -movement.Delta, p.Name, p.QuantityOnHand)
	return nil
}

func (a *App) handleStockHistory(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n--- Stock History ---")
	id, err := a.promptInt64("Product ID: ")
	if err != nil {
		return err
	}
	movements, err := a.tracker.History(id)
	if err != nil {
		return err
	}
	a.renderMovements(movements)
	return nil
}

func (a *App) handleSell(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Record a Sale ===")
	var cart []cartEntry

	for {
		fmt.Fprintln(a.out, "\n[1] Add item to cart")
		fmt.Fprintln(a.out, "[2] View cart")
		fmt.Fprintln(a.out, "[3] Complete sale")
		fmt.Fprintln(a.out, "[0] Cancel")
		switch a.prompt("Enter choice: ") {
		case "1":
			if err := a.addToCart(&cart); err != nil {
				fmt.Fprintf(a.out, "Error: %v\n", err)
			}
		case "2":
			a.renderCart(cart)
		case "3":
			if len(cart) == 0 {
				fmt.Fprintln(a.out, "Cart is empty. Add items before completing the sale.")
				continue
			}
			a.renderCart(cart)
			if a.prompt("Confirm sale? (y/n): ") != "y" {
				fmt.Fprintln(a.out, "Sale cancelled.")
				return nil
			}
			lines := make([]sales.Line, len(cart))
			for i, entry := range cart {
				lines[i] = entry.line
			}
			txn, err := a.sales.Sell(lines)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\nSale completed. Transaction ID: %d\n", txn.ID)
			a.renderReceipt(txn, "SALE RECEIPT")
			return nil
		case "0":
			fmt.Fprintln(a.out, "Sale cancelled.")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice, please try again.")
		}
	}
}

func (a *App) handleLastSale(_ *model.Session) error {
	txn, err := a.sales.LastSale()
	if err != nil {
		return err
	}
	if txn == nil {
		fmt.Fprintln(a.out, "\nNo sales recorded yet.")
		return nil
	}
	a.renderReceipt(txn, "LAST TRANSACTION RECEIPT")
	return nil
}

func (a *App) handleSalesHistory(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Sales History ===")
	dr, err := a.promptDateRange()
	if err != nil {
		return err
	}
	transactions, err := a.sales.History(dr)
	if err != nil {
		return err
	}
	a.renderTransactions(transactions)
	return nil
}

func (a *App) handleTransactionDetail(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== View Transaction Details ===")
	id, err := a.promptInt64("Transaction ID: ")
	if err != nil {
		return err
	}
	txn, err := a.sales.Get(id)
	if err != nil {
		return err
	}
	a.renderReceipt(txn, "TRANSACTION RECEIPT")
	return nil
}

func (a *App) handleLowStock(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Low Stock Report ===")
	threshold := config.GetSettings().LowStockThreshold
	if raw := a.promptOptional(fmt.Sprintf("Threshold (default %d)", threshold)); raw != nil {
		t, err := parseInt(*raw)
		if err != nil {
			return err
		}
		threshold = t
	}
	products, err := a.reporter.LowStock(threshold)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nLOW STOCK REPORT (threshold: %d units)\n", threshold)
	if len(products) == 0 {
		fmt.Fprintln(a.out, "All products are above the reorder threshold.")
		return nil
	}
	a.renderProducts(products)
	fmt.Fprintf(a.out, "Products at or below threshold: %d. Consider reordering.\n", len(products))
	return nil
}

func (a *App) handleInventoryValue(_ *model.Session) error {
	total, err := a.reporter.InventoryValue()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nTotal value of all products in stock: %s\n", a.money(total))
	return nil
}

func (a *App) handleSalesSummary(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Sales Summary ===")
	dr, err := a.promptDateRange()
	if err != nil {
		return err
	}
	summary, err := a.reporter.SalesSummary(dr)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nTransactions: %d\nTotal revenue: %s\n", summary.Count, a.money(summary.TotalRevenue))
	return nil
}

func (a *App) handleExport(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n=== Export Report ===")
	fmt.Fprintln(a.out, "[1] Low stock report")
	fmt.Fprintln(a.out, "[2] Full inventory")
	fmt.Fprintln(a.out, "[3] Sales summary")
	which := a.prompt("Report: ")

	format, err := report.ParseFormat(a.prompt("Format (csv/json): "))
	if err != nil {
		return err
	}
	path := a.prompt("Output file: ")

	switch which {
	case "1":
		err = a.reporter.ExportLowStock(config.GetSettings().LowStockThreshold, format, path)
	case "2":
		err = a.reporter.ExportInventory(format, path)
	case "3":
		var dr model.DateRange
		if dr, err = a.promptDateRange(); err == nil {
			err = a.reporter.ExportSalesSummary(dr, format, path)
		}
	default:
		fmt.Fprintln(a.out, "Invalid choice, please try again.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Successfully exported to %s\n", path)
	return nil
}

func (a *App) handleThreshold(_ *model.Session) error {
	settings := config.GetSettings()
	fmt.Fprintf(a.out, "\nCurrent low-stock threshold: %d units\n", settings.LowStockThreshold)
	t, err := a.promptInt("New threshold: ")
	if err != nil {
		return err
	}
	settings.LowStockThreshold = t
	if err := config.SaveSettings(settings); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Low-stock threshold set to %d units.\n", config.GetSettings().LowStockThreshold)
	return nil
}

func (a *App) handleAccounts(_ *model.Session) error {
	fmt.Fprintln(a.out, "\n--- Account Management ---")
	fmt.Fprintln(a.out, "[1] Create account")
	fmt.Fprintln(a.out, "[2] Delete account")
	switch a.prompt("Enter choice: ") {
	case "1":
		username := a.prompt("Username (min 3 characters): ")
		password := a.prompt("Password (min 6 characters): ")
		role := model.Role(a.prompt("Role (MANAGER/CLERK): "))
		user, err := a.gate.CreateAccount(username, password, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Account %q created with role %s.\n", user.Username, user.Role)
	case "2":
		username := a.prompt("Username: ")
		password := a.prompt("Password: ")
		if err := a.gate.DeleteAccount(username, password); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Account %q deleted.\n", username)
	default:
		fmt.Fprintln(a.out, "Invalid choice, please try again.")
	}
	return nil
}

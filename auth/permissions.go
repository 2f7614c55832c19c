package auth

import (
	"boozetrack/apperr"
	"boozetrack/model"
)

// Operation names one callable core operation for the capability table.
type Operation string

const (
	OpProductAdd         Operation = "product.add"
	OpProductUpdate      Operation = "product.update"
	OpProductView        Operation = "product.view"
	OpReceiveStock       Operation = "stock.receive"
	OpLogLoss            Operation = "stock.loss"
	OpStockHistory       Operation = "stock.history"
	OpSell               Operation = "sale.record"
	OpLastSale           Operation = "sale.last"
	OpSalesHistory       Operation = "sale.history"
	OpTransactionDetail  Operation = "sale.detail"
	OpLowStockReport     Operation = "report.low_stock"
	OpInventoryValue     Operation = "report.inventory_value"
	OpSalesSummary       Operation = "report.sales_summary"
	OpExportReport       Operation = "report.export"
	OpConfigureThreshold Operation = "settings.threshold"
	OpManageAccounts     Operation = "accounts.manage"
)

// requiredRole is the static capability table: the minimal role each
// operation needs. MANAGER outranks CLERK, so a manager passes every clerk
// entry.
var requiredRole = map[Operation]model.Role{
	OpProductAdd:         model.RoleManager,
	OpProductUpdate:      model.RoleManager,
	OpProductView:        model.RoleClerk,
	OpReceiveStock:       model.RoleClerk,
	OpLogLoss:            model.RoleClerk,
	OpStockHistory:       model.RoleClerk,
	OpSell:               model.RoleClerk,
	OpLastSale:           model.RoleClerk,
	OpSalesHistory:       model.RoleClerk,
	OpTransactionDetail:  model.RoleClerk,
	OpLowStockReport:     model.RoleManager,
	OpInventoryValue:     model.RoleManager,
	OpSalesSummary:       model.RoleManager,
	OpExportReport:       model.RoleManager,
	OpConfigureThreshold: model.RoleManager,
	OpManageAccounts:     model.RoleManager,
}

// Authorize checks the session's role against the capability table. A nil
// session means no login happened.
func Authorize(session *model.Session, op Operation) error {
	if session == nil {
		return apperr.Authentication()
	}
	required, ok := requiredRole[op]
	if !ok {
		return apperr.Authorization("unknown operation %q", op)
	}
	if session.Role.Rank() < required.Rank() {
		return apperr.Authorization("role %s may not perform %s (requires %s)",
			session.Role, op, required)
	}
	return nil
}

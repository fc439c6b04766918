package reception

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
)

// StockAdjuster puerto hacia el ledger de inventario (implementado por inventory.StockLedger).
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID string, change int, reason, performedBy string) (*inventory.LedgerResult, error)
}

var _ StockAdjuster = (*inventory.StockLedger)(nil)

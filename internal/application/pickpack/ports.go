package pickpack

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// StockAdjuster puerto hacia el ledger de inventario.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID string, change int, reason, performedBy string) (*inventory.LedgerResult, error)
}

// SlipRenderer genera el documento de empaque (PDF) de una orden.
type SlipRenderer interface {
	PackingSlip(order *entity.PickPackOrder) ([]byte, error)
}

var _ StockAdjuster = (*inventory.StockLedger)(nil)

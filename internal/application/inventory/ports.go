package inventory

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del par (stock del producto, asiento del ledger).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		logRepo repository.InventoryLogRepository,
	) error) error
}

// StockObserver recibe la notificación de cambio de stock tras cada commit (monitor de alertas).
type StockObserver interface {
	MonitorStockChange(ctx context.Context, productID string) error
}

// Metrics contador de ajustes por resultado. Puede ser nil.
type Metrics interface {
	LedgerAdjustment(result string)
}

// Resultados reportados a Metrics.
const (
	ResultOK                = "ok"
	ResultInsufficientStock = "insufficient_stock"
	ResultNotFound          = "not_found"
	ResultError             = "error"
)

package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/pkg/ids"
	"github.com/jhoicas/fulfillment-core/pkg/keylock"
)

// StockLedger único escritor de Product.StockQuantity y del log de inventario.
// Cada ajuste bloquea la fila del producto (SELECT FOR UPDATE), valida que el stock no quede
// negativo, escribe cantidad y asiento en la misma transacción y hace Commit o Rollback.
type StockLedger struct {
	txRunner TxRunner
	logRepo  repository.InventoryLogRepository
	observer StockObserver
	metrics  Metrics
	locks    *keylock.Mutex
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockLedger construye el ledger. observer y metrics pueden ser nil.
func NewStockLedger(
	txRunner TxRunner,
	logRepo repository.InventoryLogRepository,
	observer StockObserver,
	metrics Metrics,
	log zerolog.Logger,
) *StockLedger {
	return &StockLedger{
		txRunner: txRunner,
		logRepo:  logRepo,
		observer: observer,
		metrics:  metrics,
		locks:    keylock.New(),
		log:      log,
		now:      time.Now,
	}
}

// LedgerResult resultado de un ajuste aplicado.
type LedgerResult struct {
	Entry            *entity.InventoryLogEntry
	PreviousQuantity int
	NewQuantity      int
}

// AdjustStock aplica change (positivo entra, negativo sale, 0 se registra igual) al producto.
// ErrNotFound si el producto no existe; ErrInsufficientStock si la cantidad quedaría negativa,
// en cuyo caso no se modifica nada. Tras el commit avisa al monitor de alertas antes de retornar.
func (l *StockLedger) AdjustStock(ctx context.Context, productID string, change int, reason, performedBy string) (*LedgerResult, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(reason) == "" || strings.TrimSpace(performedBy) == "" {
		return nil, domain.ErrInvalidInput
	}

	var res *LedgerResult
	unlock := l.locks.Lock(productID)
	err := l.txRunner.Run(ctx, func(productRepo repository.ProductRepository, logRepo repository.InventoryLogRepository) error {
		// Bloquea la fila en products para serializar escritores de otros procesos
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newQty := product.StockQuantity + change
		if newQty < 0 {
			return fmt.Errorf("%w: producto %s tiene %d, ajuste %d", domain.ErrInsufficientStock, productID, product.StockQuantity, change)
		}
		if err := productRepo.UpdateStockQuantity(ctx, productID, newQty); err != nil {
			return err
		}
		entry := &entity.InventoryLogEntry{
			ID:          ids.New(ids.PrefixInventoryLog),
			ProductID:   productID,
			ProductName: product.Name,
			Change:      change,
			Reason:      reason,
			PerformedBy: performedBy,
			CreatedAt:   l.now(),
		}
		if err := logRepo.Append(ctx, entry); err != nil {
			return err
		}
		res = &LedgerResult{Entry: entry, PreviousQuantity: product.StockQuantity, NewQuantity: newQty}
		return nil
	})
	unlock()

	l.record(err)
	if err != nil {
		return nil, err
	}

	l.log.Debug().
		Str("product_id", productID).
		Int("change", change).
		Int("new_quantity", res.NewQuantity).
		Str("performed_by", performedBy).
		Msg("ajuste de stock registrado")

	if l.observer != nil {
		if err := l.observer.MonitorStockChange(ctx, productID); err != nil {
			l.log.Warn().Err(err).Str("product_id", productID).Msg("monitor de alertas falló")
		}
	}
	return res, nil
}

// GetLogs devuelve los asientos del producto (o todos si productID es vacío), más recientes primero.
func (l *StockLedger) GetLogs(ctx context.Context, productID string) ([]*entity.InventoryLogEntry, error) {
	return l.logRepo.List(ctx, productID)
}

func (l *StockLedger) record(err error) {
	if l.metrics == nil {
		return
	}
	switch {
	case err == nil:
		l.metrics.LedgerAdjustment(ResultOK)
	case errors.Is(err, domain.ErrInsufficientStock):
		l.metrics.LedgerAdjustment(ResultInsufficientStock)
	case errors.Is(err, domain.ErrNotFound):
		l.metrics.LedgerAdjustment(ResultNotFound)
	default:
		l.metrics.LedgerAdjustment(ResultError)
	}
}

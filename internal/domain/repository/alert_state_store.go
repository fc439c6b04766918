package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// AlertStateStore estado de deduplicación de alertas de stock por producto.
type AlertStateStore interface {
	// MarkIfAbsent marca la bandera de forma atómica; true si no estaba marcada.
	MarkIfAbsent(ctx context.Context, productID string, flag entity.AlertState) (bool, error)
	Clear(ctx context.Context, productID string, flags entity.AlertState) error
	Get(ctx context.Context, productID string) (entity.AlertState, error)
}

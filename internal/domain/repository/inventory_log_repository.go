package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// InventoryLogRepository puerto de persistencia del ledger (solo inserción).
type InventoryLogRepository interface {
	Append(ctx context.Context, entry *entity.InventoryLogEntry) error
	// List devuelve los asientos más recientes primero. productID vacío = todos.
	List(ctx context.Context, productID string) ([]*entity.InventoryLogEntry, error)
}

package memory

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo log de inventario en memoria (solo inserción).
type InventoryLogRepo struct {
	s *Store
}

// Append agrega un asiento.
func (r *InventoryLogRepo) Append(_ context.Context, entry *entity.InventoryLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := *entry
	r.s.logs = append(r.s.logs, &e)
	return nil
}

// List devuelve los asientos más recientes primero.
func (r *InventoryLogRepo) List(_ context.Context, productID string) ([]*entity.InventoryLogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.listLogsLocked(productID), nil
}

func (s *Store) listLogsLocked(productID string) []*entity.InventoryLogEntry {
	out := make([]*entity.InventoryLogEntry, 0, len(s.logs))
	// Recorrido inverso: a igual CreatedAt, el último insertado queda primero.
	for i := len(s.logs) - 1; i >= 0; i-- {
		e := s.logs[i]
		if productID != "" && e.ProductID != productID {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sortLogsNewestFirst(out)
	return out
}

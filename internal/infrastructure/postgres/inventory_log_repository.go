package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo tabla inventory_log (solo INSERT).
type InventoryLogRepo struct {
	q Querier
}

// NewInventoryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryLogRepository(q Querier) *InventoryLogRepo {
	return &InventoryLogRepo{q: q}
}

// Append inserta un asiento.
func (r *InventoryLogRepo) Append(ctx context.Context, e *entity.InventoryLogEntry) error {
	query := `
		INSERT INTO inventory_log (id, product_id, product_name, change, reason, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.ProductID, e.ProductName, e.Change, e.Reason, e.PerformedBy, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

// List asientos más recientes primero; el ID (ULID) desempata dentro del mismo instante.
func (r *InventoryLogRepo) List(ctx context.Context, productID string) ([]*entity.InventoryLogEntry, error) {
	query := `
		SELECT id, product_id, product_name, change, reason, performed_by, created_at
		FROM inventory_log
		WHERE ($1 = '' OR product_id = $1)
		ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory log: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryLogEntry, error) {
		var e entity.InventoryLogEntry
		err := row.Scan(&e.ID, &e.ProductID, &e.ProductName, &e.Change, &e.Reason, &e.PerformedBy, &e.CreatedAt)
		return &e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan inventory log: %w", err)
	}
	return entries, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.PickPackOrderRepository = (*PickPackOrderRepo)(nil)

// PickPackOrderRepo tabla pick_pack_orders; los ítems viven en una columna JSONB.
type PickPackOrderRepo struct {
	q Querier
}

// NewPickPackOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPickPackOrderRepository(q Querier) *PickPackOrderRepo {
	return &PickPackOrderRepo{q: q}
}

type pickPackItemRow struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location,omitempty"`
	Picked      bool   `json:"picked"`
	Packed      bool   `json:"packed"`
}

func toPickPackRows(items []entity.PickPackItem) []pickPackItemRow {
	out := make([]pickPackItemRow, len(items))
	for i, it := range items {
		out[i] = pickPackItemRow(it)
	}
	return out
}

const pickPackColumns = `id, order_id, order_number, customer_name, shipping_address, items, status, priority,
	assigned_to, tracking_number, created_at, picked_at, packed_at, shipped_at`

func scanPickPack(row pgx.Row) (*entity.PickPackOrder, error) {
	var (
		o     entity.PickPackOrder
		items []pickPackItemRow
	)
	err := row.Scan(&o.ID, &o.OrderID, &o.OrderNumber, &o.CustomerName, &o.ShippingAddress, &items, &o.Status, &o.Priority,
		&o.AssignedTo, &o.TrackingNumber, &o.CreatedAt, &o.PickedAt, &o.PackedAt, &o.ShippedAt)
	if err != nil {
		return nil, err
	}
	o.Items = make([]entity.PickPackItem, len(items))
	for i, it := range items {
		o.Items[i] = entity.PickPackItem(it)
	}
	return &o, nil
}

// Create inserta una orden.
func (r *PickPackOrderRepo) Create(ctx context.Context, o *entity.PickPackOrder) error {
	query := `
		INSERT INTO pick_pack_orders (` + pickPackColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderID, o.OrderNumber, o.CustomerName, o.ShippingAddress, toPickPackRows(o.Items),
		string(o.Status), string(o.Priority), o.AssignedTo, o.TrackingNumber,
		o.CreatedAt, o.PickedAt, o.PackedAt, o.ShippedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("orden pick/pack %s: %w", o.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert pick pack order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *PickPackOrderRepo) GetByID(ctx context.Context, id string) (*entity.PickPackOrder, error) {
	o, err := scanPickPack(r.q.QueryRow(ctx, `SELECT `+pickPackColumns+` FROM pick_pack_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick pack order: %w", err)
	}
	return o, nil
}

// Update reemplaza la orden completa. Una fila ya despachada no se toca.
func (r *PickPackOrderRepo) Update(ctx context.Context, o *entity.PickPackOrder) error {
	query := `
		UPDATE pick_pack_orders SET
			order_id = $2, order_number = $3, customer_name = $4, shipping_address = $5, items = $6,
			status = $7, priority = $8, assigned_to = $9, tracking_number = $10,
			picked_at = $11, packed_at = $12, shipped_at = $13
		WHERE id = $1 AND status <> $14`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.OrderID, o.OrderNumber, o.CustomerName, o.ShippingAddress, toPickPackRows(o.Items),
		string(o.Status), string(o.Priority), o.AssignedTo, o.TrackingNumber,
		o.PickedAt, o.PackedAt, o.ShippedAt, string(entity.PickPackShipped),
	)
	if err != nil {
		return fmt.Errorf("update pick pack order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.rejected(ctx, o.ID)
	}
	return nil
}

// ClaimShipment UPDATE condicional ready_to_ship -> shipped con RETURNING de la fila despachada.
func (r *PickPackOrderRepo) ClaimShipment(ctx context.Context, id, trackingNumber string, at time.Time) (*entity.PickPackOrder, error) {
	query := `
		UPDATE pick_pack_orders SET
			status = $2, shipped_at = $3,
			tracking_number = CASE WHEN $4 = '' THEN tracking_number ELSE $4 END
		WHERE id = $1 AND status = $5
		RETURNING ` + pickPackColumns
	o, err := scanPickPack(r.q.QueryRow(ctx, query,
		id, string(entity.PickPackShipped), at, trackingNumber, string(entity.PickPackReadyToShip),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim pick pack shipment: %w", err)
	}
	return o, nil
}

// Delete elimina la orden salvo que ya esté despachada.
func (r *PickPackOrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pick_pack_orders WHERE id = $1 AND status <> $2`,
		id, string(entity.PickPackShipped))
	if err != nil {
		return fmt.Errorf("delete pick pack order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.rejected(ctx, id)
	}
	return nil
}

func (r *PickPackOrderRepo) rejected(ctx context.Context, id string) error {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pick_pack_orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check pick pack order: %w", err)
	}
	if !exists {
		return fmt.Errorf("orden pick/pack %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("orden pick/pack %s: %w", id, domain.ErrAlreadyShipped)
}

// List aplica el filtro. El orden de cola lo aplica el caso de uso.
func (r *PickPackOrderRepo) List(ctx context.Context, f repository.PickPackFilter) ([]*entity.PickPackOrder, error) {
	query := `
		SELECT ` + pickPackColumns + `
		FROM pick_pack_orders
		WHERE (cardinality($1::text[]) = 0 OR status = ANY($1::text[]))
		  AND ($2 = '' OR assigned_to = $2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, textArray(f.Statuses), f.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("list pick pack orders: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.PickPackOrder, error) {
		return scanPickPack(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan pick pack order: %w", err)
	}
	return out, nil
}

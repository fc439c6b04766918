package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo escritura del estado de órdenes (tabla orders del componente de órdenes).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// UpdateStatus cambia el estado; tracking vacío conserva el número de guía actual.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, status, trackingNumber string) error {
	query := `
		UPDATE orders SET
			status = $2,
			tracking_number = COALESCE(NULLIF($3, ''), tracking_number),
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, orderID, status, trackingNumber)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return expectOne(tag, "orden", orderID)
}

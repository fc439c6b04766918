package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// PickPackFilter filtros de listado. Campos vacíos no filtran.
type PickPackFilter struct {
	Statuses   []entity.PickPackStatus
	AssignedTo string
}

// PickPackOrderRepository puerto de persistencia para órdenes de pick/pack.
type PickPackOrderRepository interface {
	Create(ctx context.Context, o *entity.PickPackOrder) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.PickPackOrder, error)
	// Update reemplaza una orden no despachada. ErrAlreadyShipped si la guardada ya está shipped.
	Update(ctx context.Context, o *entity.PickPackOrder) error
	// ClaimShipment pasa a shipped una orden ready_to_ship en una sola escritura condicional.
	// trackingNumber vacío conserva el guardado. nil, nil si no existe o no está lista.
	ClaimShipment(ctx context.Context, id, trackingNumber string, at time.Time) (*entity.PickPackOrder, error)
	// Delete ErrAlreadyShipped si la orden está shipped.
	Delete(ctx context.Context, id string) error
	// List no garantiza orden; la cola la ordena entity.SortQueue.
	List(ctx context.Context, filter PickPackFilter) ([]*entity.PickPackOrder, error)
}

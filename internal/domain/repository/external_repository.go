package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// UserRepository puerto hacia el directorio de usuarios (solo lectura).
type UserRepository interface {
	ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
}

// OrderRepository puerto hacia el componente de órdenes. El núcleo solo cambia el estado.
type OrderRepository interface {
	// UpdateStatus trackingNumber vacío = no se modifica el número de guía.
	UpdateStatus(ctx context.Context, orderID, status, trackingNumber string) error
}

package repository

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// ProductRepository puerto hacia el catálogo de productos (dueño externo).
// El núcleo solo lee productos y escribe StockQuantity desde el ledger.
type ProductRepository interface {
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStockQuantity(ctx context.Context, id string, quantity int) error
	List(ctx context.Context) ([]*entity.Product, error)
}

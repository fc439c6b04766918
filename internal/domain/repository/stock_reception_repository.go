package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// ReceptionFilter filtros de listado. Campos vacíos no filtran.
type ReceptionFilter struct {
	Statuses   []entity.ReceptionStatus
	SupplierID string
}

// StockReceptionRepository puerto de persistencia para recepciones de proveedor.
type StockReceptionRepository interface {
	Create(ctx context.Context, r *entity.StockReception) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockReception, error)
	// Update reemplaza una recepción abierta. ErrNotEditable si la guardada ya está cerrada.
	Update(ctx context.Context, r *entity.StockReception) error
	// ClaimCompletion pasa a completed una recepción abierta en una sola escritura condicional
	// y la devuelve ya cerrada. nil, nil si no existe o ya no está abierta.
	ClaimCompletion(ctx context.Context, id, receivedBy string, at time.Time) (*entity.StockReception, error)
	// Delete ErrNotEditable si la recepción está completed.
	Delete(ctx context.Context, id string) error
	// List ordena por CreatedAt ascendente.
	List(ctx context.Context, filter ReceptionFilter) ([]*entity.StockReception, error)
}

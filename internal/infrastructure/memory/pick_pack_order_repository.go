package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.PickPackOrderRepository = (*PickPackOrderRepo)(nil)

// PickPackOrderRepo órdenes pick/pack en memoria.
type PickPackOrderRepo struct {
	s *Store
}

// Create persiste una orden nueva.
func (r *PickPackOrderRepo) Create(_ context.Context, o *entity.PickPackOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pickPack[o.ID]; ok {
		return fmt.Errorf("orden pick/pack %s: %w", o.ID, domain.ErrConflict)
	}
	r.s.pickPack[o.ID] = o.Clone()
	return nil
}

// GetByID obtiene una orden por ID.
func (r *PickPackOrderRepo) GetByID(_ context.Context, id string) (*entity.PickPackOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.pickPack[id].Clone(), nil
}

// Update reemplaza la orden completa si la guardada no está despachada.
func (r *PickPackOrderRepo) Update(_ context.Context, o *entity.PickPackOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pickPack[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.IsShipped() {
		return fmt.Errorf("orden pick/pack %s: %w", o.ID, domain.ErrAlreadyShipped)
	}
	r.s.pickPack[o.ID] = o.Clone()
	return nil
}

// ClaimShipment despacha la orden si está ready_to_ship; comprobación y escritura bajo el mismo lock.
func (r *PickPackOrderRepo) ClaimShipment(_ context.Context, id, trackingNumber string, at time.Time) (*entity.PickPackOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pickPack[id]
	if !ok || cur.Status != entity.PickPackReadyToShip {
		return nil, nil
	}
	cur.Status = entity.PickPackShipped
	cur.ShippedAt = &at
	if trackingNumber != "" {
		cur.TrackingNumber = trackingNumber
	}
	return cur.Clone(), nil
}

// Delete elimina la orden. Las despachadas no se borran.
func (r *PickPackOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.pickPack[id]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.IsShipped() {
		return fmt.Errorf("orden pick/pack %s: %w", id, domain.ErrAlreadyShipped)
	}
	delete(r.s.pickPack, id)
	return nil
}

// List aplica el filtro; el orden lo decide el caller.
func (r *PickPackOrderRepo) List(_ context.Context, f repository.PickPackFilter) ([]*entity.PickPackOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PickPackOrder, 0, len(r.s.pickPack))
	for _, o := range r.s.pickPack {
		if f.AssignedTo != "" && o.AssignedTo != f.AssignedTo {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, o.Status) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.StockReceptionRepository = (*StockReceptionRepo)(nil)

// StockReceptionRepo recepciones en memoria.
type StockReceptionRepo struct {
	s *Store
}

// Create persiste una recepción nueva. ErrConflict si el ID ya existe.
func (r *StockReceptionRepo) Create(_ context.Context, rec *entity.StockReception) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.receptions[rec.ID]; ok {
		return fmt.Errorf("recepción %s: %w", rec.ID, domain.ErrConflict)
	}
	r.s.receptions[rec.ID] = rec.Clone()
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *StockReceptionRepo) GetByID(_ context.Context, id string) (*entity.StockReception, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.receptions[id].Clone(), nil
}

// Update reemplaza la recepción completa si la guardada sigue abierta.
func (r *StockReceptionRepo) Update(_ context.Context, rec *entity.StockReception) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.receptions[rec.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !cur.Status.IsOpen() {
		return fmt.Errorf("recepción %s en estado %s: %w", rec.ID, cur.Status, domain.ErrNotEditable)
	}
	r.s.receptions[rec.ID] = rec.Clone()
	return nil
}

// ClaimCompletion cierra la recepción si sigue abierta; la comprobación y la escritura ocurren bajo el mismo lock.
func (r *StockReceptionRepo) ClaimCompletion(_ context.Context, id, receivedBy string, at time.Time) (*entity.StockReception, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.receptions[id]
	if !ok || !cur.Status.IsOpen() {
		return nil, nil
	}
	cur.Status = entity.ReceptionCompleted
	cur.ReceivedBy = receivedBy
	cur.ReceivedDate = &at
	return cur.Clone(), nil
}

// Delete elimina la recepción. Las completadas no se borran.
func (r *StockReceptionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.receptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status == entity.ReceptionCompleted {
		return fmt.Errorf("recepción %s: %w", id, domain.ErrNotEditable)
	}
	delete(r.s.receptions, id)
	return nil
}

// List aplica el filtro y ordena por CreatedAt ascendente.
func (r *StockReceptionRepo) List(_ context.Context, f repository.ReceptionFilter) ([]*entity.StockReception, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockReception, 0, len(r.s.receptions))
	for _, rec := range r.s.receptions {
		if f.SupplierID != "" && rec.SupplierID != f.SupplierID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, rec.Status) {
			continue
		}
		out = append(out, rec.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func contains[T comparable](list []T, v T) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

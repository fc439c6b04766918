package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ repository.AlertStateStore = (*AlertStateStore)(nil)

// AlertStateStore banderas de deduplicación de alertas en memoria del proceso.
type AlertStateStore struct {
	mu     sync.Mutex
	states map[string]entity.AlertState
}

// NewAlertStateStore crea el store vacío.
func NewAlertStateStore() *AlertStateStore {
	return &AlertStateStore{states: make(map[string]entity.AlertState)}
}

// MarkIfAbsent marca flag si no estaba; true si esta llamada la marcó.
func (s *AlertStateStore) MarkIfAbsent(_ context.Context, productID string, flag entity.AlertState) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.states[productID]
	if cur.Has(flag) {
		return false, nil
	}
	s.states[productID] = cur.With(flag)
	return true, nil
}

// Clear quita las banderas indicadas.
func (s *AlertStateStore) Clear(_ context.Context, productID string, flags entity.AlertState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.states[productID].Without(flags)
	if next == entity.AlertNone {
		delete(s.states, productID)
		return nil
	}
	s.states[productID] = next
	return nil
}

// Get devuelve las banderas vigentes del producto.
func (s *AlertStateStore) Get(_ context.Context, productID string) (entity.AlertState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[productID], nil
}

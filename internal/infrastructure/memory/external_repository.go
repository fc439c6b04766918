package memory

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var (
	_ repository.UserRepository  = (*UserRepo)(nil)
	_ repository.OrderRepository = (*OrderRepo)(nil)
)

// UserRepo directorio de usuarios en memoria.
type UserRepo struct {
	s *Store
}

// ListByRoles devuelve los usuarios cuyo rol está en roles, en orden de alta.
func (r *UserRepo) ListByRoles(_ context.Context, roles ...string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if contains(roles, u.Role) {
			u := u
			out = append(out, &u)
		}
	}
	return out, nil
}

// OrderRepo componente de órdenes en memoria.
type OrderRepo struct {
	s *Store
}

// UpdateStatus ErrNotFound si la orden no fue registrada con SeedOrder.
func (r *OrderRepo) UpdateStatus(_ context.Context, orderID, status, trackingNumber string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	if trackingNumber != "" {
		o.TrackingNumber = trackingNumber
	}
	r.s.orders[orderID] = o
	return nil
}

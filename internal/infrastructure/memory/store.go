// Package memory adaptadores en memoria de los puertos de persistencia.
// Sirven para STORE_DRIVER=memory (cargado con LoadSeedFile + ApplySeed) y como fakes en tests.
// Todo lo que sale de aquí es una copia.
package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

// OrderState estado registrado de una orden externa.
type OrderState struct {
	Status         string
	TrackingNumber string
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	products   map[string]entity.Product
	logs       []*entity.InventoryLogEntry
	receptions map[string]*entity.StockReception
	pickPack   map[string]*entity.PickPackOrder
	users      []entity.User
	orders     map[string]OrderState
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		receptions: make(map[string]*entity.StockReception),
		pickPack:   make(map[string]*entity.PickPackOrder),
		orders:     make(map[string]OrderState),
	}
}

// SeedProduct inserta o reemplaza un producto del catálogo.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// SeedUser agrega un usuario al directorio.
func (s *Store) SeedUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// SeedOrder registra una orden externa con estado inicial.
func (s *Store) SeedOrder(orderID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderID] = OrderState{Status: status}
}

// Order devuelve el estado registrado de una orden.
func (s *Store) Order(orderID string) (OrderState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	return o, ok
}

// Products repositorio de productos sobre este store.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// InventoryLogs repositorio del ledger sobre este store.
func (s *Store) InventoryLogs() *InventoryLogRepo { return &InventoryLogRepo{s: s} }

// Receptions repositorio de recepciones sobre este store.
func (s *Store) Receptions() *StockReceptionRepo { return &StockReceptionRepo{s: s} }

// PickPack repositorio de órdenes pick/pack sobre este store.
func (s *Store) PickPack() *PickPackOrderRepo { return &PickPackOrderRepo{s: s} }

// Users directorio de usuarios sobre este store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Orders componente de órdenes sobre este store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// TxRunner runner transaccional sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func sortLogsNewestFirst(entries []*entity.InventoryLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

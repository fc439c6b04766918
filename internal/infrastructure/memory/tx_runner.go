package memory

import (
	"context"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn bajo el lock de escritura del store. Los cambios se acumulan
// y solo se aplican si fn retorna nil (Rollback = descartar el buffer).
type TxRunner struct {
	s *Store
}

// Run ejecuta fn con repositorios atados a la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	logRepo repository.InventoryLogRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := &memTx{s: r.s, stock: make(map[string]int)}
	if err := fn(&txProductRepo{tx: tx}, &txLogRepo{tx: tx}); err != nil {
		return err
	}
	// Commit
	for id, qty := range tx.stock {
		p := r.s.products[id]
		p.StockQuantity = qty
		r.s.products[id] = p
	}
	r.s.logs = append(r.s.logs, tx.logs...)
	return nil
}

type memTx struct {
	s     *Store
	stock map[string]int
	logs  []*entity.InventoryLogEntry
}

type txProductRepo struct {
	tx *memTx
}

func (r *txProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.tx.s.products[id]
	if !ok {
		return nil, nil
	}
	if qty, staged := r.tx.stock[id]; staged {
		p.StockQuantity = qty
	}
	return &p, nil
}

func (r *txProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *txProductRepo) UpdateStockQuantity(_ context.Context, id string, quantity int) error {
	if _, ok := r.tx.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	r.tx.stock[id] = quantity
	return nil
}

func (r *txProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.tx.s.products))
	for id := range r.tx.s.products {
		p, _ := r.GetByID(ctx, id)
		out = append(out, p)
	}
	return out, nil
}

type txLogRepo struct {
	tx *memTx
}

func (r *txLogRepo) Append(_ context.Context, entry *entity.InventoryLogEntry) error {
	e := *entry
	r.tx.logs = append(r.tx.logs, &e)
	return nil
}

func (r *txLogRepo) List(_ context.Context, productID string) ([]*entity.InventoryLogEntry, error) {
	all := r.tx.s.listLogsLocked(productID)
	for _, e := range r.tx.logs {
		if productID == "" || e.ProductID == productID {
			c := *e
			all = append([]*entity.InventoryLogEntry{&c}, all...)
		}
	}
	return all, nil
}

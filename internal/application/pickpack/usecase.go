package pickpack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/pkg/ids"
	"github.com/jhoicas/fulfillment-core/pkg/keylock"
	"github.com/jhoicas/fulfillment-core/pkg/textmatch"
)

// OrderStatusShipped estado que se escribe en la orden externa al despachar.
const OrderStatusShipped = "shipped"

// PickPackUseCase flujo de bodega: recoger, empacar y despachar órdenes de cliente.
// El estado nunca se asigna a mano salvo shipped; siempre sale de entity.DeriveStatus.
type PickPackUseCase struct {
	locks  *keylock.Mutex // lectura-modificación-escritura por orden dentro del proceso
	repo   repository.PickPackOrderRepository
	orders repository.OrderRepository
	ledger StockAdjuster
	slips  SlipRenderer
	log    zerolog.Logger
	now    func() time.Time
}

// NewPickPackUseCase construye el caso de uso. slips puede ser nil (PackingSlip devolverá error).
func NewPickPackUseCase(
	repo repository.PickPackOrderRepository,
	orders repository.OrderRepository,
	ledger StockAdjuster,
	slips SlipRenderer,
	log zerolog.Logger,
) *PickPackUseCase {
	return &PickPackUseCase{locks: keylock.New(), repo: repo, orders: orders, ledger: ledger, slips: slips, log: log, now: time.Now}
}

// ItemInput línea a preparar.
type ItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	Location    string
}

// CreateInput datos para abrir la preparación de una orden.
type CreateInput struct {
	OrderID         string
	OrderNumber     string
	CustomerName    string
	ShippingAddress string
	Priority        entity.Priority // vacío = normal
	Items           []ItemInput
}

// Create abre una orden pick/pack con ID PP-<ULID>.
func (uc *PickPackUseCase) Create(ctx context.Context, in CreateInput) (*entity.PickPackOrder, error) {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.OrderNumber) == "" {
		return nil, fmt.Errorf("%w: order_id y order_number requeridos", domain.ErrInvalidInput)
	}
	prio := in.Priority
	if prio == "" {
		prio = entity.PriorityNormal
	}
	if !prio.IsValid() {
		return nil, fmt.Errorf("%w: prioridad %q", domain.ErrInvalidInput, prio)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Items))
	items := make([]entity.PickPackItem, 0, len(in.Items))
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 || seen[it.ProductID] {
			return nil, fmt.Errorf("%w: ítem %q inválido", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
		items = append(items, entity.PickPackItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Location:    it.Location,
		})
	}
	o := &entity.PickPackOrder{
		ID:              ids.New(ids.PrefixPickPack),
		OrderID:         in.OrderID,
		OrderNumber:     in.OrderNumber,
		CustomerName:    in.CustomerName,
		ShippingAddress: in.ShippingAddress,
		Items:           items,
		Priority:        prio,
		CreatedAt:       uc.now(),
	}
	o.Recompute(o.CreatedAt)
	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkItemPicked marca el ítem como recogido.
func (uc *PickPackUseCase) MarkItemPicked(ctx context.Context, id, productID string) (*entity.PickPackOrder, error) {
	return uc.mutateItem(ctx, id, productID, func(it *entity.PickPackItem) error {
		it.Picked = true
		return nil
	})
}

// MarkItemPacked marca el ítem como empacado. ErrInvalidTransition si aún no fue recogido.
func (uc *PickPackUseCase) MarkItemPacked(ctx context.Context, id, productID string) (*entity.PickPackOrder, error) {
	return uc.mutateItem(ctx, id, productID, func(it *entity.PickPackItem) error {
		if !it.Picked {
			return fmt.Errorf("%w: ítem %s sin recoger", domain.ErrInvalidTransition, it.ProductID)
		}
		it.Packed = true
		return nil
	})
}

// ResetItem limpia ambas banderas del ítem (mal recogido).
func (uc *PickPackUseCase) ResetItem(ctx context.Context, id, productID string) (*entity.PickPackOrder, error) {
	return uc.mutateItem(ctx, id, productID, func(it *entity.PickPackItem) error {
		it.Picked, it.Packed = false, false
		return nil
	})
}

func (uc *PickPackUseCase) mutateItem(ctx context.Context, id, productID string, fn func(*entity.PickPackItem) error) (*entity.PickPackOrder, error) {
	defer uc.locks.Lock(id)()

	o, err := uc.mustGetOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	item := o.Item(productID)
	if item == nil {
		return nil, fmt.Errorf("ítem %s en orden %s: %w", productID, id, domain.ErrNotFound)
	}
	if err := fn(item); err != nil {
		return nil, err
	}
	o.Recompute(uc.now())
	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// AssignOrder asigna la orden a un bodeguero; una orden pendiente pasa a picking.
func (uc *PickPackUseCase) AssignOrder(ctx context.Context, id, userID string) (*entity.PickPackOrder, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrInvalidInput
	}
	defer uc.locks.Lock(id)()

	o, err := uc.mustGetOpen(ctx, id)
	if err != nil {
		return nil, err
	}
	o.AssignedTo = userID
	o.Recompute(uc.now())
	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete elimina una orden no despachada.
func (uc *PickPackUseCase) Delete(ctx context.Context, id string) error {
	defer uc.locks.Lock(id)()

	if _, err := uc.mustGetOpen(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// GetByID devuelve nil, nil si no existe.
func (uc *PickPackUseCase) GetByID(ctx context.Context, id string) (*entity.PickPackOrder, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetAll todas las órdenes en orden de cola.
func (uc *PickPackUseCase) GetAll(ctx context.Context) ([]*entity.PickPackOrder, error) {
	return uc.list(ctx, repository.PickPackFilter{})
}

// GetByStatus órdenes en un estado, en orden de cola.
func (uc *PickPackUseCase) GetByStatus(ctx context.Context, status entity.PickPackStatus) ([]*entity.PickPackOrder, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.list(ctx, repository.PickPackFilter{Statuses: []entity.PickPackStatus{status}})
}

// GetByAssignee órdenes asignadas a un usuario, en orden de cola.
func (uc *PickPackUseCase) GetByAssignee(ctx context.Context, userID string) ([]*entity.PickPackOrder, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.list(ctx, repository.PickPackFilter{AssignedTo: userID})
}

// GetPendingOrders toda orden no despachada, en orden de cola.
func (uc *PickPackUseCase) GetPendingOrders(ctx context.Context) ([]*entity.PickPackOrder, error) {
	return uc.list(ctx, repository.PickPackFilter{Statuses: []entity.PickPackStatus{
		entity.PickPackPending, entity.PickPackPicking, entity.PickPackPacking, entity.PickPackReadyToShip,
	}})
}

// Search coincidencia sin mayúsculas sobre número de orden y cliente.
func (uc *PickPackUseCase) Search(ctx context.Context, query string) ([]*entity.PickPackOrder, error) {
	list, err := uc.list(ctx, repository.PickPackFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PickPackOrder, 0, len(list))
	for _, o := range list {
		if textmatch.ContainsFold(query, o.OrderNumber, o.CustomerName) {
			out = append(out, o)
		}
	}
	return out, nil
}

// PackingSlip PDF con ítems, ubicaciones y estado de pick/pack.
func (uc *PickPackUseCase) PackingSlip(ctx context.Context, id string) ([]byte, error) {
	if uc.slips == nil {
		return nil, fmt.Errorf("generador de documentos no configurado")
	}
	o, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.slips.PackingSlip(o)
}

func (uc *PickPackUseCase) list(ctx context.Context, f repository.PickPackFilter) ([]*entity.PickPackOrder, error) {
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	entity.SortQueue(list)
	return list, nil
}

func (uc *PickPackUseCase) mustGet(ctx context.Context, id string) (*entity.PickPackOrder, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("orden pick/pack %s: %w", id, domain.ErrNotFound)
	}
	return o, nil
}

func (uc *PickPackUseCase) mustGetOpen(ctx context.Context, id string) (*entity.PickPackOrder, error) {
	o, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsShipped() {
		return nil, domain.ErrAlreadyShipped
	}
	return o, nil
}

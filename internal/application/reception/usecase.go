package reception

import (
	"context"
	"fmt"
	"sort"
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

// StockReceptionUseCase flujo de recepción de mercancía: alta, conteo físico y cierre contra el ledger.
type StockReceptionUseCase struct {
	locks  *keylock.Mutex // lectura-modificación-escritura por recepción dentro del proceso
	repo   repository.StockReceptionRepository
	ledger StockAdjuster
	log    zerolog.Logger
	now    func() time.Time
}

// NewStockReceptionUseCase construye el caso de uso.
func NewStockReceptionUseCase(repo repository.StockReceptionRepository, ledger StockAdjuster, log zerolog.Logger) *StockReceptionUseCase {
	return &StockReceptionUseCase{locks: keylock.New(), repo: repo, ledger: ledger, log: log, now: time.Now}
}

// ItemInput línea de una recepción nueva. ReceivedQuantity nil = igual a ExpectedQuantity.
type ItemInput struct {
	ProductID        string
	ProductName      string
	ExpectedQuantity int
	ReceivedQuantity *int
}

// CreateInput datos de alta de una recepción.
type CreateInput struct {
	SupplierID      string
	SupplierName    string
	ReferenceNumber string
	ExpectedDate    *time.Time
	Status          entity.ReceptionStatus // vacío = pending
	Items           []ItemInput
}

// UpdateInput cambios parciales; nil = sin cambio. Items no nil reemplaza todas las líneas.
type UpdateInput struct {
	SupplierID      *string
	SupplierName    *string
	ReferenceNumber *string
	ExpectedDate    *time.Time
	Status          *entity.ReceptionStatus
	Items           []ItemInput
}

// Add crea una recepción con ID SR-<ULID>.
func (uc *StockReceptionUseCase) Add(ctx context.Context, in CreateInput) (*entity.StockReception, error) {
	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, fmt.Errorf("%w: supplier_name requerido", domain.ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = entity.ReceptionPending
	}
	if !status.IsOpen() {
		return nil, fmt.Errorf("%w: estado inicial %q no permitido", domain.ErrInvalidInput, status)
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	r := &entity.StockReception{
		ID:              ids.New(ids.PrefixStockReception),
		SupplierID:      in.SupplierID,
		SupplierName:    in.SupplierName,
		ReferenceNumber: in.ReferenceNumber,
		Items:           items,
		Status:          status,
		CreatedAt:       uc.now(),
		ExpectedDate:    in.ExpectedDate,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func buildItems(in []ItemInput) ([]entity.StockReceptionItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la recepción debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in))
	items := make([]entity.StockReceptionItem, 0, len(in))
	for _, it := range in {
		if strings.TrimSpace(it.ProductID) == "" || it.ExpectedQuantity < 0 {
			return nil, fmt.Errorf("%w: ítem inválido", domain.ErrInvalidInput)
		}
		if seen[it.ProductID] {
			return nil, fmt.Errorf("%w: producto %s repetido", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
		received := it.ExpectedQuantity
		if it.ReceivedQuantity != nil {
			if *it.ReceivedQuantity < 0 {
				return nil, fmt.Errorf("%w: cantidad recibida negativa", domain.ErrInvalidInput)
			}
			received = *it.ReceivedQuantity
		}
		items = append(items, entity.StockReceptionItem{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			ExpectedQuantity: it.ExpectedQuantity,
			ReceivedQuantity: received,
		})
	}
	return items, nil
}

// Update modifica una recepción abierta. Completar solo es posible con CompleteReception.
func (uc *StockReceptionUseCase) Update(ctx context.Context, id string, in UpdateInput) (*entity.StockReception, error) {
	defer uc.locks.Lock(id)()

	r, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.IsOpen() {
		return nil, domain.ErrNotEditable
	}
	if in.SupplierID != nil {
		r.SupplierID = *in.SupplierID
	}
	if in.SupplierName != nil {
		if strings.TrimSpace(*in.SupplierName) == "" {
			return nil, fmt.Errorf("%w: supplier_name requerido", domain.ErrInvalidInput)
		}
		r.SupplierName = *in.SupplierName
	}
	if in.ReferenceNumber != nil {
		r.ReferenceNumber = *in.ReferenceNumber
	}
	if in.ExpectedDate != nil {
		d := *in.ExpectedDate
		r.ExpectedDate = &d
	}
	if in.Items != nil {
		items, err := buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		r.Items = items
	}
	if in.Status != nil && *in.Status != r.Status {
		if *in.Status == entity.ReceptionCompleted || !r.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, r.Status, *in.Status)
		}
		r.Status = *in.Status
	}
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete elimina una recepción que no ha sido completada (las completadas ya tienen asientos en el ledger).
func (uc *StockReceptionUseCase) Delete(ctx context.Context, id string) error {
	defer uc.locks.Lock(id)()

	r, err := uc.mustGet(ctx, id)
	if err != nil {
		return err
	}
	if r.Status == entity.ReceptionCompleted {
		return domain.ErrNotEditable
	}
	return uc.repo.Delete(ctx, id)
}

// GetByID devuelve nil, nil si no existe.
func (uc *StockReceptionUseCase) GetByID(ctx context.Context, id string) (*entity.StockReception, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetAll todas las recepciones por fecha de creación.
func (uc *StockReceptionUseCase) GetAll(ctx context.Context) ([]*entity.StockReception, error) {
	return uc.repo.List(ctx, repository.ReceptionFilter{})
}

// ListBySupplier recepciones de un proveedor.
func (uc *StockReceptionUseCase) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.StockReception, error) {
	if supplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.List(ctx, repository.ReceptionFilter{SupplierID: supplierID})
}

// ListByStatus recepciones en un estado.
func (uc *StockReceptionUseCase) ListByStatus(ctx context.Context, status entity.ReceptionStatus) ([]*entity.StockReception, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.repo.List(ctx, repository.ReceptionFilter{Statuses: []entity.ReceptionStatus{status}})
}

// GetPending recepciones abiertas ordenadas por fecha esperada (o de creación si no hay).
func (uc *StockReceptionUseCase) GetPending(ctx context.Context) ([]*entity.StockReception, error) {
	list, err := uc.repo.List(ctx, repository.ReceptionFilter{
		Statuses: []entity.ReceptionStatus{entity.ReceptionPending, entity.ReceptionInProgress},
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PendingSortKey().Before(list[j].PendingSortKey())
	})
	return list, nil
}

// Search coincidencia sin mayúsculas sobre proveedor y número de referencia.
func (uc *StockReceptionUseCase) Search(ctx context.Context, query string) ([]*entity.StockReception, error) {
	list, err := uc.repo.List(ctx, repository.ReceptionFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.StockReception, 0, len(list))
	for _, r := range list {
		if textmatch.ContainsFold(query, r.SupplierName, r.ReferenceNumber) {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpdateItemQuantity registra el conteo físico de un ítem. La primera corrección pasa la recepción a in_progress.
func (uc *StockReceptionUseCase) UpdateItemQuantity(ctx context.Context, id, productID string, receivedQuantity int) (*entity.StockReception, error) {
	defer uc.locks.Lock(id)()

	if receivedQuantity < 0 {
		return nil, fmt.Errorf("%w: cantidad recibida negativa", domain.ErrInvalidInput)
	}
	r, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.IsOpen() {
		return nil, domain.ErrNotEditable
	}
	item := r.Item(productID)
	if item == nil {
		return nil, fmt.Errorf("ítem %s en recepción %s: %w", productID, id, domain.ErrNotFound)
	}
	item.ReceivedQuantity = receivedQuantity
	if r.Status == entity.ReceptionPending {
		r.Status = entity.ReceptionInProgress
	}
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel cierra una recepción abierta sin tocar el inventario.
func (uc *StockReceptionUseCase) Cancel(ctx context.Context, id string) (*entity.StockReception, error) {
	defer uc.locks.Lock(id)()

	r, err := uc.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	switch r.Status {
	case entity.ReceptionCompleted:
		return nil, domain.ErrAlreadyCompleted
	case entity.ReceptionCancelled:
		return r, nil
	}
	r.Status = entity.ReceptionCancelled
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *StockReceptionUseCase) mustGet(ctx context.Context, id string) (*entity.StockReception, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("recepción %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

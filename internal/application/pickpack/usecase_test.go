package pickpack_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type orderRepoMock struct {
	mock.Mock
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, orderID, status, tracking string) error {
	return m.Called(ctx, orderID, status, tracking).Error(0)
}

type slipStub struct {
	got *entity.PickPackOrder
}

func (s *slipStub) PackingSlip(o *entity.PickPackOrder) ([]byte, error) {
	s.got = o
	return []byte("%PDF-stub"), nil
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.StockLedger
	uc     *pickpack.PickPackUseCase
	slips  *slipStub
}

func newFixture(t *testing.T, orders repository.OrderRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(entity.Product{ID: "P1", Name: "Widget", StockQuantity: 20})
	store.SeedProduct(entity.Product{ID: "P2", Name: "Gadget", StockQuantity: 20})
	store.SeedOrder("ORD-1", "processing")
	if orders == nil {
		orders = store.Orders()
	}
	ledger := inventory.NewStockLedger(store.TxRunner(), store.InventoryLogs(), nil, nil, zerolog.Nop())
	slips := &slipStub{}
	return &fixture{
		store:  store,
		ledger: ledger,
		slips:  slips,
		uc:     pickpack.NewPickPackUseCase(store.PickPack(), orders, ledger, slips, zerolog.Nop()),
	}
}

func (f *fixture) create(t *testing.T, in pickpack.CreateInput) *entity.PickPackOrder {
	t.Helper()
	o, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)
	return o
}

func twoItemOrder() pickpack.CreateInput {
	return pickpack.CreateInput{
		OrderID:      "ORD-1",
		OrderNumber:  "1001",
		CustomerName: "Ana Pérez",
		Items: []pickpack.ItemInput{
			{ProductID: "P1", ProductName: "Widget", Quantity: 2, Location: "A-01"},
			{ProductID: "P2", ProductName: "Gadget", Quantity: 3, Location: "B-07"},
		},
	}
}

func (f *fixture) readyOrder(t *testing.T) *entity.PickPackOrder {
	t.Helper()
	ctx := context.Background()
	o := f.create(t, twoItemOrder())
	for _, p := range []string{"P1", "P2"} {
		_, err := f.uc.MarkItemPicked(ctx, o.ID, p)
		require.NoError(t, err)
		_, err = f.uc.MarkItemPacked(ctx, o.ID, p)
		require.NoError(t, err)
	}
	return o
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_PickPackShip(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	o := f.create(t, twoItemOrder())
	assert.Regexp(t, `^PP-`, o.ID)
	assert.Equal(t, entity.PickPackPending, o.Status)
	assert.Equal(t, entity.PriorityNormal, o.Priority)

	o, err := f.uc.MarkItemPicked(ctx, o.ID, "P1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackPicking, o.Status)

	o, err = f.uc.MarkItemPicked(ctx, o.ID, "P2")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackPacking, o.Status)
	assert.NotNil(t, o.PickedAt)

	_, err = f.uc.MarkItemPacked(ctx, o.ID, "P1")
	require.NoError(t, err)
	o, err = f.uc.MarkItemPacked(ctx, o.ID, "P2")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackReadyToShip, o.Status)
	assert.NotNil(t, o.PackedAt)

	report, err := f.uc.MarkAsShipped(ctx, o.ID, "TRK-9", "picker-1")
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, entity.PickPackShipped, report.Order.Status)
	assert.NotNil(t, report.Order.ShippedAt)
	assert.Equal(t, "TRK-9", report.Order.TrackingNumber)

	logs, err := f.ledger.GetLogs(ctx, "")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	changes := map[string]int{}
	for _, e := range logs {
		changes[e.ProductID] = e.Change
		assert.Equal(t, "Shipped Order: 1001", e.Reason)
		assert.Equal(t, "picker-1", e.PerformedBy)
	}
	assert.Equal(t, map[string]int{"P1": -2, "P2": -3}, changes)
	assert.Equal(t, 18, f.stock(t, "P1"))
	assert.Equal(t, 17, f.stock(t, "P2"))

	ord, ok := f.store.Order("ORD-1")
	require.True(t, ok)
	assert.Equal(t, "shipped", ord.Status)
	assert.Equal(t, "TRK-9", ord.TrackingNumber)
}

func TestShipped_EstadoCongelado(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.readyOrder(t)
	_, err := f.uc.MarkAsShipped(ctx, o.ID, "", "u1")
	require.NoError(t, err)

	_, err = f.uc.ResetItem(ctx, o.ID, "P1")
	assert.ErrorIs(t, err, domain.ErrAlreadyShipped)
	_, err = f.uc.MarkItemPicked(ctx, o.ID, "P1")
	assert.ErrorIs(t, err, domain.ErrAlreadyShipped)
	_, err = f.uc.AssignOrder(ctx, o.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrAlreadyShipped)

	_, err = f.uc.MarkAsShipped(ctx, o.ID, "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotReady)

	got, err := f.uc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackShipped, got.Status)
	assert.Equal(t, 18, f.stock(t, "P1"), "se descuenta una sola vez")
}

// slowPickPack agrega latencia de red al repositorio compartido entre réplicas.
type slowPickPack struct {
	repository.PickPackOrderRepository
	delay time.Duration
}

func (s slowPickPack) GetByID(ctx context.Context, id string) (*entity.PickPackOrder, error) {
	time.Sleep(s.delay)
	return s.PickPackOrderRepository.GetByID(ctx, id)
}

func (s slowPickPack) ClaimShipment(ctx context.Context, id, tracking string, at time.Time) (*entity.PickPackOrder, error) {
	time.Sleep(s.delay)
	return s.PickPackOrderRepository.ClaimShipment(ctx, id, tracking, at)
}

func TestMarkAsShipped_DosReplicasDescuentanUnaVez(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t, nil)
		ctx := context.Background()
		o := f.readyOrder(t)

		repo := slowPickPack{PickPackOrderRepository: f.store.PickPack(), delay: 2 * time.Millisecond}
		replicas := []*pickpack.PickPackUseCase{
			pickpack.NewPickPackUseCase(repo, f.store.Orders(), f.ledger, nil, zerolog.Nop()),
			pickpack.NewPickPackUseCase(repo, f.store.Orders(), f.ledger, nil, zerolog.Nop()),
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make([]error, len(replicas))
		for k, uc := range replicas {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, errs[k] = uc.MarkAsShipped(ctx, o.ID, "TRK-1", "u1")
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, 18, f.stock(t, "P1"), "iteración %d: se descuenta una sola vez", i)
		require.Equal(t, 17, f.stock(t, "P2"), "iteración %d", i)
		rejected := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrNotReady)
				rejected++
			}
		}
		assert.Equal(t, 1, rejected, "iteración %d: %v", i, errs)
	}
}

func TestMarkItem_CopiaViejaNoReabreDespachada(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.readyOrder(t)

	stale, err := f.store.PickPack().GetByID(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.uc.MarkAsShipped(ctx, o.ID, "TRK-1", "u1")
	require.NoError(t, err)

	stale.Items[0].Picked, stale.Items[0].Packed = false, false
	stale.Recompute(time.Now())
	assert.ErrorIs(t, f.store.PickPack().Update(ctx, stale), domain.ErrAlreadyShipped)
	assert.ErrorIs(t, f.store.PickPack().Delete(ctx, o.ID), domain.ErrAlreadyShipped)

	got, err := f.uc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackShipped, got.Status)
	assert.Equal(t, "TRK-1", got.TrackingNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Precondiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkAsShipped_NoLista(t *testing.T) {
	f := newFixture(t, nil)
	o := f.create(t, twoItemOrder())
	_, err := f.uc.MarkAsShipped(context.Background(), o.ID, "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotReady)

	_, err = f.uc.MarkAsShipped(context.Background(), "PP-NOPE", "", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkItem_Errores(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.create(t, twoItemOrder())

	_, err := f.uc.MarkItemPicked(ctx, "PP-NOPE", "P1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.MarkItemPicked(ctx, o.ID, "P9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.MarkItemPacked(ctx, o.ID, "P1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestResetItem_VuelveAPicking(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.readyOrder(t)

	got, err := f.uc.ResetItem(ctx, o.ID, "P2")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackPicking, got.Status)
	assert.NotNil(t, got.PackedAt, "los timestamps no se borran")
}

func TestAssignOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	fresh := f.create(t, twoItemOrder())

	got, err := f.uc.AssignOrder(ctx, fresh.ID, "picker-1")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackPicking, got.Status)
	assert.Equal(t, "picker-1", got.AssignedTo)

	ready := f.readyOrder(t)
	got, err = f.uc.AssignOrder(ctx, ready.ID, "picker-2")
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackReadyToShip, got.Status, "asignar no retrocede el estado")

	mine, err := f.uc.GetByAssignee(ctx, "picker-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, fresh.ID, mine[0].ID)

	_, err = f.uc.AssignOrder(ctx, fresh.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_Invalida(t *testing.T) {
	f := newFixture(t, nil)
	in := twoItemOrder()
	in.Priority = "whenever"
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = twoItemOrder()
	in.Items[0].Quantity = 0
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos parciales
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkAsShipped_StockInsuficienteEsParcial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.readyOrder(t)
	f.store.SeedProduct(entity.Product{ID: "P2", Name: "Gadget", StockQuantity: 1})

	report, err := f.uc.MarkAsShipped(ctx, o.ID, "", "u1")
	require.NoError(t, err, "la orden externa se actualiza igual")
	assert.Equal(t, entity.PickPackShipped, report.Order.Status)
	assert.Equal(t, 18, f.stock(t, "P1"))
	assert.Equal(t, 1, f.stock(t, "P2"))

	perr := report.Err()
	assert.ErrorIs(t, perr, domain.ErrPartialFailure)
	var pf *domain.PartialFailureError
	require.True(t, errors.As(perr, &pf))
	require.Len(t, pf.Failures, 1)
	assert.ErrorIs(t, pf.Failures[0].Err, domain.ErrInsufficientStock)
}

func TestMarkAsShipped_FalloDeOrdenExterna(t *testing.T) {
	orders := &orderRepoMock{}
	orders.On("UpdateStatus", mock.Anything, "ORD-1", "shipped", "TRK-1").Return(errors.New("timeout"))
	f := newFixture(t, orders)
	o := f.readyOrder(t)

	report, err := f.uc.MarkAsShipped(context.Background(), o.ID, "TRK-1", "u1")
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, entity.PickPackShipped, report.Order.Status)
	assert.Len(t, report.Outcomes, 2)
	orders.AssertExpectations(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListados_OrdenDeCola(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	mk := func(num string, prio entity.Priority) *entity.PickPackOrder {
		in := twoItemOrder()
		in.OrderNumber = num
		in.Priority = prio
		return f.create(t, in)
	}
	low := mk("L", entity.PriorityLow)
	normal := mk("N", entity.PriorityNormal)
	urgent := mk("U", entity.PriorityUrgent)
	high := mk("H", entity.PriorityHigh)

	all, err := f.uc.GetAll(ctx)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, o := range all {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{urgent.ID, high.ID, normal.ID, low.ID}, ids)

	_, err = f.uc.MarkItemPicked(ctx, high.ID, "P1")
	require.NoError(t, err)
	picking, err := f.uc.GetByStatus(ctx, entity.PickPackPicking)
	require.NoError(t, err)
	require.Len(t, picking, 1)
	assert.Equal(t, high.ID, picking[0].ID)

	pending, err := f.uc.GetPendingOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 4)
}

func TestSearch(t *testing.T) {
	f := newFixture(t, nil)
	a := f.create(t, twoItemOrder())
	in := twoItemOrder()
	in.OrderNumber = "ANA-2002"
	in.CustomerName = "Luis"
	b := f.create(t, in)
	in = twoItemOrder()
	in.OrderNumber = "3003"
	in.CustomerName = "Marta"
	f.create(t, in)

	got, err := f.uc.Search(context.Background(), "ana")
	require.NoError(t, err)
	ids := []string{}
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestPackingSlip(t *testing.T) {
	f := newFixture(t, nil)
	o := f.create(t, twoItemOrder())
	pdf, err := f.uc.PackingSlip(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(pdf))
	assert.Equal(t, "1001", f.slips.got.OrderNumber)

	_, err = f.uc.PackingSlip(context.Background(), "PP-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	o := f.create(t, twoItemOrder())
	require.NoError(t, f.uc.Delete(ctx, o.ID))
	got, err := f.uc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

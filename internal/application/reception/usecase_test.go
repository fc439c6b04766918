package reception_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store  *memory.Store
	ledger *inventory.StockLedger
	uc     *reception.StockReceptionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SeedProduct(entity.Product{ID: "P1", Name: "Widget", StockQuantity: 10})
	store.SeedProduct(entity.Product{ID: "P2", Name: "Gadget", StockQuantity: 0})
	ledger := inventory.NewStockLedger(store.TxRunner(), store.InventoryLogs(), nil, nil, zerolog.Nop())
	return &fixture{
		store:  store,
		ledger: ledger,
		uc:     reception.NewStockReceptionUseCase(store.Receptions(), ledger, zerolog.Nop()),
	}
}

func intPtr(v int) *int { return &v }

func (f *fixture) add(t *testing.T, in reception.CreateInput) *entity.StockReception {
	t.Helper()
	r, err := f.uc.Add(context.Background(), in)
	require.NoError(t, err)
	return r
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_Defaults(t *testing.T) {
	f := newFixture(t)
	r := f.add(t, reception.CreateInput{
		SupplierName: "Acme",
		Items: []reception.ItemInput{
			{ProductID: "P1", ExpectedQuantity: 5},
			{ProductID: "P2", ExpectedQuantity: 4, ReceivedQuantity: intPtr(3)},
		},
	})
	assert.Regexp(t, `^SR-[0-9A-Z]{26}$`, r.ID)
	assert.Equal(t, entity.ReceptionPending, r.Status)
	assert.Equal(t, 5, r.Items[0].ReceivedQuantity, "recibido arranca igual a esperado")
	assert.Equal(t, 3, r.Items[1].ReceivedQuantity)
}

func TestAdd_Invalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Add(context.Background(), reception.CreateInput{SupplierName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Add(context.Background(), reception.CreateInput{
		SupplierName: "Acme",
		Items:        []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}, {ProductID: "P1", ExpectedQuantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.Add(context.Background(), reception.CreateInput{
		SupplierName: "Acme",
		Status:       entity.ReceptionCompleted,
		Items:        []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItemQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})

	got, err := f.uc.UpdateItemQuantity(ctx, r.ID, "P1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Items[0].ReceivedQuantity)
	assert.Equal(t, entity.ReceptionInProgress, got.Status)

	_, err = f.uc.UpdateItemQuantity(ctx, r.ID, "P9", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.UpdateItemQuantity(ctx, "SR-NOPE", "P1", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.UpdateItemQuantity(ctx, r.ID, "P1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CompleteReception(ctx, r.ID, "u1")
	require.NoError(t, err)
	_, err = f.uc.UpdateItemQuantity(ctx, r.ID, "P1", 2)
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestUpdate_NoPermiteCompletarNiEditarCerrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})

	completed := entity.ReceptionCompleted
	_, err := f.uc.Update(ctx, r.ID, reception.UpdateInput{Status: &completed})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	ref := "PO-77"
	got, err := f.uc.Update(ctx, r.ID, reception.UpdateInput{ReferenceNumber: &ref})
	require.NoError(t, err)
	assert.Equal(t, "PO-77", got.ReferenceNumber)

	_, err = f.uc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, r.ID, reception.UpdateInput{ReferenceNumber: &ref})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

// ──────────────────────────────────────────────────────────────────────────────
// CompleteReception
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteReception_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})

	report, err := f.uc.CompleteReception(ctx, r.ID, "u1")
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Equal(t, 15, f.stock(t, "P1"))
	assert.Equal(t, entity.ReceptionCompleted, report.Reception.Status)
	assert.Equal(t, "u1", report.Reception.ReceivedBy)
	assert.NotNil(t, report.Reception.ReceivedDate)

	logs, err := f.ledger.GetLogs(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 5, logs[0].Change)
	assert.Equal(t, "Stock reception "+r.ID+" from Acme", logs[0].Reason)
	assert.Equal(t, logs[0].ID, report.Outcomes[0].EntryID)

	stored, err := f.uc.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceptionCompleted, stored.Status)
}

func TestCompleteReception_YaCompletada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})
	_, err := f.uc.CompleteReception(ctx, r.ID, "u1")
	require.NoError(t, err)

	_, err = f.uc.CompleteReception(ctx, r.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, 15, f.stock(t, "P1"), "no se ingresa dos veces")
}

func TestCompleteReception_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CompleteReception(context.Background(), "SR-NOPE", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteReception_Cancelada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})
	_, err := f.uc.Cancel(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.uc.CompleteReception(ctx, r.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestCompleteReception_FalloParcial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{
		{ProductID: "GHOST", ExpectedQuantity: 2},
		{ProductID: "P2", ExpectedQuantity: 7},
	}})

	report, err := f.uc.CompleteReception(ctx, r.ID, "u1")
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.True(t, report.Outcomes[0].Failed())
	assert.False(t, report.Outcomes[1].Failed())
	assert.Equal(t, 7, f.stock(t, "P2"), "los ítems válidos siguen ingresando")
	assert.Equal(t, entity.ReceptionCompleted, report.Reception.Status)

	perr := report.Err()
	require.Error(t, perr)
	assert.ErrorIs(t, perr, domain.ErrPartialFailure)
	var pf *domain.PartialFailureError
	require.True(t, errors.As(perr, &pf))
	require.Len(t, pf.Failures, 1)
	assert.Equal(t, "GHOST", pf.Failures[0].ProductID)
	assert.ErrorIs(t, pf.Failures[0].Err, domain.ErrNotFound)
}

// slowReceptions agrega latencia de red al repositorio compartido entre réplicas.
type slowReceptions struct {
	repository.StockReceptionRepository
	delay time.Duration
}

func (s slowReceptions) GetByID(ctx context.Context, id string) (*entity.StockReception, error) {
	time.Sleep(s.delay)
	return s.StockReceptionRepository.GetByID(ctx, id)
}

func (s slowReceptions) ClaimCompletion(ctx context.Context, id, receivedBy string, at time.Time) (*entity.StockReception, error) {
	time.Sleep(s.delay)
	return s.StockReceptionRepository.ClaimCompletion(ctx, id, receivedBy, at)
}

func TestCompleteReception_DosReplicasIngresanUnaVez(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture(t)
		ctx := context.Background()
		r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})

		repo := slowReceptions{StockReceptionRepository: f.store.Receptions(), delay: 2 * time.Millisecond}
		replicas := []*reception.StockReceptionUseCase{
			reception.NewStockReceptionUseCase(repo, f.ledger, zerolog.Nop()),
			reception.NewStockReceptionUseCase(repo, f.ledger, zerolog.Nop()),
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make([]error, len(replicas))
		for k, uc := range replicas {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, errs[k] = uc.CompleteReception(ctx, r.ID, "u1")
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, 15, f.stock(t, "P1"), "iteración %d: la recepción ingresa una sola vez", i)
		rejected := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
				rejected++
			}
		}
		assert.Equal(t, 1, rejected, "iteración %d: %v", i, errs)

		logs, err := f.ledger.GetLogs(ctx, "P1")
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	}
}

func TestUpdateItemQuantity_TrasCompletarNoEscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.add(t, reception.CreateInput{SupplierName: "Acme", Items: []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}}})

	// Una réplica con una copia vieja intenta reabrir la recepción ya cerrada por otra.
	stale, err := f.store.Receptions().GetByID(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.uc.CompleteReception(ctx, r.ID, "u1")
	require.NoError(t, err)

	stale.Items[0].ReceivedQuantity = 1
	err = f.store.Receptions().Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrNotEditable)

	got, err := f.uc.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReceptionCompleted, got.Status)
	assert.Equal(t, 5, got.Items[0].ReceivedQuantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_Widget(t *testing.T) {
	f := newFixture(t)
	items := []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}}
	a := f.add(t, reception.CreateInput{SupplierName: "Widget Co", Items: items})
	b := f.add(t, reception.CreateInput{SupplierName: "Acme", ReferenceNumber: "PO-WIDGET-9", Items: items})
	f.add(t, reception.CreateInput{SupplierName: "Gadgets SA", ReferenceNumber: "PO-1", Items: items})

	got, err := f.uc.Search(context.Background(), "widget")
	require.NoError(t, err)
	gotIDs := []string{}
	for _, r := range got {
		gotIDs = append(gotIDs, r.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, gotIDs)
}

func TestGetPending_OrdenPorFechaEsperada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}}
	later := time.Now().Add(72 * time.Hour)
	soon := time.Now().Add(24 * time.Hour)

	r1 := f.add(t, reception.CreateInput{SupplierName: "A", ExpectedDate: &later, Items: items})
	r2 := f.add(t, reception.CreateInput{SupplierName: "B", ExpectedDate: &soon, Items: items})
	r3 := f.add(t, reception.CreateInput{SupplierName: "C", Items: items}) // sin fecha: usa CreatedAt (ahora)
	done := f.add(t, reception.CreateInput{SupplierName: "D", Items: items})
	_, err := f.uc.CompleteReception(ctx, done.ID, "u1")
	require.NoError(t, err)

	got, err := f.uc.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{r3.ID, r2.ID, r1.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestListados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}}
	f.add(t, reception.CreateInput{SupplierID: "S1", SupplierName: "A", Items: items})
	r2 := f.add(t, reception.CreateInput{SupplierID: "S2", SupplierName: "B", Items: items})
	_, err := f.uc.Cancel(ctx, r2.ID)
	require.NoError(t, err)

	bySupplier, err := f.uc.ListBySupplier(ctx, "S2")
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, r2.ID, bySupplier[0].ID)

	cancelled, err := f.uc.ListByStatus(ctx, entity.ReceptionCancelled)
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	all, err := f.uc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.ListByStatus(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := f.uc.GetByID(ctx, "SR-NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 1}}
	open := f.add(t, reception.CreateInput{SupplierName: "A", Items: items})
	done := f.add(t, reception.CreateInput{SupplierName: "B", Items: items})
	_, err := f.uc.CompleteReception(ctx, done.ID, "u1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, open.ID))
	assert.ErrorIs(t, f.uc.Delete(ctx, done.ID), domain.ErrNotEditable)
	assert.ErrorIs(t, f.uc.Delete(ctx, "SR-NOPE"), domain.ErrNotFound)
}

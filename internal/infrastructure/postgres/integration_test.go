//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/fulfillment-core/internal/application/inventory"
	"github.com/jhoicas/fulfillment-core/internal/application/pickpack"
	"github.com/jhoicas/fulfillment-core/internal/application/reception"
	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/postgres"
	"github.com/jhoicas/fulfillment-core/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Contenedor PostgreSQL (go test -tags integration ./...)
// ──────────────────────────────────────────────────────────────────────────────

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("fulfillment_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mig, err := postgres.NewMigrator(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mig.Up())
	require.NoError(t, mig.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		INSERT INTO products (id, sku, name, price, stock_quantity) VALUES
			('P1', 'WID-1', 'Widget', 9.99, 10),
			('P2', 'GAD-1', 'Gadget', 19.50, 10);
		INSERT INTO users (id, name, role) VALUES ('admin-1', 'Admin', 'admin'), ('picker-1', 'Picker', 'picker');
		INSERT INTO orders (id, order_number, status) VALUES ('ORD-1', '1001', 'processing');`)
	require.NoError(t, err)
	return pool
}

func newLedger(pool *pgxpool.Pool) *inventory.StockLedger {
	return inventory.NewStockLedger(postgres.NewTxRunner(pool), postgres.NewInventoryLogRepository(pool), nil, nil, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	ledger := newLedger(pool)
	products := postgres.NewProductRepository(pool)

	_, err := ledger.AdjustStock(ctx, "P1", -11, "venta", "u1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ledger.AdjustStock(ctx, "P1", -1, "venta", "u1")
		}()
	}
	wg.Wait()

	p, err := products.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
	assert.Equal(t, "9.99", p.Price.StringFixed(2))

	logs, err := ledger.GetLogs(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, logs, 10)

	users, err := postgres.NewUserRepository(pool).ListByRoles(ctx, entity.AlertRecipientRoles...)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin-1", users[0].ID)
}

func TestWorkflows_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	ledger := newLedger(pool)

	receptions := reception.NewStockReceptionUseCase(postgres.NewStockReceptionRepository(pool), ledger, zerolog.Nop())
	rec, err := receptions.Add(ctx, reception.CreateInput{
		SupplierID: "S1", SupplierName: "Widget Co",
		Items: []reception.ItemInput{{ProductID: "P1", ProductName: "Widget", ExpectedQuantity: 5}},
	})
	require.NoError(t, err)
	report, err := receptions.CompleteReception(ctx, rec.ID, "u1")
	require.NoError(t, err)
	require.NoError(t, report.Err())

	stored, err := postgres.NewStockReceptionRepository(pool).List(ctx, repository.ReceptionFilter{
		Statuses: []entity.ReceptionStatus{entity.ReceptionCompleted},
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Items[0].ReceivedQuantity)

	pp := pickpack.NewPickPackUseCase(postgres.NewPickPackOrderRepository(pool), postgres.NewOrderRepository(pool), ledger, nil, zerolog.Nop())
	o, err := pp.Create(ctx, pickpack.CreateInput{
		OrderID: "ORD-1", OrderNumber: "1001", CustomerName: "Ana",
		Items: []pickpack.ItemInput{{ProductID: "P1", Quantity: 3}, {ProductID: "P2", Quantity: 2}},
	})
	require.NoError(t, err)
	for _, id := range []string{"P1", "P2"} {
		_, err = pp.MarkItemPicked(ctx, o.ID, id)
		require.NoError(t, err)
		_, err = pp.MarkItemPacked(ctx, o.ID, id)
		require.NoError(t, err)
	}
	ship, err := pp.MarkAsShipped(ctx, o.ID, "TRK-1", "picker-1")
	require.NoError(t, err)
	require.NoError(t, ship.Err())

	p1, err := postgres.NewProductRepository(pool).GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 12, p1.StockQuantity)

	var status, tracking string
	require.NoError(t, pool.QueryRow(ctx, `SELECT status, tracking_number FROM orders WHERE id = 'ORD-1'`).Scan(&status, &tracking))
	assert.Equal(t, "shipped", status)
	assert.Equal(t, "TRK-1", tracking)

	got, err := pp.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickPackShipped, got.Status)
	assert.True(t, got.Items[1].Packed)
	assert.NotNil(t, got.ShippedAt)
}

func TestInventoryLog_AppendOnly_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	res, err := newLedger(pool).AdjustStock(ctx, "P1", 3, "ingreso", "u1")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `UPDATE inventory_log SET change = 100 WHERE id = $1`, res.Entry.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")

	_, err = pool.Exec(ctx, `DELETE FROM inventory_log WHERE id = $1`, res.Entry.ID)
	require.Error(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE inventory_log`)
	require.Error(t, err)

	var change int
	require.NoError(t, pool.QueryRow(ctx, `SELECT change FROM inventory_log WHERE id = $1`, res.Entry.ID).Scan(&change))
	assert.Equal(t, 3, change)
}

func TestClaims_DosReplicas_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	ledger := newLedger(pool)
	products := postgres.NewProductRepository(pool)

	replicaA := reception.NewStockReceptionUseCase(postgres.NewStockReceptionRepository(pool), ledger, zerolog.Nop())
	replicaB := reception.NewStockReceptionUseCase(postgres.NewStockReceptionRepository(pool), ledger, zerolog.Nop())
	rec, err := replicaA.Add(ctx, reception.CreateInput{
		SupplierName: "Widget Co",
		Items:        []reception.ItemInput{{ProductID: "P1", ExpectedQuantity: 5}},
	})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for k, uc := range []*reception.StockReceptionUseCase{replicaA, replicaB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[k] = uc.CompleteReception(ctx, rec.ID, "u1")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, countErrors(t, errs, domain.ErrAlreadyCompleted))
	p1, err := products.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 15, p1.StockQuantity)

	// Una escritura con copia vieja no reabre la recepción cerrada.
	stale := *rec
	stale.Status = entity.ReceptionInProgress
	assert.ErrorIs(t, postgres.NewStockReceptionRepository(pool).Update(ctx, &stale), domain.ErrNotEditable)
	assert.ErrorIs(t, postgres.NewStockReceptionRepository(pool).Delete(ctx, rec.ID), domain.ErrNotEditable)

	ppRepo := postgres.NewPickPackOrderRepository(pool)
	shipA := pickpack.NewPickPackUseCase(ppRepo, postgres.NewOrderRepository(pool), ledger, nil, zerolog.Nop())
	shipB := pickpack.NewPickPackUseCase(ppRepo, postgres.NewOrderRepository(pool), ledger, nil, zerolog.Nop())
	o, err := shipA.Create(ctx, pickpack.CreateInput{
		OrderID: "ORD-1", OrderNumber: "1001",
		Items: []pickpack.ItemInput{{ProductID: "P2", Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = shipA.MarkItemPicked(ctx, o.ID, "P2")
	require.NoError(t, err)
	_, err = shipA.MarkItemPacked(ctx, o.ID, "P2")
	require.NoError(t, err)

	for k, uc := range []*pickpack.PickPackUseCase{shipA, shipB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[k] = uc.MarkAsShipped(ctx, o.ID, "TRK-9", "picker-1")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, countErrors(t, errs, domain.ErrNotReady))
	p2, err := products.GetByID(ctx, "P2")
	require.NoError(t, err)
	assert.Equal(t, 6, p2.StockQuantity)

	_, err = shipB.ResetItem(ctx, o.ID, "P2")
	assert.ErrorIs(t, err, domain.ErrAlreadyShipped)
}

// countErrors cuenta los errores no nil y exige que todos sean target.
func countErrors(t *testing.T, errs []error, target error) int {
	t.Helper()
	n := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, target)
			n++
		}
	}
	return n
}

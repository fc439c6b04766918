package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-core/internal/domain"
	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
	"github.com/jhoicas/fulfillment-core/internal/domain/repository"
	"github.com/jhoicas/fulfillment-core/internal/infrastructure/memory"
)

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	s.SeedProduct(entity.Product{ID: "P1", StockQuantity: 10})

	boom := errors.New("boom")
	err := s.TxRunner().Run(ctx, func(products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		require.NoError(t, products.UpdateStockQuantity(ctx, "P1", 3))
		require.NoError(t, logs.Append(ctx, &entity.InventoryLogEntry{ID: "LOG-1", ProductID: "P1", Change: -7}))
		p, _ := products.GetForUpdate(ctx, "P1")
		assert.Equal(t, 3, p.StockQuantity, "dentro de la tx se ve el valor nuevo")
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "P1")
	assert.Equal(t, 10, p.StockQuantity)
	entries, _ := s.InventoryLogs().List(ctx, "")
	assert.Empty(t, entries)
}

func TestTxRunner_CommitAplica(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	s.SeedProduct(entity.Product{ID: "P1", StockQuantity: 10})

	err := s.TxRunner().Run(ctx, func(products repository.ProductRepository, logs repository.InventoryLogRepository) error {
		if err := products.UpdateStockQuantity(ctx, "P1", 12); err != nil {
			return err
		}
		return logs.Append(ctx, &entity.InventoryLogEntry{ID: "LOG-1", ProductID: "P1", Change: 2, CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "P1")
	assert.Equal(t, 12, p.StockQuantity)
	entries, _ := s.InventoryLogs().List(ctx, "P1")
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Change)

	err = s.TxRunner().Run(ctx, func(products repository.ProductRepository, _ repository.InventoryLogRepository) error {
		return products.UpdateStockQuantity(ctx, "NOPE", 1)
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAlertStateStore_MarkIfAbsent(t *testing.T) {
	ctx := context.Background()
	st := memory.NewAlertStateStore()

	ok, err := st.MarkIfAbsent(ctx, "P1", entity.AlertZeroSent)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = st.MarkIfAbsent(ctx, "P1", entity.AlertZeroSent)
	assert.False(t, ok)
	ok, _ = st.MarkIfAbsent(ctx, "P1", entity.AlertLowSent)
	assert.True(t, ok)

	require.NoError(t, st.Clear(ctx, "P1", entity.AlertLowSent))
	got, _ := st.Get(ctx, "P1")
	assert.Equal(t, entity.AlertZeroSent, got)

	require.NoError(t, st.Clear(ctx, "P1", entity.AlertZeroSent|entity.AlertLowSent))
	got, _ = st.Get(ctx, "P1")
	assert.Equal(t, entity.AlertNone, got)
}

func TestReceptions_CreateDuplicadoYCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Receptions()
	r := &entity.StockReception{ID: "SR-1", SupplierName: "Acme", Status: entity.ReceptionPending,
		Items: []entity.StockReceptionItem{{ProductID: "P1", ExpectedQuantity: 5, ReceivedQuantity: 5}}}

	require.NoError(t, repo.Create(ctx, r))
	assert.ErrorIs(t, repo.Create(ctx, r), domain.ErrConflict)

	got, err := repo.GetByID(ctx, "SR-1")
	require.NoError(t, err)
	got.Items[0].ReceivedQuantity = 1

	again, _ := repo.GetByID(ctx, "SR-1")
	assert.Equal(t, 5, again.Items[0].ReceivedQuantity, "el store entrega copias")

	missing, err := repo.GetByID(ctx, "SR-NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

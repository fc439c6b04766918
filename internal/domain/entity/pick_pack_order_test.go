package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fulfillment-core/internal/domain/entity"
)

func items(flags ...[2]bool) []entity.PickPackItem {
	out := make([]entity.PickPackItem, len(flags))
	for i, f := range flags {
		out[i] = entity.PickPackItem{ProductID: string(rune('A' + i)), Quantity: 1, Picked: f[0], Packed: f[1]}
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		items    []entity.PickPackItem
		assigned bool
		want     entity.PickPackStatus
	}{
		{"sin picks", items([2]bool{false, false}, [2]bool{false, false}), false, entity.PickPackPending},
		{"sin picks pero asignada", items([2]bool{false, false}), true, entity.PickPackPicking},
		{"uno de dos picked", items([2]bool{true, false}, [2]bool{false, false}), false, entity.PickPackPicking},
		{"todos picked", items([2]bool{true, false}, [2]bool{true, false}), false, entity.PickPackPacking},
		{"todos picked uno packed", items([2]bool{true, true}, [2]bool{true, false}), true, entity.PickPackPacking},
		{"todos picked y packed", items([2]bool{true, true}, [2]bool{true, true}), false, entity.PickPackReadyToShip},
		{"vacía", nil, false, entity.PickPackPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entity.DeriveStatus(tc.items, tc.assigned))
		})
	}
}

func TestRecompute_TimestampsSeFijanUnaVez(t *testing.T) {
	o := &entity.PickPackOrder{Items: items([2]bool{false, false}, [2]bool{false, false})}
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	o.Items[0].Picked, o.Items[1].Picked = true, true
	o.Recompute(t0)
	require.NotNil(t, o.PickedAt)
	assert.Equal(t, t0, *o.PickedAt)
	assert.Nil(t, o.PackedAt)
	assert.Equal(t, entity.PickPackPacking, o.Status)

	// Des-marcar y volver a marcar no sobrescribe PickedAt.
	o.Items[1].Picked = false
	o.Recompute(t0.Add(time.Minute))
	assert.Equal(t, entity.PickPackPicking, o.Status)
	o.Items[1].Picked = true
	o.Recompute(t0.Add(2 * time.Minute))
	assert.Equal(t, t0, *o.PickedAt)
}

func TestRecompute_ShippedCongelado(t *testing.T) {
	o := &entity.PickPackOrder{Status: entity.PickPackShipped, Items: items([2]bool{false, false})}
	o.Recompute(time.Now())
	assert.Equal(t, entity.PickPackShipped, o.Status)
}

func TestSortQueue(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []*entity.PickPackOrder{
		{ID: "low-1", Priority: entity.PriorityLow, CreatedAt: base},
		{ID: "normal-2", Priority: entity.PriorityNormal, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "urgent-1", Priority: entity.PriorityUrgent, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "normal-1", Priority: entity.PriorityNormal, CreatedAt: base.Add(time.Hour)},
		{ID: "high-1", Priority: entity.PriorityHigh, CreatedAt: base.Add(5 * time.Hour)},
	}
	entity.SortQueue(orders)

	got := make([]string, len(orders))
	for i, o := range orders {
		got[i] = o.ID
	}
	assert.Equal(t, []string{"urgent-1", "high-1", "normal-1", "normal-2", "low-1"}, got)
}

func TestClone_NoComparteItems(t *testing.T) {
	o := &entity.PickPackOrder{Items: items([2]bool{false, false})}
	c := o.Clone()
	c.Items[0].Picked = true
	assert.False(t, o.Items[0].Picked)
}

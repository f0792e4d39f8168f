package memory

import (
	"context"
	"testing"
	"time"

	"cat-care-console/internal/domain/activity"
	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/weights"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = civil.Date{Year: 2025, Month: 6, Day: 10}

func TestCatRepo_ListSkipsInactiveAndSortsByName(t *testing.T) {
	ctx := context.Background()
	r := NewCatRepo()

	require.NoError(t, r.Create(ctx, cats.Cat{ID: "1", Name: "mochi", IsActive: true}))
	require.NoError(t, r.Create(ctx, cats.Cat{ID: "2", Name: "Aruna", IsActive: true}))
	require.NoError(t, r.Create(ctx, cats.Cat{ID: "3", Name: "Bima", IsActive: false}))
	assert.Error(t, r.Create(ctx, cats.Cat{ID: "1", Name: "dup"}))

	active, err := r.List(ctx, cats.ListFilter{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Aruna", active[0].Name)

	all, err := r.List(ctx, cats.ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, cats.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, cats.Cat{ID: "nope"}), cats.ErrNotFound)
}

func TestHealthLogRepo_ListNewestFirstWithFilter(t *testing.T) {
	ctx := context.Background()
	r := NewHealthLogRepo()
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, healthlogs.HealthLog{ID: "a", CatID: "c1", Type: healthlogs.TypeVaccine, Date: day.AddDays(-10), CreatedAt: created}))
	require.NoError(t, r.Create(ctx, healthlogs.HealthLog{ID: "b", CatID: "c1", Type: healthlogs.TypeVaccine, Date: day, CreatedAt: created}))
	require.NoError(t, r.Create(ctx, healthlogs.HealthLog{ID: "c", CatID: "c1", Type: healthlogs.TypeNote, Date: day, CreatedAt: created.Add(time.Hour)}))
	require.NoError(t, r.Create(ctx, healthlogs.HealthLog{ID: "d", CatID: "c2", Type: healthlogs.TypeVaccine, Date: day}))

	got, err := r.List(ctx, healthlogs.ListFilter{CatID: "c1"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got, err = r.List(ctx, healthlogs.ListFilter{CatID: "c1", Types: []healthlogs.Type{healthlogs.TypeVaccine}})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	all, err := r.List(ctx, healthlogs.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, r.Delete(ctx, "d"))
	assert.ErrorIs(t, r.Delete(ctx, "d"), healthlogs.ErrNotFound)
}

func TestWeightAndGroomingRepos(t *testing.T) {
	ctx := context.Background()
	w := NewWeightRepo()
	require.NoError(t, w.Create(ctx, weights.WeightLog{ID: "w1", CatID: "c1", Date: day.AddDays(-7), WeightKg: 4}))
	require.NoError(t, w.Create(ctx, weights.WeightLog{ID: "w2", CatID: "c1", Date: day, WeightKg: 3.9}))
	require.NoError(t, w.Create(ctx, weights.WeightLog{ID: "w3", CatID: "c2", Date: day, WeightKg: 5}))

	mine, err := w.ListByCat(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "w2", mine[0].ID)
	every, err := w.ListByCat(ctx, "")
	require.NoError(t, err)
	assert.Len(t, every, 3)
	assert.ErrorIs(t, w.Delete(ctx, "nope"), weights.ErrNotFound)

	g := NewGroomingRepo()
	require.NoError(t, g.Create(ctx, grooming.GroomingLog{ID: "g1", CatID: "c1", Date: day.AddDays(-3)}))
	require.NoError(t, g.Create(ctx, grooming.GroomingLog{ID: "g2", CatID: "c1", Date: day}))
	gs, err := g.ListByCat(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "g2", gs[0].ID)
	assert.ErrorIs(t, g.Delete(ctx, "nope"), grooming.ErrNotFound)
}

func TestInventoryRepo_ApplyMovement(t *testing.T) {
	ctx := context.Background()
	r := NewInventoryRepo()
	require.NoError(t, r.Create(ctx, inventory.Item{ID: "i1", Name: "Pasir", Stock: decimal.NewFromInt(2)}))

	at := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	it, err := r.ApplyMovement(ctx, inventory.Movement{ID: "m1", ItemID: "i1", Delta: decimal.RequireFromString("-1.5"), Reason: "pakai"}, at)
	require.NoError(t, err)
	assert.True(t, it.Stock.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, at, it.UpdatedAt)

	_, err = r.ApplyMovement(ctx, inventory.Movement{ID: "m2", ItemID: "i1", Delta: decimal.NewFromInt(-1), Reason: "pakai"}, at)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)

	_, err = r.ApplyMovement(ctx, inventory.Movement{ID: "m3", ItemID: "i1", Delta: decimal.NewFromInt(10), Reason: "beli"}, at)
	require.NoError(t, err)

	moves, err := r.ListMovements(ctx, "i1", 1)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, "m3", moves[0].ID)

	// Update no pisa el stock.
	require.NoError(t, r.Update(ctx, inventory.Item{ID: "i1", Name: "Pasir Tofu", Stock: decimal.Zero}))
	got, err := r.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Pasir Tofu", got.Name)
	assert.True(t, got.Stock.Equal(decimal.RequireFromString("10.5")))

	_, err = r.ApplyMovement(ctx, inventory.Movement{ItemID: "nope", Delta: decimal.NewFromInt(1)}, at)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestActivityRepo_ListByDate(t *testing.T) {
	ctx := context.Background()
	r := NewActivityRepo()
	t0 := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, activity.Entry{ID: "b", Date: day, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, r.Create(ctx, activity.Entry{ID: "a", Date: day, CreatedAt: t0}))
	require.NoError(t, r.Create(ctx, activity.Entry{ID: "c", Date: day.AddDays(-1), CreatedAt: t0}))

	got, err := r.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.ErrorIs(t, r.Delete(ctx, "zzz"), activity.ErrNotFound)
}

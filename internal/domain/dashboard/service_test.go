package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/search"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/status"
	"cat-care-console/internal/domain/weights"
	"cat-care-console/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	snap  snapshot.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) Load(context.Context) (snapshot.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

type fakeStock struct{ items []inventory.Item }

func (f fakeStock) List(_ context.Context, st inventory.StockStatus) ([]inventory.Item, error) {
	if st != "" {
		return nil, errors.New("dashboard lists all items")
	}
	return f.items, nil
}

type fakeCats map[string]cats.Cat

func (f fakeCats) GetByID(_ context.Context, id string) (cats.Cat, error) {
	c, ok := f[id]
	if !ok {
		return cats.Cat{}, cats.ErrNotFound
	}
	return c, nil
}

type fakeHealth []healthlogs.HealthLog

func (f fakeHealth) ListByCat(_ context.Context, catID string, _ []healthlogs.Type) ([]healthlogs.HealthLog, error) {
	var out []healthlogs.HealthLog
	for _, l := range f {
		if l.CatID == catID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeWeights []weights.WeightLog

func (f fakeWeights) ListByCat(_ context.Context, catID string) ([]weights.WeightLog, error) {
	var out []weights.WeightLog
	for _, l := range f {
		if l.CatID == catID {
			out = append(out, l)
		}
	}
	return out, nil
}

// 2025-06-10 08:00 en Jakarta.
var fixedNow = time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)

func fixture() (cats.Cat, cats.Cat, []healthlogs.HealthLog, []weights.WeightLog) {
	sakit := cats.StatusSakit
	mochi := cats.Cat{ID: "c1", Name: "Mochi", IsActive: true, Status: &sakit}
	aruna := cats.Cat{ID: "c2", Name: "Aruna", IsActive: true}
	hl := []healthlogs.HealthLog{
		{ID: "h1", CatID: "c1", Type: healthlogs.TypeVaccine, Date: today.AddDays(-380), Title: "F3", NextDueDate: dp(today.AddDays(-15))},
		{ID: "h2", CatID: "c2", Type: healthlogs.TypeFlea, Date: today.AddDays(-25), Title: "Revolution", NextDueDate: dp(today.AddDays(5))},
	}
	wl := []weights.WeightLog{
		{ID: "w1", CatID: "c1", Date: today.AddDays(-10), WeightKg: 4.0},
		{ID: "w2", CatID: "c1", Date: today.AddDays(-1), WeightKg: 3.5},
	}
	return mochi, aruna, hl, wl
}

func newTestService(t *testing.T, reg prometheus.Registerer) (*Service, *fakeLoader) {
	t.Helper()
	mochi, aruna, hl, wl := fixture()
	minStock := decimal.NewFromInt(3)

	loader := &fakeLoader{snap: snapshot.Build(
		[]cats.Cat{mochi, aruna}, hl, wl,
		[]grooming.GroomingLog{{ID: "g1", CatID: "c2", Date: today.AddDays(-2)}},
	)}
	svc := NewService(Deps{
		Snapshots: loader,
		Stock: fakeStock{items: []inventory.Item{
			{ID: "i1", Name: "Pasir Tofu", Category: "pasir", Unit: "pcs", Stock: decimal.NewFromInt(1), MinStock: &minStock},
			{ID: "i2", Name: "Royal Canin", Category: "pakan", Unit: "pcs", Stock: decimal.NewFromInt(10), MinStock: &minStock},
		}},
		Cats:    fakeCats{"c1": mochi, "c2": aruna},
		Health:  fakeHealth(hl),
		Weights: fakeWeights(wl),
		Metrics: metrics.New(reg),
	}, Options{Location: time.FixedZone("WIB", 7*3600)})
	svc.now = func() time.Time { return fixedNow }
	return svc, loader
}

func TestOverview(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, _ := newTestService(t, reg)

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, today, ov.Today)
	assert.Equal(t, Counts{Cats: 2, NeedsAttention: 1, Monitor: 1, StockAlerts: 1}, ov.Counts)

	require.Len(t, ov.Alerts, 2)
	assert.Equal(t, AlertPreventiveOverdue, ov.Alerts[0].Kind)
	assert.Equal(t, AlertStockLow, ov.Alerts[1].Kind)

	require.Len(t, ov.Notifications, 2)
	assert.Equal(t, NotificationPreventiveDue, ov.Notifications[0].Kind)
	assert.Equal(t, NotificationGrooming, ov.Notifications[1].Kind)

	require.Len(t, ov.Cats, 2)
	assert.Equal(t, "Aruna", ov.Cats[0].Record.Cat.Name)
	assert.Equal(t, status.BucketMonitor, ov.Cats[0].Suggestion.Bucket)
	assert.Equal(t, status.BucketNeedsAttention, ov.Cats[1].Suggestion.Bucket)
	assert.Equal(t, []string{"Vaksin terlambat", "Berat badan turun >10% dari log sebelumnya"}, ov.Cats[1].Suggestion.Reasons)

	expected := `
# HELP catcare_dashboard_alerts Priority alerts in the last dashboard build, by severity.
# TYPE catcare_dashboard_alerts gauge
catcare_dashboard_alerts{severity="critical"} 1
catcare_dashboard_alerts{severity="warning"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "catcare_dashboard_alerts"))
}

func TestOverview_LoaderError(t *testing.T) {
	svc, loader := newTestService(t, nil)
	loader.err = errors.New("db down")

	_, err := svc.Overview(context.Background())
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	svc, loader := newTestService(t, nil)

	res, err := svc.Search(context.Background(), "sakit")
	require.NoError(t, err)
	assert.Equal(t, search.ModeSick, res.Query.Mode)
	require.Len(t, res.Cats, 1)
	assert.Equal(t, "c1", res.Cats[0].Record.Cat.ID)
	assert.Empty(t, res.Stock)

	loader.calls = 0
	res, err = svc.Search(context.Background(), "stok menipis")
	require.NoError(t, err)
	assert.Zero(t, loader.calls, "stock searches do not load cats")
	assert.Empty(t, res.Cats)
	require.Len(t, res.Stock, 1)
	assert.Equal(t, "i1", res.Stock[0].ID)

	res, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, res.Cats, 2)
	assert.Len(t, res.Stock, 2)

	res, err = svc.Search(context.Background(), "belum f3")
	require.NoError(t, err)
	assert.Equal(t, search.Descriptor{Mode: search.ModePreventive, Type: healthlogs.TypeVaccine, Keyword: "f3"}, res.Query)
	require.Len(t, res.Cats, 1)
	assert.Equal(t, "c2", res.Cats[0].Record.Cat.ID)
}

func TestCatSuggestion(t *testing.T) {
	svc, _ := newTestService(t, nil)

	c, sug, err := svc.CatSuggestion(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "Aruna", c.Name)
	assert.Equal(t, status.BucketMonitor, sug.Bucket)
	assert.Equal(t, []string{"Flea jatuh tempo dalam 5 hari"}, sug.Reasons)

	_, _, err = svc.CatSuggestion(context.Background(), "nope")
	assert.ErrorIs(t, err, cats.ErrNotFound)
}

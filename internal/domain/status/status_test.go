package status

import (
	"testing"
	"time"

	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/weights"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = civil.Date{Year: 2025, Month: 6, Day: 10}

func preventive(id string, t healthlogs.Type, given civil.Date, due *civil.Date) healthlogs.HealthLog {
	return healthlogs.HealthLog{
		ID:          id,
		CatID:       "cat-1",
		Type:        t,
		Date:        given,
		Title:       string(t),
		NextDueDate: due,
		CreatedAt:   time.Date(given.Year, given.Month, given.Day, 9, 0, 0, 0, time.UTC),
	}
}

func weight(id string, d civil.Date, kg float64) weights.WeightLog {
	return weights.WeightLog{ID: id, CatID: "cat-1", Date: d, WeightKg: kg}
}

func ptr(d civil.Date) *civil.Date { return &d }

func TestSuggest_NoLogsIsHealthy(t *testing.T) {
	got := Suggest(nil, nil, today, DefaultOptions())

	assert.Equal(t, BucketHealthy, got.Bucket)
	assert.NotNil(t, got.Reasons)
	assert.Empty(t, got.Reasons)
	assert.Nil(t, got.LastWeight)
	for _, typ := range healthlogs.PreventiveTypes {
		v, ok := got.NextDueByType[typ]
		assert.True(t, ok)
		assert.Nil(t, v)
	}
}

func TestSuggest_OverdueYesterday(t *testing.T) {
	for _, typ := range healthlogs.PreventiveTypes {
		t.Run(string(typ), func(t *testing.T) {
			logs := []healthlogs.HealthLog{preventive("1", typ, today.AddDays(-30), ptr(today.AddDays(-1)))}
			got := Suggest(logs, nil, today, DefaultOptions())

			assert.Equal(t, BucketNeedsAttention, got.Bucket)
			require.Len(t, got.Reasons, 1)
			assert.Equal(t, typ.Label()+" terlambat", got.Reasons[0])
		})
	}
}

func TestSuggest_DueSoonBoundary(t *testing.T) {
	cases := []struct {
		days int
		want Bucket
	}{
		{0, BucketMonitor},
		{7, BucketMonitor},
		{8, BucketHealthy},
	}
	for _, tc := range cases {
		logs := []healthlogs.HealthLog{preventive("1", healthlogs.TypeFlea, today.AddDays(-20), ptr(today.AddDays(tc.days)))}
		got := Suggest(logs, nil, today, DefaultOptions())
		assert.Equal(t, tc.want, got.Bucket, "due in %d days", tc.days)
	}

	logs := []healthlogs.HealthLog{preventive("1", healthlogs.TypeFlea, today.AddDays(-20), ptr(today.AddDays(7)))}
	assert.Equal(t, []string{"Flea jatuh tempo dalam 7 hari"}, Suggest(logs, nil, today, DefaultOptions()).Reasons)

	logs = []healthlogs.HealthLog{preventive("1", healthlogs.TypeFlea, today.AddDays(-20), ptr(today))}
	assert.Equal(t, []string{"Flea jatuh tempo hari ini"}, Suggest(logs, nil, today, DefaultOptions()).Reasons)
}

func TestSuggest_WeightDropIsStrict(t *testing.T) {
	prev := weight("w1", today.AddDays(-14), 10.0)

	exact := Suggest(nil, []weights.WeightLog{prev, weight("w2", today, 9.0)}, today, DefaultOptions())
	assert.Equal(t, BucketHealthy, exact.Bucket, "exactly 90%% is not a drop")
	assert.Empty(t, exact.Reasons)

	below := Suggest(nil, []weights.WeightLog{weight("w2", today, 8.99), prev}, today, DefaultOptions())
	assert.Equal(t, BucketNeedsAttention, below.Bucket)
	assert.Equal(t, []string{"Berat badan turun >10% dari log sebelumnya"}, below.Reasons)
	require.NotNil(t, below.LastWeight)
	assert.Equal(t, 8.99, below.LastWeight.WeightKg)
}

func TestCriticalDrop_ExactRatioWithDecimalWeights(t *testing.T) {
	for _, tc := range []struct {
		prev, latest float64
		want         bool
	}{
		{prev: 4.2, latest: 3.78, want: false},
		{prev: 6.1, latest: 5.49, want: false},
		{prev: 3.0, latest: 2.7, want: false},
		{prev: 5.0, latest: 4.5, want: false},
		{prev: 3.333, latest: 2.9997, want: false},
		{prev: 4.2, latest: 3.779, want: true},
		{prev: 6.1, latest: 5.489, want: true},
		{prev: 4.2, latest: 3.781, want: false},
	} {
		got := CriticalDrop(&WeightPoint{WeightKg: tc.latest}, &WeightPoint{WeightKg: tc.prev}, DefaultWeightDropRatio)
		assert.Equal(t, tc.want, got, "%v -> %v", tc.prev, tc.latest)
	}

	s := Suggest(nil, []weights.WeightLog{
		weight("w1", today.AddDays(-7), 4.2),
		weight("w2", today, 3.78),
	}, today, DefaultOptions())
	assert.Equal(t, BucketHealthy, s.Bucket)
	assert.Empty(t, s.Reasons)
}

func TestSuggest_SingleOrNoWeight(t *testing.T) {
	got := Suggest(nil, []weights.WeightLog{weight("w1", today, 2.0)}, today, DefaultOptions())
	assert.Equal(t, BucketHealthy, got.Bucket)
	require.NotNil(t, got.LastWeight)
	assert.Equal(t, 2.0, got.LastWeight.WeightKg)
}

func TestSuggest_ActiveTreatmentAlone(t *testing.T) {
	logs := []healthlogs.HealthLog{{
		ID: "ill", CatID: "cat-1", Type: healthlogs.TypeIllness, Date: today.AddDays(-2),
		Title: "Flu kucing", IsActiveTreatment: true,
	}}
	got := Suggest(logs, nil, today, DefaultOptions())

	assert.Equal(t, BucketNeedsAttention, got.Bucket)
	assert.Equal(t, []string{ReasonActiveTreatment}, got.Reasons)
}

func TestSuggest_ReasonsCoexistInOrder(t *testing.T) {
	logs := []healthlogs.HealthLog{
		preventive("v", healthlogs.TypeVaccine, today.AddDays(-400), ptr(today.AddDays(-35))),
		preventive("f", healthlogs.TypeFlea, today.AddDays(-60), ptr(today.AddDays(-2))),
		preventive("d", healthlogs.TypeDeworm, today.AddDays(-80), ptr(today.AddDays(3))),
		{ID: "m", Type: healthlogs.TypeMedication, Date: today, Title: "Antibiotik", IsActiveTreatment: true},
	}
	ws := []weights.WeightLog{weight("a", today.AddDays(-7), 4.0), weight("b", today, 3.0)}

	got := Suggest(logs, ws, today, DefaultOptions())

	want := Suggestion{
		Bucket: BucketNeedsAttention,
		Reasons: []string{
			"Vaksin, Flea terlambat",
			"Deworm jatuh tempo dalam 3 hari",
			"Sedang dalam perawatan aktif",
			"Berat badan turun >10% dari log sebelumnya",
		},
		NextDueByType: map[healthlogs.Type]*civil.Date{
			healthlogs.TypeVaccine: ptr(today.AddDays(-35)),
			healthlogs.TypeFlea:    ptr(today.AddDays(-2)),
			healthlogs.TypeDeworm:  ptr(today.AddDays(3)),
		},
		LastWeight: &WeightPoint{Date: today, WeightKg: 3.0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("suggestion mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggest_LatestLogDrivesNextDue(t *testing.T) {
	// El log más reciente por fecha manda aunque un log viejo tenga next_due más lejano.
	logs := []healthlogs.HealthLog{
		preventive("old", healthlogs.TypeVaccine, today.AddDays(-200), ptr(today.AddDays(100))),
		preventive("new", healthlogs.TypeVaccine, today.AddDays(-10), ptr(today.AddDays(-1))),
	}
	got := Suggest(logs, nil, today, DefaultOptions())
	assert.Equal(t, BucketNeedsAttention, got.Bucket)
	assert.Equal(t, today.AddDays(-1), *got.NextDueByType[healthlogs.TypeVaccine])

	// Si el último no tiene next_due, el tipo queda sin agendar.
	logs = append(logs, preventive("newest", healthlogs.TypeVaccine, today.AddDays(-1), nil))
	got = Suggest(logs, nil, today, DefaultOptions())
	assert.Equal(t, BucketHealthy, got.Bucket)
	assert.Nil(t, got.NextDueByType[healthlogs.TypeVaccine])
}

func TestSuggest_InvalidDatesAreNotScheduled(t *testing.T) {
	bad := civil.Date{Year: 2025, Month: 2, Day: 31}
	logs := []healthlogs.HealthLog{
		preventive("x", healthlogs.TypeDeworm, today.AddDays(-5), &bad),
		preventive("y", healthlogs.TypeFlea, today.AddDays(-5), &civil.Date{}),
	}
	got := Suggest(logs, nil, today, DefaultOptions())
	assert.Equal(t, BucketHealthy, got.Bucket)
	assert.Empty(t, got.Reasons)
}

func TestSuggest_Idempotent(t *testing.T) {
	logs := []healthlogs.HealthLog{preventive("1", healthlogs.TypeVaccine, today.AddDays(-30), ptr(today.AddDays(2)))}
	ws := []weights.WeightLog{weight("a", today.AddDays(-7), 4.0), weight("b", today, 3.9)}

	first := Suggest(logs, ws, today, DefaultOptions())
	second := Suggest(logs, ws, today, DefaultOptions())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("suggest is not idempotent:\n%s", diff)
	}
	assert.Equal(t, "a", ws[0].ID, "inputs are not reordered")
}

func TestOptions_CustomWindowAndRatio(t *testing.T) {
	logs := []healthlogs.HealthLog{preventive("1", healthlogs.TypeVaccine, today.AddDays(-30), ptr(today.AddDays(10)))}
	got := Suggest(logs, nil, today, Options{DueSoonDays: 14, WeightDropRatio: 0.8})
	assert.Equal(t, BucketMonitor, got.Bucket)

	assert.Equal(t, "Berat badan turun >20% dari log sebelumnya", WeightDropReason(0.8))
	assert.False(t, CriticalDrop(&WeightPoint{WeightKg: 3.5}, &WeightPoint{WeightKg: 4.0}, 0.8))
	assert.True(t, CriticalDrop(&WeightPoint{WeightKg: 3.1}, &WeightPoint{WeightKg: 4.0}, 0.8))
}

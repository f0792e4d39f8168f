package caldate

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesLocalCalendar(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2025-03-01 20:00 UTC ya es 2 de marzo en Jakarta.
	now := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 2}, Today(now, jakarta))
	assert.Equal(t, civil.Date{Year: 2025, Month: 3, Day: 1}, Today(now, nil))
}

func TestFromTime_DoesNotShiftStoredDates(t *testing.T) {
	stored := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, civil.Date{Year: 2025, Month: 1, Day: 10}, FromTime(stored))
	assert.Equal(t, stored, ToTime(FromTime(stored)))
}

func TestParse(t *testing.T) {
	d, err := Parse(" 2025-02-28 ")
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2025, Month: 2, Day: 28}, d)

	_, err = Parse("2025-02-30")
	assert.Error(t, err)
	_, err = Parse("28/02/2025")
	assert.Error(t, err)

	p, err := ParseOptional("")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOverdueAndDueSoon(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 6, Day: 15}

	cases := []struct {
		name    string
		due     *civil.Date
		overdue bool
		soon    bool
	}{
		{"nil", nil, false, false},
		{"zero", &civil.Date{}, false, false},
		{"invalid", &civil.Date{Year: 2025, Month: 2, Day: 31}, false, false},
		{"yesterday", Ptr(today.AddDays(-1)), true, false},
		{"today", Ptr(today), false, true},
		{"in 7 days", Ptr(today.AddDays(7)), false, true},
		{"in 8 days", Ptr(today.AddDays(8)), false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overdue, IsOverdue(tc.due, today))
			assert.Equal(t, tc.soon, IsDueSoon(tc.due, today, 7))
		})
	}
}

func TestDaysUntil(t *testing.T) {
	today := civil.Date{Year: 2024, Month: 12, Day: 30}
	assert.Equal(t, 3, DaysUntil(civil.Date{Year: 2025, Month: 1, Day: 2}, today))
	assert.Equal(t, -1, DaysUntil(civil.Date{Year: 2024, Month: 12, Day: 29}, today))
}

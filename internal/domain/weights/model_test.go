package weights

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestTwo(t *testing.T) {
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	logs := []WeightLog{
		{ID: "1", Date: civil.Date{Year: 2025, Month: 5, Day: 1}, WeightKg: 4.0, CreatedAt: base},
		{ID: "2", Date: civil.Date{Year: 2025, Month: 6, Day: 1}, WeightKg: 4.2, CreatedAt: base},
		{ID: "3", Date: civil.Date{Year: 2025, Month: 6, Day: 1}, WeightKg: 4.4, CreatedAt: base.Add(time.Minute)},
	}

	latest, prev := LatestTwo(logs)
	require.NotNil(t, latest)
	require.NotNil(t, prev)
	assert.Equal(t, "3", latest.ID, "same day: later created wins")
	assert.Equal(t, "2", prev.ID)
	assert.Equal(t, "1", logs[0].ID, "input is not reordered")

	one, none := LatestTwo(logs[:1])
	assert.Equal(t, "1", one.ID)
	assert.Nil(t, none)

	l, p := LatestTwo(nil)
	assert.Nil(t, l)
	assert.Nil(t, p)
}

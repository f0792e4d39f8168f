package weights

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

const MaxWeightKg = 30.0

type WeightLog struct {
	ID       string
	CatID    string
	Date     civil.Date
	WeightKg float64
	Notes    string

	CreatedAt time.Time
}

// SortNewestFirst ordena por Date desc; empates por CreatedAt desc y luego ID desc.
func SortNewestFirst(logs []WeightLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if a.Date != b.Date {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// LatestTwo devuelve (último, anterior) sin modificar logs; nil si no existen.
func LatestTwo(logs []WeightLog) (latest, previous *WeightLog) {
	if len(logs) == 0 {
		return nil, nil
	}
	sorted := make([]WeightLog, len(logs))
	copy(sorted, logs)
	SortNewestFirst(sorted)

	latest = &sorted[0]
	if len(sorted) > 1 {
		previous = &sorted[1]
	}
	return latest, previous
}

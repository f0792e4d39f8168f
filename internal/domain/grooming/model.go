package grooming

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

type GroomingLog struct {
	ID    string
	CatID string
	Date  civil.Date
	Notes string

	CreatedAt time.Time
}

// SortNewestFirst: Date desc, luego CreatedAt desc.
func SortNewestFirst(logs []GroomingLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if a.Date != b.Date {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// LastDate es la fecha del último grooming; nil si nunca.
func LastDate(logs []GroomingLog) *civil.Date {
	var last *civil.Date
	for i := range logs {
		if last == nil || logs[i].Date.After(*last) {
			d := logs[i].Date
			last = &d
		}
	}
	return last
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"cat-care-console/internal/domain/activity"

	"cloud.google.com/go/civil"
)

type activityRepo struct {
	mu   sync.RWMutex
	byID map[string]activity.Entry
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{
		byID: make(map[string]activity.Entry),
	}
}

func (r *activityRepo) Create(ctx context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("activity already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *activityRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return activity.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// ListByDate en orden de creación.
func (r *activityRepo) ListByDate(ctx context.Context, date civil.Date) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]activity.Entry, 0)
	for _, e := range r.byID {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"cat-care-console/internal/domain/healthlogs"
)

type healthLogRepo struct {
	mu   sync.RWMutex
	byID map[string]healthlogs.HealthLog
}

func NewHealthLogRepo() healthlogs.Repository {
	return &healthLogRepo{
		byID: make(map[string]healthlogs.HealthLog),
	}
}

func (r *healthLogRepo) Create(ctx context.Context, l healthlogs.HealthLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("health log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("health log already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *healthLogRepo) Update(ctx context.Context, l healthlogs.HealthLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[l.ID]; !exists {
		return healthlogs.ErrNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *healthLogRepo) GetByID(ctx context.Context, id string) (healthlogs.HealthLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return healthlogs.HealthLog{}, healthlogs.ErrNotFound
	}
	return l, nil
}

func (r *healthLogRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return healthlogs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// List devuelve los más recientes primero (healthlogs.Newer).
func (r *healthLogRepo) List(ctx context.Context, filter healthlogs.ListFilter) ([]healthlogs.HealthLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthlogs.HealthLog, 0)
	for _, l := range r.byID {
		if filter.Match(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return healthlogs.Newer(out[i], out[j])
	})
	return out, nil
}

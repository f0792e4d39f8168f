package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cat-care-console/internal/domain/grooming"
)

type groomingRepo struct {
	mu   sync.RWMutex
	byID map[string]grooming.GroomingLog
}

func NewGroomingRepo() grooming.Repository {
	return &groomingRepo{
		byID: make(map[string]grooming.GroomingLog),
	}
}

func (r *groomingRepo) Create(ctx context.Context, l grooming.GroomingLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("grooming log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("grooming log already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *groomingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return grooming.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *groomingRepo) ListByCat(ctx context.Context, catID string) ([]grooming.GroomingLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]grooming.GroomingLog, 0)
	for _, l := range r.byID {
		if catID == "" || l.CatID == catID {
			out = append(out, l)
		}
	}
	grooming.SortNewestFirst(out)
	return out, nil
}

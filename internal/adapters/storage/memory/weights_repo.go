package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cat-care-console/internal/domain/weights"
)

type weightRepo struct {
	mu   sync.RWMutex
	byID map[string]weights.WeightLog
}

func NewWeightRepo() weights.Repository {
	return &weightRepo{
		byID: make(map[string]weights.WeightLog),
	}
}

func (r *weightRepo) Create(ctx context.Context, l weights.WeightLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("weight log id required")
	}
	if _, exists := r.byID[l.ID]; exists {
		return errors.New("weight log already exists")
	}
	r.byID[l.ID] = l
	return nil
}

func (r *weightRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return weights.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *weightRepo) ListByCat(ctx context.Context, catID string) ([]weights.WeightLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weights.WeightLog, 0)
	for _, l := range r.byID {
		if catID == "" || l.CatID == catID {
			out = append(out, l)
		}
	}
	weights.SortNewestFirst(out)
	return out, nil
}

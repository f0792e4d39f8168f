package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"cat-care-console/internal/domain/inventory"

	"github.com/shopspring/decimal"
)

type inventoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]inventory.Item
	movements map[string][]inventory.Movement // por item, en orden de llegada
}

func NewInventoryRepo() inventory.Repository {
	return &inventoryRepo{
		byID:      make(map[string]inventory.Item),
		movements: make(map[string][]inventory.Movement),
	}
}

func (r *inventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(it.ID) == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return errors.New("item already exists")
	}
	r.byID[it.ID] = it
	return nil
}

// Update no toca el stock: solo ApplyMovement lo cambia.
func (r *inventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[it.ID]
	if !exists {
		return inventory.ErrNotFound
	}
	it.Stock = cur.Stock
	r.byID[it.ID] = it
	return nil
}

func (r *inventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	return it, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return inventory.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.movements, id)
	return nil
}

func (r *inventoryRepo) List(ctx context.Context) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *inventoryRepo) ApplyMovement(ctx context.Context, m inventory.Movement, at time.Time) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[m.ItemID]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	next := it.Stock.Add(m.Delta)
	if next.LessThan(decimal.Zero) {
		return inventory.Item{}, inventory.ErrInsufficientStock
	}

	it.Stock = next
	it.UpdatedAt = at
	r.byID[it.ID] = it
	r.movements[it.ID] = append(r.movements[it.ID], m)
	return it, nil
}

// ListMovements: más recientes primero; limit <= 0 = todos.
func (r *inventoryRepo) ListMovements(ctx context.Context, itemID string, limit int) ([]inventory.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.movements[itemID]
	out := make([]inventory.Movement, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, src[i])
	}
	return out, nil
}

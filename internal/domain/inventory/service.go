package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-care-console/internal/platform/optional"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("stock cannot go below zero")
)

const defaultUnit = "pcs"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Name     string
	Category string
	Unit     string
	Stock    decimal.Decimal
	MinStock *decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Item, error) {
	it := Item{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Category: strings.ToLower(strings.TrimSpace(in.Category)),
		Unit:     strings.TrimSpace(in.Unit),
		Stock:    in.Stock,
		MinStock: in.MinStock,
	}
	if it.Unit == "" {
		it.Unit = defaultUnit
	}
	if err := validate(it); err != nil {
		return Item{}, err
	}

	now := s.now()
	it.CreatedAt = now
	it.UpdatedAt = now
	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve todos los items; status filtra por estado derivado (vacío = todos).
func (s *Service) List(ctx context.Context, status StockStatus) ([]Item, error) {
	switch status {
	case "", StockOut, StockLow, StockOK:
	default:
		return nil, fmt.Errorf("%w: status must be out, low or ok", ErrInvalidInput)
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return items, nil
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if StatusOf(it) == status {
			out = append(out, it)
		}
	}
	return out, nil
}

// UpdateInput: el stock no se edita aquí, solo con Adjust (queda trazado como movimiento).
type UpdateInput struct {
	Name     *string
	Category *string
	Unit     *string
	MinStock optional.Field[decimal.Decimal]
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Item, error) {
	it, err := s.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		it.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Unit != nil {
		it.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinStock.Set {
		it.MinStock = in.MinStock.Value
	}
	if err := validate(it); err != nil {
		return Item{}, err
	}

	it.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

type AdjustInput struct {
	Delta   decimal.Decimal
	Reason  string
	ActorID string
}

func (s *Service) Adjust(ctx context.Context, id string, in AdjustInput) (Item, error) {
	if in.Delta.IsZero() {
		return Item{}, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Item{}, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return Item{}, err
	}

	now := s.now()
	return s.repo.ApplyMovement(ctx, Movement{
		ID:        uuid.NewString(),
		ItemID:    id,
		Delta:     in.Delta,
		Reason:    reason,
		ActorID:   strings.TrimSpace(in.ActorID),
		CreatedAt: now,
	}, now)
}

func (s *Service) ListMovements(ctx context.Context, id string, limit int) ([]Movement, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, id, limit)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validate(it Item) error {
	if it.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if it.Unit == "" {
		return fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if it.Stock.IsNegative() {
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
	}
	if it.MinStock != nil && it.MinStock.IsNegative() {
		return fmt.Errorf("%w: min_stock must be >= 0", ErrInvalidInput)
	}
	return nil
}

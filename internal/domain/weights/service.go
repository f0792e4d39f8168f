package weights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cat-care-console/internal/domain/cats"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("weight log not found")
)

type CatLookup interface {
	GetByID(ctx context.Context, id string) (cats.Cat, error)
}

type Service struct {
	repo Repository
	cats CatLookup
	now  func() time.Time
}

func NewService(repo Repository, catLookup CatLookup) *Service {
	return &Service{repo: repo, cats: catLookup, now: time.Now}
}

type CreateInput struct {
	Date     civil.Date
	WeightKg float64
	Notes    string
}

func (s *Service) Create(ctx context.Context, catID string, in CreateInput) (WeightLog, error) {
	if _, err := s.cats.GetByID(ctx, catID); err != nil {
		return WeightLog{}, err
	}
	if in.Date.IsZero() || !in.Date.IsValid() {
		return WeightLog{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if math.IsNaN(in.WeightKg) || in.WeightKg <= 0 || in.WeightKg > MaxWeightKg {
		return WeightLog{}, fmt.Errorf("%w: weight_kg must be greater than 0 and at most %.0f", ErrInvalidInput, MaxWeightKg)
	}

	l := WeightLog{
		ID:        uuid.NewString(),
		CatID:     catID,
		Date:      in.Date,
		WeightKg:  math.Round(in.WeightKg*1000) / 1000,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return WeightLog{}, err
	}
	return l, nil
}

// ListByCat devuelve el historial más reciente primero.
func (s *Service) ListByCat(ctx context.Context, catID string) ([]WeightLog, error) {
	if _, err := s.cats.GetByID(ctx, catID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByCat(ctx, catID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(items)
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

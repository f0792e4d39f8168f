package grooming

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-care-console/internal/domain/cats"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("grooming log not found")
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
	Date  civil.Date
	Notes string
}

func (s *Service) Create(ctx context.Context, catID string, in CreateInput) (GroomingLog, error) {
	if _, err := s.cats.GetByID(ctx, catID); err != nil {
		return GroomingLog{}, err
	}
	if in.Date.IsZero() || !in.Date.IsValid() {
		return GroomingLog{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	l := GroomingLog{
		ID:        uuid.NewString(),
		CatID:     catID,
		Date:      in.Date,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return GroomingLog{}, err
	}
	return l, nil
}

func (s *Service) ListByCat(ctx context.Context, catID string) ([]GroomingLog, error) {
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

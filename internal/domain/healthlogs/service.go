package healthlogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/platform/optional"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("health log not found")
)

// CatLookup evita depender del service completo de cats.
type CatLookup interface {
	GetByID(ctx context.Context, id string) (cats.Cat, error)
}

type Service struct {
	repo Repository
	cats CatLookup
	now  func() time.Time
}

func NewService(repo Repository, catLookup CatLookup) *Service {
	return &Service{
		repo: repo,
		cats: catLookup,
		now:  time.Now,
	}
}

type CreateInput struct {
	Type              Type
	Date              civil.Date
	Title             string
	Details           string
	NextDueDate       *civil.Date
	IsActiveTreatment bool
}

func (s *Service) Create(ctx context.Context, catID string, in CreateInput) (HealthLog, error) {
	if _, err := s.cats.GetByID(ctx, catID); err != nil {
		return HealthLog{}, err
	}

	l := HealthLog{
		ID:                uuid.NewString(),
		CatID:             catID,
		Type:              Type(strings.ToUpper(strings.TrimSpace(string(in.Type)))),
		Date:              in.Date,
		Title:             strings.TrimSpace(in.Title),
		Details:           strings.TrimSpace(in.Details),
		NextDueDate:       in.NextDueDate,
		IsActiveTreatment: in.IsActiveTreatment,
	}
	if err := validate(l); err != nil {
		return HealthLog{}, err
	}

	now := s.now()
	l.CreatedAt = now
	l.UpdatedAt = now

	if err := s.repo.Create(ctx, l); err != nil {
		return HealthLog{}, err
	}
	return l, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (HealthLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return HealthLog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByCat devuelve los logs del gato, más recientes primero.
func (s *Service) ListByCat(ctx context.Context, catID string, types []Type) ([]HealthLog, error) {
	if _, err := s.cats.GetByID(ctx, catID); err != nil {
		return nil, err
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, t)
		}
	}
	return s.repo.List(ctx, ListFilter{CatID: catID, Types: types})
}

type UpdateInput struct {
	Date              *civil.Date
	Title             *string
	Details           *string
	NextDueDate       optional.Field[civil.Date]
	IsActiveTreatment *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (HealthLog, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return HealthLog{}, err
	}

	if in.Date != nil {
		l.Date = *in.Date
	}
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Details != nil {
		l.Details = strings.TrimSpace(*in.Details)
	}
	if in.NextDueDate.Set {
		l.NextDueDate = in.NextDueDate.Value
	}
	if in.IsActiveTreatment != nil {
		l.IsActiveTreatment = *in.IsActiveTreatment
	}
	if err := validate(l); err != nil {
		return HealthLog{}, err
	}

	l.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, l); err != nil {
		return HealthLog{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func validate(l HealthLog) error {
	if !l.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, l.Type)
	}
	if l.Date.IsZero() || !l.Date.IsValid() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if l.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if l.NextDueDate != nil {
		if !l.Type.IsPreventive() {
			return fmt.Errorf("%w: next_due_date is only allowed for VACCINE, FLEA and DEWORM", ErrInvalidInput)
		}
		if !l.NextDueDate.IsValid() || l.NextDueDate.Before(l.Date) {
			return fmt.Errorf("%w: next_due_date must be on or after date", ErrInvalidInput)
		}
	}
	if l.IsActiveTreatment && !l.Type.AllowsTreatment() {
		return fmt.Errorf("%w: is_active_treatment is only allowed for ILLNESS, MEDICATION and CLINIC", ErrInvalidInput)
	}
	return nil
}

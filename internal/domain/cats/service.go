package cats

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"cat-care-console/internal/platform/optional"
	"cat-care-console/internal/ports/photos"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("cat not found")
	ErrPhotosOff    = errors.New("photo uploads are not configured")
)

const maxNameLen = 80

var photoExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Service struct {
	repo   Repository
	signer photos.Signer
	now    func() time.Time
}

// NewService: signer puede ser nil (subida de fotos deshabilitada).
func NewService(repo Repository, signer photos.Signer) *Service {
	return &Service{
		repo:   repo,
		signer: signer,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name           string
	Badge          string
	Breed          string
	DateOfBirth    *civil.Date
	Status         string
	Location       string
	TreatmentNotes string
	Contagious     *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Cat, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return Cat{}, err
	}

	st, err := parseStatus(in.Status)
	if err != nil {
		return Cat{}, err
	}
	loc, err := parseLocation(in.Location)
	if err != nil {
		return Cat{}, err
	}
	if err := s.validateBirth(in.DateOfBirth); err != nil {
		return Cat{}, err
	}

	now := s.now()
	c := Cat{
		ID:             uuid.NewString(),
		Name:           name,
		Badge:          strings.TrimSpace(in.Badge),
		Breed:          optionalText(in.Breed),
		DateOfBirth:    in.DateOfBirth,
		Status:         st,
		Location:       loc,
		TreatmentNotes: optionalText(in.TreatmentNotes),
		Contagious:     in.Contagious,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cat{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Cat, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Cat{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Cat, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput: punteros nil = no tocar; Optional distingue ausente de null (limpiar).
type UpdateInput struct {
	Name           *string
	Badge          *string
	Breed          optional.Field[string]
	DateOfBirth    optional.Field[civil.Date]
	Status         optional.Field[string]
	Location       optional.Field[string]
	TreatmentNotes optional.Field[string]
	Contagious     optional.Field[bool]
	IsActive       *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Cat, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Cat{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return Cat{}, err
		}
		c.Name = name
	}
	if in.Badge != nil {
		c.Badge = strings.TrimSpace(*in.Badge)
	}
	if in.Breed.Set {
		c.Breed = optionalText(deref(in.Breed.Value))
	}
	if in.DateOfBirth.Set {
		if err := s.validateBirth(in.DateOfBirth.Value); err != nil {
			return Cat{}, err
		}
		c.DateOfBirth = in.DateOfBirth.Value
	}
	if in.Status.Set {
		st, err := parseStatus(deref(in.Status.Value))
		if err != nil {
			return Cat{}, err
		}
		c.Status = st
	}
	if in.Location.Set {
		loc, err := parseLocation(deref(in.Location.Value))
		if err != nil {
			return Cat{}, err
		}
		c.Location = loc
	}
	if in.TreatmentNotes.Set {
		c.TreatmentNotes = optionalText(deref(in.TreatmentNotes.Value))
	}
	if in.Contagious.Set {
		c.Contagious = in.Contagious.Value
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Cat{}, err
	}
	return c, nil
}

// Deactivate es el borrado lógico: el gato sale del tablero pero conserva su historial.
func (s *Service) Deactivate(ctx context.Context, id string) (Cat, error) {
	inactive := false
	return s.Update(ctx, id, UpdateInput{IsActive: &inactive})
}

// RequestPhotoUpload firma una URL de subida y guarda la key en el perfil.
func (s *Service) RequestPhotoUpload(ctx context.Context, id, contentType string) (photos.Upload, error) {
	if s.signer == nil {
		return photos.Upload{}, ErrPhotosOff
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := photoExt[contentType]
	if !ok {
		return photos.Upload{}, fmt.Errorf("%w: content_type must be image/jpeg, image/png or image/webp", ErrInvalidInput)
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return photos.Upload{}, err
	}

	key := path.Join("cats", c.ID, uuid.NewString()+ext)
	up, err := s.signer.SignUpload(ctx, key, contentType)
	if err != nil {
		return photos.Upload{}, err
	}

	c.PhotoKey = &key
	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return photos.Upload{}, err
	}
	return up, nil
}

func (s *Service) validateBirth(d *civil.Date) error {
	if d == nil {
		return nil
	}
	if !d.IsValid() {
		return fmt.Errorf("%w: date_of_birth is not a valid date", ErrInvalidInput)
	}
	if d.After(civil.DateOf(s.now())) {
		return fmt.Errorf("%w: date_of_birth cannot be in the future", ErrInvalidInput)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > maxNameLen {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxNameLen)
	}
	return nil
}

func parseStatus(raw string) (*Status, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	st := Status(raw)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, raw)
	}
	return &st, nil
}

func parseLocation(raw string) (*Location, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	loc := Location(raw)
	if !loc.Valid() {
		return nil, fmt.Errorf("%w: unknown location %q", ErrInvalidInput, raw)
	}
	return &loc, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

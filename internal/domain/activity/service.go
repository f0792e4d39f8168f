package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/platform/caldate"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("activity entry not found")
)

const maxNoteLen = 2000

type CatLookup interface {
	GetByID(ctx context.Context, id string) (cats.Cat, error)
}

type Service struct {
	repo Repository
	cats CatLookup
	loc  *time.Location
	now  func() time.Time
}

// NewService: loc define el día local de los mensajes entrantes y del "hoy" por defecto.
func NewService(repo Repository, catLookup CatLookup, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, cats: catLookup, loc: loc, now: time.Now}
}

type CreateInput struct {
	CatID    *string
	Date     *civil.Date // nil = hoy
	Category string
	Note     string
	ActorID  string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Entry, error) {
	cat, ok := ParseCategory(in.Category)
	if !ok {
		return Entry{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	note := strings.TrimSpace(in.Note)
	if note == "" || len([]rune(note)) > maxNoteLen {
		return Entry{}, fmt.Errorf("%w: note is required (max %d characters)", ErrInvalidInput, maxNoteLen)
	}

	var catID *string
	if in.CatID != nil && strings.TrimSpace(*in.CatID) != "" {
		id := strings.TrimSpace(*in.CatID)
		if _, err := s.cats.GetByID(ctx, id); err != nil {
			return Entry{}, err
		}
		catID = &id
	}

	now := s.now()
	date := caldate.Today(now, s.loc)
	if in.Date != nil {
		if !in.Date.IsValid() {
			return Entry{}, fmt.Errorf("%w: date is not valid", ErrInvalidInput)
		}
		date = *in.Date
	}

	e := Entry{
		ID:        uuid.NewString(),
		CatID:     catID,
		Date:      date,
		Category:  cat,
		Note:      note,
		Source:    SourceManual,
		ActorID:   strings.TrimSpace(in.ActorID),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// ListByDate: date nil = hoy (zona configurada).
func (s *Service) ListByDate(ctx context.Context, date *civil.Date) ([]Entry, error) {
	d := caldate.Today(s.now(), s.loc)
	if date != nil {
		d = *date
	}
	return s.repo.ListByDate(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// InboundMessage es un mensaje de texto ya extraído del payload del webhook.
type InboundMessage struct {
	ID         string
	From       string
	SenderName string
	Text       string
	SentAt     time.Time
}

// IngestMessage guarda un mensaje de WhatsApp como actividad.
// Si el texto empieza con una categoría ("makan: ...", "#obat ...") se usa; si no, "lainnya".
func (s *Service) IngestMessage(ctx context.Context, m InboundMessage) (Entry, error) {
	if strings.TrimSpace(m.ID) == "" {
		return Entry{}, fmt.Errorf("%w: message id is required", ErrInvalidInput)
	}
	cat, note := splitCategory(m.Text)
	if note == "" {
		return Entry{}, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	if n := []rune(note); len(n) > maxNoteLen {
		note = string(n[:maxNoteLen])
	}

	sentAt := m.SentAt
	if sentAt.IsZero() {
		sentAt = s.now()
	}

	sender := strings.TrimSpace(m.SenderName)
	if sender == "" {
		sender = strings.TrimSpace(m.From)
	}

	e := Entry{
		ID:         uuid.NewString(),
		Date:       caldate.Today(sentAt, s.loc),
		Category:   cat,
		Note:       note,
		Source:     SourceWhatsApp,
		ExternalID: m.ID,
		Sender:     sender,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func splitCategory(text string) (Category, string) {
	text = strings.TrimSpace(text)
	head, rest, found := strings.Cut(text, " ")
	head = strings.TrimSuffix(strings.TrimPrefix(head, "#"), ":")
	if c, ok := ParseCategory(head); ok {
		if !found {
			return c, ""
		}
		return c, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
	}
	return CategoryLainnya, text
}

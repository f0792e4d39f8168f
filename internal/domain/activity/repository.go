package activity

import (
	"context"

	"cloud.google.com/go/civil"
)

type Repository interface {
	Create(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, date civil.Date) ([]Entry, error)
}

package inventory

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Item, error)

	// ApplyMovement suma m.Delta al stock de forma atómica y guarda el movimiento.
	// Devuelve ErrInsufficientStock si el resultado quedaría negativo.
	ApplyMovement(ctx context.Context, m Movement, at time.Time) (Item, error)
	ListMovements(ctx context.Context, itemID string, limit int) ([]Movement, error)
}

package cats

import "context"

type Repository interface {
	Create(ctx context.Context, c Cat) error
	Update(ctx context.Context, c Cat) error
	GetByID(ctx context.Context, id string) (Cat, error)
	List(ctx context.Context, filter ListFilter) ([]Cat, error)
}

type ListFilter struct {
	IncludeInactive bool
}

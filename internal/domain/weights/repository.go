package weights

import "context"

type Repository interface {
	Create(ctx context.Context, l WeightLog) error
	Delete(ctx context.Context, id string) error
	// ListByCat: catID vacío = todos los gatos.
	ListByCat(ctx context.Context, catID string) ([]WeightLog, error)
}

package healthlogs

import "context"

type Repository interface {
	Create(ctx context.Context, l HealthLog) error
	Update(ctx context.Context, l HealthLog) error
	GetByID(ctx context.Context, id string) (HealthLog, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]HealthLog, error)
}

// ListFilter: CatID vacío = todos los gatos (snapshot del tablero).
type ListFilter struct {
	CatID string
	Types []Type
}

func (f ListFilter) Match(l HealthLog) bool {
	if f.CatID != "" && l.CatID != f.CatID {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if l.Type == t {
			return true
		}
	}
	return false
}

package snapshot

import (
	"context"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/weights"

	"golang.org/x/sync/errgroup"
)

type CatLister interface {
	List(ctx context.Context, filter cats.ListFilter) ([]cats.Cat, error)
}

type HealthLister interface {
	List(ctx context.Context, filter healthlogs.ListFilter) ([]healthlogs.HealthLog, error)
}

type WeightLister interface {
	ListByCat(ctx context.Context, catID string) ([]weights.WeightLog, error)
}

type GroomingLister interface {
	ListByCat(ctx context.Context, catID string) ([]grooming.GroomingLog, error)
}

// Loader lee los cuatro repositorios y arma el Snapshot. Es la única I/O del tablero.
type Loader struct {
	cats     CatLister
	health   HealthLister
	weights  WeightLister
	grooming GroomingLister
}

func NewLoader(c CatLister, h HealthLister, w WeightLister, g GroomingLister) *Loader {
	return &Loader{cats: c, health: h, weights: w, grooming: g}
}

// Load trae solo gatos activos. Las cuatro lecturas corren en paralelo.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	var (
		catList      []cats.Cat
		healthLogs   []healthlogs.HealthLog
		weightLogs   []weights.WeightLog
		groomingLogs []grooming.GroomingLog
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		catList, err = l.cats.List(egCtx, cats.ListFilter{})
		return err
	})
	eg.Go(func() (err error) {
		healthLogs, err = l.health.List(egCtx, healthlogs.ListFilter{})
		return err
	})
	eg.Go(func() (err error) {
		weightLogs, err = l.weights.ListByCat(egCtx, "")
		return err
	})
	eg.Go(func() (err error) {
		groomingLogs, err = l.grooming.ListByCat(egCtx, "")
		return err
	})
	if err := eg.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Build(catList, healthLogs, weightLogs, groomingLogs), nil
}

package search

import (
	"strings"

	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/status"

	"cloud.google.com/go/civil"
)

const DefaultGroomingGapDays = 30

// Env son los parámetros de los filtros; "hoy" siempre viene de afuera.
type Env struct {
	Today           civil.Date
	DueSoonDays     int
	GroomingGapDays int
	WeightDropRatio float64
}

func (e Env) statusOptions() status.Options {
	return status.Options{DueSoonDays: e.DueSoonDays, WeightDropRatio: e.WeightDropRatio}
}

// FilterCats devuelve los registros que cumplen q, en el mismo orden de entrada.
// Los modos de stock no devuelven gatos.
func FilterCats(records []snapshot.CatRecord, q Query, env Env) []snapshot.CatRecord {
	match := catPredicate(q, env)
	out := make([]snapshot.CatRecord, 0, len(records))
	if match == nil {
		return out
	}
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func catPredicate(q Query, env Env) func(snapshot.CatRecord) bool {
	switch v := q.(type) {
	case NameQuery:
		return func(r snapshot.CatRecord) bool {
			return matchesAll(v.Terms, r.Cat.Name, r.Cat.Badge, deref(r.Cat.Breed))
		}
	case PreventiveQuery:
		if v.Keyword != "" {
			return func(r snapshot.CatRecord) bool { return !r.HasTitle(v.Type, v.Keyword) }
		}
		return func(r snapshot.CatRecord) bool { return r.NextDue(v.Type) == nil }
	case GroomingQuery:
		gap := v.GapDays
		if gap <= 0 {
			gap = env.GroomingGapDays
		}
		if gap <= 0 {
			gap = DefaultGroomingGapDays
		}
		return func(r snapshot.CatRecord) bool {
			return r.LastGroomingDate == nil || env.Today.DaysSince(*r.LastGroomingDate) > gap
		}
	case WeightDropQuery:
		return func(r snapshot.CatRecord) bool {
			w := r.Weight
			return w.Latest != nil && w.Previous != nil && w.Latest.WeightKg < w.Previous.WeightKg
		}
	case WeightGainQuery:
		return func(r snapshot.CatRecord) bool {
			w := r.Weight
			return w.Latest != nil && w.Previous != nil && w.Latest.WeightKg > w.Previous.WeightKg
		}
	case SickQuery:
		return func(r snapshot.CatRecord) bool {
			return r.HasActiveTreatment || degraded(r)
		}
	case HealthyQuery:
		opts := env.statusOptions()
		return func(r snapshot.CatRecord) bool {
			return !degraded(r) && r.Suggest(env.Today, opts).Bucket == status.BucketHealthy
		}
	case LocationQuery:
		return func(r snapshot.CatRecord) bool {
			return r.Cat.Location != nil && *r.Cat.Location == v.Location
		}
	case StockEmptyQuery, StockLowQuery:
		return nil
	}
	return nil
}

// FilterStock: stock_empty => out, stock_low => low, name => nombre/categoría.
// Los modos de gatos no devuelven items.
func FilterStock(items []inventory.Item, q Query) []inventory.Item {
	out := make([]inventory.Item, 0)
	var match func(inventory.Item) bool
	switch v := q.(type) {
	case StockEmptyQuery:
		match = func(it inventory.Item) bool { return inventory.StatusOf(it) == inventory.StockOut }
	case StockLowQuery:
		match = func(it inventory.Item) bool { return inventory.StatusOf(it) == inventory.StockLow }
	case NameQuery:
		match = func(it inventory.Item) bool { return matchesAll(v.Terms, it.Name, it.Category) }
	default:
		return out
	}
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

func degraded(r snapshot.CatRecord) bool {
	return r.Cat.Status != nil && r.Cat.Status.Degraded()
}

// matchesAll: cada término aparece (sin mayúsculas) en alguno de los campos.
func matchesAll(terms []string, fields ...string) bool {
	for _, term := range terms {
		term = strings.ToLower(term)
		found := false
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package dashboard

import (
	"context"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/search"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/status"
	"cat-care-console/internal/domain/weights"
	"cat-care-console/internal/platform/caldate"
	"cat-care-console/internal/platform/metrics"

	"cloud.google.com/go/civil"
)

type SnapshotLoader interface {
	Load(ctx context.Context) (snapshot.Snapshot, error)
}

type StockLister interface {
	List(ctx context.Context, status inventory.StockStatus) ([]inventory.Item, error)
}

type CatGetter interface {
	GetByID(ctx context.Context, id string) (cats.Cat, error)
}

type HealthLister interface {
	ListByCat(ctx context.Context, catID string, types []healthlogs.Type) ([]healthlogs.HealthLog, error)
}

type WeightLister interface {
	ListByCat(ctx context.Context, catID string) ([]weights.WeightLog, error)
}

// Options son los umbrales de cuidado; ceros toman los valores por defecto.
type Options struct {
	DueSoonDays            int
	NotificationWindowDays int
	GroomingGapDays        int
	WeightDropRatio        float64
	Location               *time.Location
}

func (o Options) withDefaults() Options {
	if o.DueSoonDays <= 0 {
		o.DueSoonDays = status.DefaultDueSoonDays
	}
	if o.NotificationWindowDays <= 0 {
		o.NotificationWindowDays = DefaultNotificationWindowDays
	}
	if o.GroomingGapDays <= 0 {
		o.GroomingGapDays = search.DefaultGroomingGapDays
	}
	if o.WeightDropRatio <= 0 || o.WeightDropRatio > 1 {
		o.WeightDropRatio = status.DefaultWeightDropRatio
	}
	return o
}

type Deps struct {
	Snapshots SnapshotLoader
	Stock     StockLister
	Cats      CatGetter
	Health    HealthLister
	Weights   WeightLister
	Metrics   *metrics.Metrics
}

type Service struct {
	deps Deps
	opts Options
	now  func() time.Time
}

func NewService(deps Deps, opts Options) *Service {
	return &Service{deps: deps, opts: opts.withDefaults(), now: time.Now}
}

func (s *Service) today() civil.Date {
	return caldate.Today(s.now(), s.opts.Location)
}

func (s *Service) statusOptions() status.Options {
	return status.Options{DueSoonDays: s.opts.DueSoonDays, WeightDropRatio: s.opts.WeightDropRatio}
}

func (s *Service) searchEnv(today civil.Date) search.Env {
	return search.Env{
		Today:           today,
		DueSoonDays:     s.opts.DueSoonDays,
		GroomingGapDays: s.opts.GroomingGapDays,
		WeightDropRatio: s.opts.WeightDropRatio,
	}
}

// CatStatus es un gato del tablero con su sugerencia calculada.
type CatStatus struct {
	Record     snapshot.CatRecord
	Suggestion status.Suggestion
}

type Counts struct {
	Cats           int `json:"cats"`
	NeedsAttention int `json:"needs_attention"`
	Monitor        int `json:"monitor"`
	Healthy        int `json:"healthy"`
	InTreatment    int `json:"in_treatment"`
	StockAlerts    int `json:"stock_alerts"`
}

type Overview struct {
	Today         civil.Date
	Counts        Counts
	Alerts        []Alert
	Notifications []Notification
	Cats          []CatStatus
}

// Overview lee el snapshot y el inventario una vez y deriva todo lo demás en memoria.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	snap, err := s.deps.Snapshots.Load(ctx)
	if err != nil {
		return Overview{}, err
	}
	items, err := s.deps.Stock.List(ctx, "")
	if err != nil {
		return Overview{}, err
	}

	today := s.today()
	restock := inventory.NeedsRestock(items)

	ov := Overview{
		Today:         today,
		Alerts:        BuildAlerts(snap.Records, restock, today),
		Notifications: BuildNotifications(snap.Records, snap.Grooming, today, s.opts.NotificationWindowDays, DefaultGroomingLimit),
		Cats:          s.withSuggestions(snap.Records, today),
	}

	ov.Counts.Cats = len(ov.Cats)
	ov.Counts.StockAlerts = len(restock)
	for _, c := range ov.Cats {
		switch c.Suggestion.Bucket {
		case status.BucketNeedsAttention:
			ov.Counts.NeedsAttention++
		case status.BucketMonitor:
			ov.Counts.Monitor++
		default:
			ov.Counts.Healthy++
		}
		if c.Record.HasActiveTreatment {
			ov.Counts.InTreatment++
		}
	}

	bySeverity := map[string]int{string(SeverityCritical): 0, string(SeverityWarning): 0}
	for _, a := range ov.Alerts {
		bySeverity[string(a.Severity)]++
	}
	s.deps.Metrics.SetAlerts(bySeverity)

	return ov, nil
}

type SearchResult struct {
	Query search.Descriptor
	Cats  []CatStatus
	Stock []inventory.Item
}

// Search interpreta text y filtra gatos e inventario con el mismo "hoy".
func (s *Service) Search(ctx context.Context, text string) (SearchResult, error) {
	q := search.Parse(text)
	res := SearchResult{Query: search.Describe(q), Cats: []CatStatus{}, Stock: []inventory.Item{}}

	today := s.today()
	switch q.(type) {
	case search.StockEmptyQuery, search.StockLowQuery:
	default:
		snap, err := s.deps.Snapshots.Load(ctx)
		if err != nil {
			return SearchResult{}, err
		}
		res.Cats = s.withSuggestions(search.FilterCats(snap.Records, q, s.searchEnv(today)), today)
	}

	switch q.(type) {
	case search.StockEmptyQuery, search.StockLowQuery, search.NameQuery:
		items, err := s.deps.Stock.List(ctx, "")
		if err != nil {
			return SearchResult{}, err
		}
		res.Stock = search.FilterStock(items, q)
	}
	return res, nil
}

// CatSuggestion calcula la sugerencia de un gato desde sus logs. No modifica al gato.
func (s *Service) CatSuggestion(ctx context.Context, catID string) (cats.Cat, status.Suggestion, error) {
	c, err := s.deps.Cats.GetByID(ctx, catID)
	if err != nil {
		return cats.Cat{}, status.Suggestion{}, err
	}
	hl, err := s.deps.Health.ListByCat(ctx, c.ID, nil)
	if err != nil {
		return cats.Cat{}, status.Suggestion{}, err
	}
	wl, err := s.deps.Weights.ListByCat(ctx, c.ID)
	if err != nil {
		return cats.Cat{}, status.Suggestion{}, err
	}
	return c, status.Suggest(hl, wl, s.today(), s.statusOptions()), nil
}

func (s *Service) withSuggestions(records []snapshot.CatRecord, today civil.Date) []CatStatus {
	opts := s.statusOptions()
	out := make([]CatStatus, 0, len(records))
	for _, r := range records {
		out = append(out, CatStatus{Record: r, Suggestion: r.Suggest(today, opts)})
	}
	return out
}

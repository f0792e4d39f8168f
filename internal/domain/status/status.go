// Package status deriva el estado sugerido de un gato (Needs Attention / Monitor /
// Healthy) a partir de sus logs de salud y de peso. Todo es puro: "hoy" entra como
// parámetro y no hay I/O ni estado compartido.
package status

import (
	"fmt"
	"math"
	"strings"

	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/weights"
	"cat-care-console/internal/platform/caldate"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

type Bucket string

const (
	BucketNeedsAttention Bucket = "Needs Attention"
	BucketMonitor        Bucket = "Monitor"
	BucketHealthy        Bucket = "Healthy"
)

const (
	DefaultDueSoonDays     = 7
	DefaultWeightDropRatio = 0.9

	ReasonActiveTreatment = "Sedang dalam perawatan aktif"
)

type Options struct {
	DueSoonDays     int
	WeightDropRatio float64
}

func DefaultOptions() Options {
	return Options{DueSoonDays: DefaultDueSoonDays, WeightDropRatio: DefaultWeightDropRatio}
}

func (o Options) normalized() Options {
	if o.DueSoonDays < 0 {
		o.DueSoonDays = 0
	}
	if o.WeightDropRatio <= 0 || o.WeightDropRatio > 1 {
		o.WeightDropRatio = DefaultWeightDropRatio
	}
	return o
}

type WeightPoint struct {
	Date     civil.Date `json:"date"`
	WeightKg float64    `json:"weight_kg"`
}

// Signals es la entrada mínima del motor. Se arma desde logs (Suggest) o desde
// la proyección del tablero.
type Signals struct {
	NextDue         map[healthlogs.Type]*civil.Date
	ActiveTreatment bool
	Latest          *WeightPoint
	Previous        *WeightPoint
}

type Suggestion struct {
	Bucket        Bucket                          `json:"bucket"`
	Reasons       []string                        `json:"reasons"`
	NextDueByType map[healthlogs.Type]*civil.Date `json:"next_due_by_type"`
	LastWeight    *WeightPoint                    `json:"last_weight"`
}

// Suggest calcula la sugerencia para un gato con sus logs.
func Suggest(healthLogs []healthlogs.HealthLog, weightLogs []weights.WeightLog, today civil.Date, opts Options) Suggestion {
	return FromSignals(SignalsFrom(healthLogs, weightLogs), today, opts)
}

// SignalsFrom aplica la regla de último preventivo (healthlogs.Newer) y toma
// los dos pesos más recientes.
func SignalsFrom(healthLogs []healthlogs.HealthLog, weightLogs []weights.WeightLog) Signals {
	sig := Signals{NextDue: make(map[healthlogs.Type]*civil.Date, len(healthlogs.PreventiveTypes))}

	for t, l := range healthlogs.LatestByType(healthLogs) {
		if caldate.Valid(l.NextDueDate) {
			d := *l.NextDueDate
			sig.NextDue[t] = &d
		}
	}
	for _, l := range healthLogs {
		if l.IsActiveTreatment {
			sig.ActiveTreatment = true
			break
		}
	}

	latest, previous := weights.LatestTwo(weightLogs)
	sig.Latest = pointOf(latest)
	sig.Previous = pointOf(previous)
	return sig
}

func FromSignals(sig Signals, today civil.Date, opts Options) Suggestion {
	opts = opts.normalized()

	nextDue := make(map[healthlogs.Type]*civil.Date, len(healthlogs.PreventiveTypes))
	var overdue, dueSoon []healthlogs.Type
	soonest := -1

	for _, t := range healthlogs.PreventiveTypes {
		due := sig.NextDue[t]
		if !caldate.Valid(due) {
			nextDue[t] = nil
			continue
		}
		d := *due
		nextDue[t] = &d

		switch {
		case caldate.IsOverdue(&d, today):
			overdue = append(overdue, t)
		case caldate.IsDueSoon(&d, today, opts.DueSoonDays):
			dueSoon = append(dueSoon, t)
			if n := caldate.DaysUntil(d, today); soonest < 0 || n < soonest {
				soonest = n
			}
		}
	}

	drop := CriticalDrop(sig.Latest, sig.Previous, opts.WeightDropRatio)

	reasons := make([]string, 0, 4)
	if len(overdue) > 0 {
		reasons = append(reasons, labels(overdue)+" terlambat")
	}
	if len(dueSoon) > 0 {
		if soonest == 0 {
			reasons = append(reasons, labels(dueSoon)+" jatuh tempo hari ini")
		} else {
			reasons = append(reasons, fmt.Sprintf("%s jatuh tempo dalam %d hari", labels(dueSoon), soonest))
		}
	}
	if sig.ActiveTreatment {
		reasons = append(reasons, ReasonActiveTreatment)
	}
	if drop {
		reasons = append(reasons, WeightDropReason(opts.WeightDropRatio))
	}

	bucket := BucketHealthy
	switch {
	case len(overdue) > 0 || sig.ActiveTreatment || drop:
		bucket = BucketNeedsAttention
	case len(dueSoon) > 0:
		bucket = BucketMonitor
	}

	var last *WeightPoint
	if sig.Latest != nil {
		w := *sig.Latest
		last = &w
	}

	return Suggestion{
		Bucket:        bucket,
		Reasons:       reasons,
		NextDueByType: nextDue,
		LastWeight:    last,
	}
}

// CriticalDrop: latest < previous*ratio (estricto). Sin dos pesos válidos no hay caída.
// La comparación es en decimal para que un 90% exacto (4.2 -> 3.78) no cuente.
func CriticalDrop(latest, previous *WeightPoint, ratio float64) bool {
	if latest == nil || previous == nil || previous.WeightKg <= 0 {
		return false
	}
	threshold := decimal.NewFromFloat(previous.WeightKg).Mul(decimal.NewFromFloat(ratio))
	return decimal.NewFromFloat(latest.WeightKg).LessThan(threshold)
}

// WeightDropReason: con ratio 0.9 => "Berat badan turun >10% dari log sebelumnya".
func WeightDropReason(ratio float64) string {
	pct := math.Round((1 - ratio) * 100)
	return fmt.Sprintf("Berat badan turun >%.0f%% dari log sebelumnya", pct)
}

func labels(types []healthlogs.Type) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, t.Label())
	}
	return strings.Join(parts, ", ")
}

func pointOf(l *weights.WeightLog) *WeightPoint {
	if l == nil {
		return nil
	}
	return &WeightPoint{Date: l.Date, WeightKg: l.WeightKg}
}

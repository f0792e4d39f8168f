// Package dashboard arma el tablero: alertas priorizadas, notificaciones
// recientes, el estado sugerido por gato y la búsqueda inteligente.
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/status"
	"cat-care-console/internal/platform/caldate"

	"cloud.google.com/go/civil"
)

const (
	DefaultNotificationWindowDays = 14
	DefaultGroomingLimit          = 3
)

// Severity de una alerta.
// @Enum critical, warning
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

func (s Severity) rank() int {
	if s == SeverityCritical {
		return 0
	}
	return 1
}

// @Enum preventive_overdue, active_treatment, stock_out, stock_low
type AlertKind string

const (
	AlertPreventiveOverdue AlertKind = "preventive_overdue"
	AlertActiveTreatment   AlertKind = "active_treatment"
	AlertStockOut          AlertKind = "stock_out"
	AlertStockLow          AlertKind = "stock_low"
)

type Alert struct {
	Kind     AlertKind       `json:"kind"`
	Severity Severity        `json:"severity"`
	CatID    string          `json:"cat_id,omitempty"`
	ItemID   string          `json:"item_id,omitempty"`
	Name     string          `json:"name"`
	Type     healthlogs.Type `json:"type,omitempty"`
	Date     *civil.Date     `json:"date,omitempty"`
	Message  string          `json:"message"`
}

// @Enum preventive_due, grooming
type NotificationKind string

const (
	NotificationPreventiveDue NotificationKind = "preventive_due"
	NotificationGrooming      NotificationKind = "grooming"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	CatID   string           `json:"cat_id"`
	CatName string           `json:"cat_name"`
	Type    healthlogs.Type  `json:"type,omitempty"`
	Date    civil.Date       `json:"date"`
	Message string           `json:"message"`
}

// BuildAlerts: una crítica por (gato, tipo preventivo) vencido, una warning por gato
// en tratamiento activo y una warning por item sin stock o con stock bajo.
// Orden: críticas primero, luego fecha ascendente (sin fecha al final), luego nombre.
func BuildAlerts(records []snapshot.CatRecord, stock []inventory.Item, today civil.Date) []Alert {
	out := make([]Alert, 0)

	for _, r := range records {
		for _, t := range healthlogs.PreventiveTypes {
			due := r.NextDue(t)
			if !caldate.IsOverdue(due, today) {
				continue
			}
			d := *due
			out = append(out, Alert{
				Kind:     AlertPreventiveOverdue,
				Severity: SeverityCritical,
				CatID:    r.Cat.ID,
				Name:     r.Cat.Name,
				Type:     t,
				Date:     &d,
				Message:  fmt.Sprintf("%s terlambat %d hari", t.Label(), today.DaysSince(d)),
			})
		}
		if r.HasActiveTreatment {
			out = append(out, Alert{
				Kind:     AlertActiveTreatment,
				Severity: SeverityWarning,
				CatID:    r.Cat.ID,
				Name:     r.Cat.Name,
				Message:  status.ReasonActiveTreatment,
			})
		}
	}

	for _, it := range stock {
		switch inventory.StatusOf(it) {
		case inventory.StockOut:
			out = append(out, Alert{
				Kind:     AlertStockOut,
				Severity: SeverityWarning,
				ItemID:   it.ID,
				Name:     it.Name,
				Message:  "Stok habis",
			})
		case inventory.StockLow:
			out = append(out, Alert{
				Kind:     AlertStockLow,
				Severity: SeverityWarning,
				ItemID:   it.ID,
				Name:     it.Name,
				Message:  fmt.Sprintf("Stok menipis (%s %s tersisa)", it.Stock.String(), it.Unit),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if c := compareDates(a.Date, b.Date); c != 0 {
			return c < 0
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.Type < b.Type
	})
	return out
}

// compareDates ordena ascendente; nil va al final.
func compareDates(a, b *civil.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

// BuildNotifications: preventivos que vencen dentro de windowDays (sin contar vencidos)
// más los groomingLimit grooming más recientes. Todo por fecha descendente.
func BuildNotifications(records []snapshot.CatRecord, recentGrooming []grooming.GroomingLog, today civil.Date, windowDays, groomingLimit int) []Notification {
	out := make([]Notification, 0)
	names := make(map[string]string, len(records))

	for _, r := range records {
		names[r.Cat.ID] = r.Cat.Name
		for _, t := range healthlogs.PreventiveTypes {
			due := r.NextDue(t)
			if !caldate.IsDueSoon(due, today, windowDays) {
				continue
			}
			out = append(out, Notification{
				Kind:    NotificationPreventiveDue,
				CatID:   r.Cat.ID,
				CatName: r.Cat.Name,
				Type:    t,
				Date:    *due,
				Message: dueMessage(t, caldate.DaysUntil(*due, today)),
			})
		}
	}

	taken := 0
	for _, g := range recentGrooming {
		if taken >= groomingLimit {
			break
		}
		name, ok := names[g.CatID]
		if !ok {
			continue
		}
		out = append(out, Notification{
			Kind:    NotificationGrooming,
			CatID:   g.CatID,
			CatName: name,
			Date:    g.Date,
			Message: "Grooming selesai",
		})
		taken++
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date.After(b.Date)
		}
		if an, bn := strings.ToLower(a.CatName), strings.ToLower(b.CatName); an != bn {
			return an < bn
		}
		return a.Type < b.Type
	})
	return out
}

func dueMessage(t healthlogs.Type, days int) string {
	if days == 0 {
		return t.Label() + " jatuh tempo hari ini"
	}
	return fmt.Sprintf("%s jatuh tempo dalam %d hari", t.Label(), days)
}

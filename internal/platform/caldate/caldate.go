// Package caldate trabaja con días de calendario locales (sin hora ni zona),
// evitando el corrimiento de un día que produce convertir fechas DATE a UTC.
package caldate

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const Layout = "2006-01-02"

// Today es el día de calendario de now en loc (nil => UTC).
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

// FromTime toma Y/M/D tal cual vienen en t, sin convertir de zona.
// Es lo correcto para columnas DATE que el driver entrega como medianoche UTC.
func FromTime(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// ToTime representa d como medianoche UTC (formato que espera el driver para DATE).
func ToTime(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func Parse(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil || !d.IsValid() {
		return civil.Date{}, fmt.Errorf("date must be YYYY-MM-DD: %q", s)
	}
	return d, nil
}

// ParseOptional: vacío => nil.
func ParseOptional(s string) (*civil.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Valid reporta si d es una fecha agendada utilizable. nil, cero o inválida => false.
func Valid(d *civil.Date) bool {
	return d != nil && !d.IsZero() && d.IsValid()
}

// IsOverdue: vence estrictamente antes de hoy.
func IsOverdue(due *civil.Date, today civil.Date) bool {
	if !Valid(due) {
		return false
	}
	return due.Before(today)
}

// IsDueSoon: hoy <= due <= hoy+windowDays (inclusive), nunca si ya venció.
func IsDueSoon(due *civil.Date, today civil.Date, windowDays int) bool {
	if !Valid(due) || windowDays < 0 {
		return false
	}
	if due.Before(today) {
		return false
	}
	return !due.After(today.AddDays(windowDays))
}

// DaysUntil es positivo si due está en el futuro, negativo si ya pasó.
func DaysUntil(due civil.Date, today civil.Date) int {
	return due.DaysSince(today)
}

// Ptr es un atajo para literales en tests y adapters.
func Ptr(d civil.Date) *civil.Date {
	return &d
}

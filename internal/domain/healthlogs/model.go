package healthlogs

import (
	"time"

	"cloud.google.com/go/civil"
)

// Type del registro de salud.
// @Enum VACCINE, FLEA, DEWORM, ILLNESS, MEDICATION, CLINIC, NOTE
type Type string

const (
	TypeVaccine    Type = "VACCINE"
	TypeFlea       Type = "FLEA"
	TypeDeworm     Type = "DEWORM"
	TypeIllness    Type = "ILLNESS"
	TypeMedication Type = "MEDICATION"
	TypeClinic     Type = "CLINIC"
	TypeNote       Type = "NOTE"
)

// PreventiveTypes en el orden en que se reportan.
var PreventiveTypes = []Type{TypeVaccine, TypeFlea, TypeDeworm}

func (t Type) Valid() bool {
	switch t {
	case TypeVaccine, TypeFlea, TypeDeworm, TypeIllness, TypeMedication, TypeClinic, TypeNote:
		return true
	}
	return false
}

// IsPreventive: cuidados recurrentes con próxima fecha (vacuna, pulgas, desparasitación).
func (t Type) IsPreventive() bool {
	return t == TypeVaccine || t == TypeFlea || t == TypeDeworm
}

// AllowsTreatment: tipos que pueden marcar tratamiento activo.
func (t Type) AllowsTreatment() bool {
	return t == TypeIllness || t == TypeMedication || t == TypeClinic
}

// Label es el nombre corto que aparece en razones y alertas.
func (t Type) Label() string {
	switch t {
	case TypeVaccine:
		return "Vaksin"
	case TypeFlea:
		return "Flea"
	case TypeDeworm:
		return "Deworm"
	}
	return string(t)
}

type HealthLog struct {
	ID    string
	CatID string

	Type    Type
	Date    civil.Date // fecha en que se aplicó
	Title   string
	Details string

	NextDueDate       *civil.Date // solo preventivos
	IsActiveTreatment bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Newer reporta si a es más reciente que b: mayor Date, luego CreatedAt, luego ID.
// Es la única regla de "último preventivo" del sistema.
func Newer(a, b HealthLog) bool {
	if a.Date != b.Date {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// LatestByType devuelve el log más reciente de cada tipo preventivo presente.
func LatestByType(logs []HealthLog) map[Type]HealthLog {
	out := make(map[Type]HealthLog, len(PreventiveTypes))
	for _, l := range logs {
		if !l.Type.IsPreventive() {
			continue
		}
		cur, ok := out[l.Type]
		if !ok || Newer(l, cur) {
			out[l.Type] = l
		}
	}
	return out
}

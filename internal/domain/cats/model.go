package cats

import (
	"time"

	"cloud.google.com/go/civil"
)

// Status es el estado de salud que registra el equipo (no la sugerencia calculada).
// @Enum sehat, membaik, memburuk, hampir_sembuh, observasi, sakit
type Status string

const (
	StatusSehat        Status = "sehat"
	StatusMembaik      Status = "membaik"
	StatusMemburuk     Status = "memburuk"
	StatusHampirSembuh Status = "hampir_sembuh"
	StatusObservasi    Status = "observasi"
	StatusSakit        Status = "sakit"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSehat, StatusMembaik, StatusMemburuk, StatusHampirSembuh, StatusObservasi, StatusSakit:
		return true
	}
	return false
}

// Degraded: estados que cuentan como "sakit" en búsqueda y dashboard.
func (s Status) Degraded() bool {
	return s == StatusSakit || s == StatusMemburuk
}

// Location indica dónde está el gato.
// @Enum rumah, toko, klinik
type Location string

const (
	LocationRumah  Location = "rumah"
	LocationToko   Location = "toko"
	LocationKlinik Location = "klinik"
)

func (l Location) Valid() bool {
	switch l {
	case LocationRumah, LocationToko, LocationKlinik:
		return true
	}
	return false
}

// Cat es el perfil de un gato del hogar/shelter.
type Cat struct {
	ID    string
	Name  string
	Badge string // apodo / código corto visible en el tablero

	Breed       *string
	DateOfBirth *civil.Date
	Status      *Status
	Location    *Location

	PhotoKey       *string
	TreatmentNotes *string
	Contagious     *bool // nil = desconocido

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

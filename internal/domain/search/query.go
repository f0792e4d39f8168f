// Package search interpreta la búsqueda libre del tablero ("stok habis",
// "belum rabies", "grooming 2 minggu") y filtra gatos e inventario.
package search

import (
	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/healthlogs"
)

// Mode identifica la variante de Query en respuestas JSON.
// @Enum name, preventive, grooming, weight_drop, weight_gain, sick, healthy, location, stock_empty, stock_low
type Mode string

const (
	ModeName       Mode = "name"
	ModePreventive Mode = "preventive"
	ModeGrooming   Mode = "grooming"
	ModeWeightDrop Mode = "weight_drop"
	ModeWeightGain Mode = "weight_gain"
	ModeSick       Mode = "sick"
	ModeHealthy    Mode = "healthy"
	ModeLocation   Mode = "location"
	ModeStockEmpty Mode = "stock_empty"
	ModeStockLow   Mode = "stock_low"
)

// Query es cerrada: solo los tipos de este paquete la implementan.
type Query interface {
	Mode() Mode
	sealed()
}

// NameQuery: cada término (separados por "&") debe aparecer en nombre, badge o raza.
// Sin términos devuelve a todos.
type NameQuery struct{ Terms []string }

// PreventiveQuery busca gatos a los que les falta un cuidado preventivo.
type PreventiveQuery struct {
	Type    healthlogs.Type
	Keyword string
}

// GroomingQuery: GapDays 0 usa el valor configurado.
type GroomingQuery struct{ GapDays int }

type WeightDropQuery struct{}
type WeightGainQuery struct{}
type SickQuery struct{}
type HealthyQuery struct{}
type LocationQuery struct{ Location cats.Location }
type StockEmptyQuery struct{}
type StockLowQuery struct{}

func (NameQuery) Mode() Mode       { return ModeName }
func (PreventiveQuery) Mode() Mode { return ModePreventive }
func (GroomingQuery) Mode() Mode   { return ModeGrooming }
func (WeightDropQuery) Mode() Mode { return ModeWeightDrop }
func (WeightGainQuery) Mode() Mode { return ModeWeightGain }
func (SickQuery) Mode() Mode       { return ModeSick }
func (HealthyQuery) Mode() Mode    { return ModeHealthy }
func (LocationQuery) Mode() Mode   { return ModeLocation }
func (StockEmptyQuery) Mode() Mode { return ModeStockEmpty }
func (StockLowQuery) Mode() Mode   { return ModeStockLow }

func (NameQuery) sealed()       {}
func (PreventiveQuery) sealed() {}
func (GroomingQuery) sealed()   {}
func (WeightDropQuery) sealed() {}
func (WeightGainQuery) sealed() {}
func (SickQuery) sealed()       {}
func (HealthyQuery) sealed()    {}
func (LocationQuery) sealed()   {}
func (StockEmptyQuery) sealed() {}
func (StockLowQuery) sealed()   {}

// Descriptor es la forma JSON de una Query.
type Descriptor struct {
	Mode     Mode            `json:"mode"`
	Terms    []string        `json:"terms,omitempty"`
	Type     healthlogs.Type `json:"type,omitempty"`
	Keyword  string          `json:"keyword,omitempty"`
	GapDays  int             `json:"gap_days,omitempty"`
	Location cats.Location   `json:"location,omitempty"`
}

func Describe(q Query) Descriptor {
	d := Descriptor{Mode: q.Mode()}
	switch v := q.(type) {
	case NameQuery:
		d.Terms = v.Terms
	case PreventiveQuery:
		d.Type = v.Type
		d.Keyword = v.Keyword
	case GroomingQuery:
		d.GapDays = v.GapDays
	case LocationQuery:
		d.Location = v.Location
	}
	return d
}

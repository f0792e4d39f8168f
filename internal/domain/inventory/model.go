package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus derivado del stock actual.
// @Enum out, low, ok
type StockStatus string

const (
	StockOut StockStatus = "out"
	StockLow StockStatus = "low"
	StockOK  StockStatus = "ok"
)

type Item struct {
	ID       string
	Name     string
	Category string // pakan, pasir, obat, vitamin...
	Unit     string

	Stock    decimal.Decimal
	MinStock *decimal.Decimal // nil = sin umbral

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusOf: out si stock <= 0; low si 0 < stock <= min (con min definido); si no ok.
func StatusOf(it Item) StockStatus {
	if it.Stock.LessThanOrEqual(decimal.Zero) {
		return StockOut
	}
	if it.MinStock != nil && it.Stock.LessThanOrEqual(*it.MinStock) {
		return StockLow
	}
	return StockOK
}

// NeedsRestock: items que el tablero reporta como alerta.
func NeedsRestock(items []Item) []Item {
	out := make([]Item, 0)
	for _, it := range items {
		if StatusOf(it) != StockOK {
			out = append(out, it)
		}
	}
	return out
}

// Movement es un ajuste de stock (entrada positiva, consumo negativo).
type Movement struct {
	ID      string
	ItemID  string
	Delta   decimal.Decimal
	Reason  string
	ActorID string

	CreatedAt time.Time
}

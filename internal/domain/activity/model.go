package activity

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Category del registro diario.
// @Enum makan, minum, obat, pasir, grooming, bermain, lainnya
type Category string

const (
	CategoryMakan    Category = "makan"
	CategoryMinum    Category = "minum"
	CategoryObat     Category = "obat"
	CategoryPasir    Category = "pasir"
	CategoryGrooming Category = "grooming"
	CategoryBermain  Category = "bermain"
	CategoryLainnya  Category = "lainnya"
)

var categories = []Category{CategoryMakan, CategoryMinum, CategoryObat, CategoryPasir, CategoryGrooming, CategoryBermain, CategoryLainnya}

func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type Source string

const (
	SourceManual   Source = "manual"
	SourceWhatsApp Source = "whatsapp"
)

type Entry struct {
	ID    string
	CatID *string // nil = actividad general del hogar
	Date  civil.Date

	Category Category
	Note     string

	Source     Source
	ExternalID string // id del mensaje de WhatsApp
	Sender     string
	ActorID    string

	CreatedAt time.Time
}

package search

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/healthlogs"
)

// text es la consulta normalizada: minúsculas, tokens alfanuméricos.
type text struct {
	raw    string
	tokens []string
	set    map[string]struct{}
	padded string // " tok1 tok2 " para frases
}

func newText(s string) text {
	raw := strings.ToLower(strings.TrimSpace(s))
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return text{raw: raw, tokens: tokens, set: set, padded: " " + strings.Join(tokens, " ") + " "}
}

// has acepta palabras sueltas o frases ("tidak sehat").
func (t text) has(words ...string) bool {
	for _, w := range words {
		if strings.Contains(w, " ") {
			if strings.Contains(t.padded, " "+w+" ") {
				return true
			}
			continue
		}
		if _, ok := t.set[w]; ok {
			return true
		}
	}
	return false
}

// without devuelve los tokens que no están en ninguna de las listas.
func (t text) without(lists ...[]string) []string {
	drop := map[string]struct{}{}
	for _, l := range lists {
		for _, w := range l {
			for _, part := range strings.Fields(w) {
				drop[part] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(t.tokens))
	for _, tok := range t.tokens {
		if _, ok := drop[tok]; !ok {
			out = append(out, tok)
		}
	}
	return out
}

var (
	stockWords    = []string{"stok", "stock", "persediaan", "inventory", "inventaris"}
	emptyWords    = []string{"habis", "kosong", "empty", "out"}
	lowWords      = []string{"menipis", "tipis", "sedikit", "rendah", "low", "hampir habis", "restock"}
	sickWords     = []string{"sakit", "dirawat", "perawatan", "tidak sehat", "kurang sehat", "memburuk", "sick"}
	healthyWords  = []string{"sehat", "healthy"}
	weightWords   = []string{"berat", "bb", "weight", "bobot"}
	dropWords     = []string{"turun", "drop", "kurus", "menurun", "berkurang"}
	gainWords     = []string{"naik", "gain", "gemuk", "bertambah", "meningkat"}
	groomingWords = []string{"grooming", "groom", "mandi", "potong kuku"}
	vaccineWords  = []string{"vaksin", "vaksinasi", "vaccine", "vaccination", "vaccin"}
	fleaWords     = []string{"flea", "kutu", "pinjal", "anti kutu"}
	dewormWords   = []string{"deworm", "deworming", "cacing", "obat cacing", "worm"}

	// Vacunas conocidas: van directo a VACCINE con esa palabra clave.
	vaccineKeywords = []string{"f3", "f4", "rabies", "tricat", "felocell", "purevax"}

	fillerWords = []string{
		"belum", "blm", "sudah", "udah", "yang", "yg", "kucing", "cat", "cats",
		"tanpa", "tidak", "ga", "gak", "ada", "no", "without", "untuk", "anti",
		"obat", "perlu", "butuh", "need", "di", "dan", "the", "and",
	}

	gapPattern = regexp.MustCompile(`(\d+)\s*(hari|minggu|bulan)`)
)

var locations = []cats.Location{cats.LocationRumah, cats.LocationToko, cats.LocationKlinik}

// rule es un paso del parser; el primero que devuelve ok gana.
type rule struct {
	name  string
	match func(text) (Query, bool)
}

// rules van de lo más específico a lo más genérico; la búsqueda por nombre es el fallback.
var rules = []rule{
	{"stock_empty", func(t text) (Query, bool) {
		return StockEmptyQuery{}, t.has(stockWords...) && t.has(emptyWords...) && !t.has("hampir habis")
	}},
	{"stock_low", func(t text) (Query, bool) {
		return StockLowQuery{}, t.has(stockWords...) && t.has(lowWords...)
	}},
	{"location", func(t text) (Query, bool) {
		for _, l := range locations {
			if t.has(string(l)) {
				return LocationQuery{Location: l}, true
			}
		}
		return nil, false
	}},
	{"sick", func(t text) (Query, bool) {
		return SickQuery{}, t.has(sickWords...)
	}},
	{"healthy", func(t text) (Query, bool) {
		return HealthyQuery{}, t.has(healthyWords...)
	}},
	{"weight_drop", func(t text) (Query, bool) {
		return WeightDropQuery{}, t.has(weightWords...) && t.has(dropWords...)
	}},
	{"weight_gain", func(t text) (Query, bool) {
		return WeightGainQuery{}, t.has(weightWords...) && t.has(gainWords...)
	}},
	{"grooming", func(t text) (Query, bool) {
		if !t.has(groomingWords...) {
			return nil, false
		}
		return GroomingQuery{GapDays: gapDays(t.raw)}, true
	}},
	{"vaccine", func(t text) (Query, bool) {
		for _, kw := range vaccineKeywords {
			if t.has(kw) {
				return PreventiveQuery{Type: healthlogs.TypeVaccine, Keyword: kw}, true
			}
		}
		if !t.has(vaccineWords...) {
			return nil, false
		}
		return PreventiveQuery{Type: healthlogs.TypeVaccine, Keyword: keyword(t, vaccineWords)}, true
	}},
	{"flea", func(t text) (Query, bool) {
		if !t.has(fleaWords...) {
			return nil, false
		}
		return PreventiveQuery{Type: healthlogs.TypeFlea, Keyword: keyword(t, fleaWords)}, true
	}},
	{"deworm", func(t text) (Query, bool) {
		if !t.has(dewormWords...) {
			return nil, false
		}
		return PreventiveQuery{Type: healthlogs.TypeDeworm, Keyword: keyword(t, dewormWords)}, true
	}},
}

// Parse nunca falla: lo que no encaja en ninguna regla es búsqueda por nombre.
func Parse(s string) Query {
	t := newText(s)
	if len(t.tokens) == 0 {
		return NameQuery{}
	}
	for _, r := range rules {
		if q, ok := r.match(t); ok {
			return q
		}
	}
	return NameQuery{Terms: nameTerms(t.raw)}
}

func nameTerms(raw string) []string {
	var terms []string
	for _, part := range strings.Split(raw, "&") {
		if p := strings.Join(strings.Fields(part), " "); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

func keyword(t text, group []string) string {
	return strings.Join(t.without(group, fillerWords), " ")
}

// gapDays convierte "2 minggu" => 14. 0 si no hay intervalo.
func gapDays(raw string) int {
	m := gapPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0
	}
	switch m[2] {
	case "minggu":
		return n * 7
	case "bulan":
		return n * 30
	}
	return n
}

// Package snapshot arma la proyección por gato que consumen el motor de estado,
// la búsqueda y el tablero.
package snapshot

import (
	"sort"
	"strings"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/grooming"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/status"
	"cat-care-console/internal/domain/weights"
	"cat-care-console/internal/platform/caldate"

	"cloud.google.com/go/civil"
)

// PreventiveSummary resume un tipo preventivo de un gato.
// LastDate y NextDue salen del último log (healthlogs.Newer); Titles junta
// los títulos de todos los logs del tipo para la búsqueda por palabra clave.
type PreventiveSummary struct {
	LastDate *civil.Date
	NextDue  *civil.Date
	Titles   []string
}

type WeightTrend struct {
	Latest   *status.WeightPoint `json:"latest"`
	Previous *status.WeightPoint `json:"previous"`
}

// CatRecord es la vista de solo lectura de un gato en el tablero.
type CatRecord struct {
	Cat                cats.Cat
	Preventive         map[healthlogs.Type]PreventiveSummary
	Weight             WeightTrend
	HasActiveTreatment bool
	LastGroomingDate   *civil.Date
}

// Snapshot es todo lo que el tablero necesita, leído de una vez.
// Grooming trae los logs de gatos activos, el más reciente primero.
type Snapshot struct {
	Records  []CatRecord
	Grooming []grooming.GroomingLog
}

// Signals adapta el registro a la entrada del motor de estado.
func (r CatRecord) Signals() status.Signals {
	sig := status.Signals{
		NextDue:         make(map[healthlogs.Type]*civil.Date, len(healthlogs.PreventiveTypes)),
		ActiveTreatment: r.HasActiveTreatment,
		Latest:          r.Weight.Latest,
		Previous:        r.Weight.Previous,
	}
	for t, p := range r.Preventive {
		if caldate.Valid(p.NextDue) {
			d := *p.NextDue
			sig.NextDue[t] = &d
		}
	}
	return sig
}

// Suggest es status.FromSignals sobre el registro.
func (r CatRecord) Suggest(today civil.Date, opts status.Options) status.Suggestion {
	return status.FromSignals(r.Signals(), today, opts)
}

// NextDue devuelve la próxima fecha del tipo; nil si no está agendado.
func (r CatRecord) NextDue(t healthlogs.Type) *civil.Date {
	p, ok := r.Preventive[t]
	if !ok || !caldate.Valid(p.NextDue) {
		return nil
	}
	return p.NextDue
}

// HasTitle reporta si algún log del tipo tiene un título que contenga keyword (sin mayúsculas).
func (r CatRecord) HasTitle(t healthlogs.Type, keyword string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	for _, title := range r.Preventive[t].Titles {
		if strings.Contains(strings.ToLower(title), kw) {
			return true
		}
	}
	return false
}

// Build proyecta los datos crudos. Los logs de gatos que no están en catList se ignoran.
// Los registros salen ordenados por nombre y luego ID.
func Build(catList []cats.Cat, healthLogs []healthlogs.HealthLog, weightLogs []weights.WeightLog, groomingLogs []grooming.GroomingLog) Snapshot {
	byCat := make(map[string]*bucket, len(catList))
	for _, c := range catList {
		byCat[c.ID] = &bucket{}
	}
	for _, l := range healthLogs {
		if b, ok := byCat[l.CatID]; ok {
			b.health = append(b.health, l)
		}
	}
	for _, l := range weightLogs {
		if b, ok := byCat[l.CatID]; ok {
			b.weights = append(b.weights, l)
		}
	}

	recent := make([]grooming.GroomingLog, 0, len(groomingLogs))
	for _, l := range groomingLogs {
		if b, ok := byCat[l.CatID]; ok {
			b.grooming = append(b.grooming, l)
			recent = append(recent, l)
		}
	}
	grooming.SortNewestFirst(recent)

	records := make([]CatRecord, 0, len(catList))
	for _, c := range catList {
		records = append(records, byCat[c.ID].record(c))
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := strings.ToLower(records[i].Cat.Name), strings.ToLower(records[j].Cat.Name)
		if a != b {
			return a < b
		}
		return records[i].Cat.ID < records[j].Cat.ID
	})

	return Snapshot{Records: records, Grooming: recent}
}

type bucket struct {
	health   []healthlogs.HealthLog
	weights  []weights.WeightLog
	grooming []grooming.GroomingLog
}

func (b *bucket) record(c cats.Cat) CatRecord {
	rec := CatRecord{
		Cat:              c,
		Preventive:       make(map[healthlogs.Type]PreventiveSummary, len(healthlogs.PreventiveTypes)),
		LastGroomingDate: grooming.LastDate(b.grooming),
	}

	latest := healthlogs.LatestByType(b.health)
	for _, l := range b.health {
		if l.IsActiveTreatment {
			rec.HasActiveTreatment = true
		}
		if !l.Type.IsPreventive() {
			continue
		}
		p := rec.Preventive[l.Type]
		p.Titles = append(p.Titles, l.Title)
		rec.Preventive[l.Type] = p
	}
	for t, l := range latest {
		p := rec.Preventive[t]
		d := l.Date
		p.LastDate = &d
		if caldate.Valid(l.NextDueDate) {
			nd := *l.NextDueDate
			p.NextDue = &nd
		}
		rec.Preventive[t] = p
	}

	lw, pw := weights.LatestTwo(b.weights)
	if lw != nil {
		rec.Weight.Latest = &status.WeightPoint{Date: lw.Date, WeightKg: lw.WeightKg}
	}
	if pw != nil {
		rec.Weight.Previous = &status.WeightPoint{Date: pw.Date, WeightKg: pw.WeightKg}
	}
	return rec
}

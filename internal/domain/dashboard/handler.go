package dashboard

import (
	"errors"
	"net/http"
	"strings"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/domain/healthlogs"
	"cat-care-console/internal/domain/inventory"
	"cat-care-console/internal/domain/search"
	"cat-care-console/internal/domain/snapshot"
	"cat-care-console/internal/domain/status"
	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

const maxQueryLen = 200

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", overviewHandler(svc))
	r.Get("/dashboard/search", searchHandler(svc))
	r.Get("/cats/{catID}/status", catStatusHandler(svc))
}

type preventiveResponse struct {
	LastDate *civil.Date `json:"last_date"`
	NextDue  *civil.Date `json:"next_due"`
}

type catStatusResponse struct {
	Cat              cats.CatResponse                       `json:"cat"`
	Suggestion       status.Suggestion                      `json:"suggestion"`
	Preventive       map[healthlogs.Type]preventiveResponse `json:"preventive"`
	Weight           snapshot.WeightTrend                   `json:"weight"`
	ActiveTreatment  bool                                   `json:"active_treatment"`
	LastGroomingDate *civil.Date                            `json:"last_grooming_date"`
}

type overviewResponse struct {
	Today         civil.Date          `json:"today"`
	Counts        Counts              `json:"counts"`
	Alerts        []Alert             `json:"alerts"`
	Notifications []Notification      `json:"notifications"`
	Cats          []catStatusResponse `json:"cats"`
}

type searchResponse struct {
	Query search.Descriptor        `json:"query"`
	Cats  []catStatusResponse      `json:"cats"`
	Stock []inventory.ItemResponse `json:"stock"`
}

type suggestionResponse struct {
	CatID         string            `json:"cat_id"`
	CurrentStatus *cats.Status      `json:"current_status,omitempty"`
	Suggestion    status.Suggestion `json:"suggestion"`
}

// @Summary Tablero
// @Description Conteos por estado sugerido, alertas priorizadas (críticas primero), notificaciones recientes y la lista de gatos activos.
// @Tags dashboard
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} overviewResponse
// @Failure 401 {object} httpx.ErrorEnvelope
// @Router /dashboard [get]
func overviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		ov, err := svc.Overview(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, overviewResponse{
			Today:         ov.Today,
			Counts:        ov.Counts,
			Alerts:        ov.Alerts,
			Notifications: ov.Notifications,
			Cats:          toCatStatuses(ov.Cats),
		})
	}
}

// @Summary Búsqueda inteligente
// @Description Interpreta texto libre en indonesio: "stok habis", "klinik", "belum rabies", "grooming 2 minggu", "berat turun", "sakit". Sin coincidencias de palabras clave busca por nombre, badge o raza (términos separados por "&").
// @Tags dashboard
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param q query string false "Consulta libre"
// @Success 200 {object} searchResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Router /dashboard/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		q := r.URL.Query().Get("q")
		if len(q) > maxQueryLen {
			httpx.WriteError(w, r, apperr.New(apperr.CodeValidation, "q is too long"))
			return
		}

		res, err := svc.Search(r.Context(), q)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		stock := make([]inventory.ItemResponse, 0, len(res.Stock))
		for _, it := range res.Stock {
			stock = append(stock, inventory.ToResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, searchResponse{
			Query: res.Query,
			Cats:  toCatStatuses(res.Cats),
			Stock: stock,
		})
	}
}

// @Summary Estado sugerido de un gato
// @Description Calcula Needs Attention / Monitor / Healthy con sus razones. No cambia el estado guardado; para aplicarlo usar PATCH /cats/{catID}.
// @Tags dashboard
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Success 200 {object} suggestionResponse
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/status [get]
func catStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, sug, err := svc.CatSuggestion(r.Context(), strings.TrimSpace(chi.URLParam(r, "catID")))
		if err != nil {
			if errors.Is(err, cats.ErrNotFound) {
				httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
				return
			}
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, suggestionResponse{
			CatID:         c.ID,
			CurrentStatus: c.Status,
			Suggestion:    sug,
		})
	}
}

func toCatStatuses(in []CatStatus) []catStatusResponse {
	out := make([]catStatusResponse, 0, len(in))
	for _, c := range in {
		prev := make(map[healthlogs.Type]preventiveResponse, len(healthlogs.PreventiveTypes))
		for _, t := range healthlogs.PreventiveTypes {
			p := c.Record.Preventive[t]
			prev[t] = preventiveResponse{LastDate: p.LastDate, NextDue: c.Record.NextDue(t)}
		}
		out = append(out, catStatusResponse{
			Cat:              cats.ToResponse(c.Record.Cat),
			Suggestion:       c.Suggestion,
			Preventive:       prev,
			Weight:           c.Record.Weight,
			ActiveTreatment:  c.Record.HasActiveTreatment,
			LastGroomingDate: c.Record.LastGroomingDate,
		})
	}
	return out
}

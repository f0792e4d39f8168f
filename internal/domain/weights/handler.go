package weights

import (
	"errors"
	"net/http"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/cats/{catID}/weights", createWeightHandler(svc))
	r.Get("/cats/{catID}/weights", listWeightsHandler(svc))
	r.Delete("/weights/{logID}", deleteWeightHandler(svc))
}

type createWeightRequest struct {
	Date     civil.Date `json:"date"`
	WeightKg float64    `json:"weight_kg" validate:"gt=0,lte=30"`
	Notes    string     `json:"notes" validate:"max=1000"`
}

type weightResponse struct {
	ID        string     `json:"id"`
	CatID     string     `json:"cat_id"`
	Date      civil.Date `json:"date"`
	WeightKg  float64    `json:"weight_kg"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// @Summary Registrar peso
// @Tags weights
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param payload body createWeightRequest true "weight_kg en (0, 30]"
// @Success 201 {object} weightResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/weights [post]
func createWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createWeightRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.Create(r.Context(), chi.URLParam(r, "catID"), CreateInput{
			Date:     req.Date,
			WeightKg: req.WeightKg,
			Notes:    req.Notes,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(l))
	}
}

// @Summary Historial de peso
// @Tags weights
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Success 200 {array} weightResponse
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/weights [get]
func listWeightsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListByCat(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]weightResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(l))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Borrar registro de peso
// @Tags weights
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /weights/{logID} [delete]
func deleteWeightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "logID")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(l WeightLog) weightResponse {
	return weightResponse{
		ID:        l.ID,
		CatID:     l.CatID,
		Date:      l.Date,
		WeightKg:  l.WeightKg,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "weight log not found"))
	case errors.Is(err, cats.ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
	default:
		httpx.WriteError(w, r, err)
	}
}

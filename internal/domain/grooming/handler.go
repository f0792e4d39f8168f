package grooming

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
	r.Post("/cats/{catID}/grooming", createGroomingHandler(svc))
	r.Get("/cats/{catID}/grooming", listGroomingHandler(svc))
	r.Delete("/grooming/{logID}", deleteGroomingHandler(svc))
}

type createGroomingRequest struct {
	Date  civil.Date `json:"date"`
	Notes string     `json:"notes" validate:"max=1000"`
}

type groomingResponse struct {
	ID        string     `json:"id"`
	CatID     string     `json:"cat_id"`
	Date      civil.Date `json:"date"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// @Summary Registrar grooming
// @Tags grooming
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param payload body createGroomingRequest true "date en formato YYYY-MM-DD"
// @Success 201 {object} groomingResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/grooming [post]
func createGroomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createGroomingRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.Create(r.Context(), chi.URLParam(r, "catID"), CreateInput{Date: req.Date, Notes: req.Notes})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(l))
	}
}

// @Summary Historial de grooming
// @Tags grooming
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Success 200 {array} groomingResponse
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/grooming [get]
func listGroomingHandler(svc *Service) http.HandlerFunc {
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

		out := make([]groomingResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(l))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Borrar grooming
// @Tags grooming
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /grooming/{logID} [delete]
func deleteGroomingHandler(svc *Service) http.HandlerFunc {
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

func toResponse(l GroomingLog) groomingResponse {
	return groomingResponse{
		ID:        l.ID,
		CatID:     l.CatID,
		Date:      l.Date,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "grooming log not found"))
	case errors.Is(err, cats.ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
	default:
		httpx.WriteError(w, r, err)
	}
}

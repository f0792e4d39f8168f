package activity

import (
	"errors"
	"net/http"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/caldate"
	"cat-care-console/internal/platform/httpx"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/activity", createEntryHandler(svc))
	r.Get("/activity", listEntriesHandler(svc))
	r.Delete("/activity/{entryID}", deleteEntryHandler(svc))
}

type createEntryRequest struct {
	CatID    *string     `json:"cat_id"`
	Date     *civil.Date `json:"date"`
	Category string      `json:"category" validate:"required,oneof=makan minum obat pasir grooming bermain lainnya"`
	Note     string      `json:"note" validate:"required,max=2000"`
}

type entryResponse struct {
	ID         string     `json:"id"`
	CatID      *string    `json:"cat_id,omitempty"`
	Date       civil.Date `json:"date"`
	Category   Category   `json:"category"`
	Note       string     `json:"note"`
	Source     Source     `json:"source"`
	ExternalID string     `json:"external_id,omitempty"`
	Sender     string     `json:"sender,omitempty"`
	ActorID    string     `json:"actor_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// @Summary Registrar actividad diaria
// @Tags activity
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createEntryRequest true "date opcional (default hoy, zona local)"
// @Success 201 {object} entryResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /activity [post]
func createEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.Writer(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createEntryRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		e, err := svc.Create(r.Context(), CreateInput{
			CatID:    req.CatID,
			Date:     req.Date,
			Category: req.Category,
			Note:     req.Note,
			ActorID:  claims.UserID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(e))
	}
}

// @Summary Actividad de un día
// @Tags activity
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param date query string false "YYYY-MM-DD (default hoy)"
// @Success 200 {array} entryResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Router /activity [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		date, err := caldate.ParseOptional(r.URL.Query().Get("date"))
		if err != nil {
			httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, "date must be YYYY-MM-DD"))
			return
		}

		items, err := svc.ListByDate(r.Context(), date)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toResponse(e))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Borrar actividad
// @Tags activity
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param entryID path string true "ID del registro"
// @Success 204
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /activity/{entryID} [delete]
func deleteEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "entryID")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(e Entry) entryResponse {
	return entryResponse{
		ID:         e.ID,
		CatID:      e.CatID,
		Date:       e.Date,
		Category:   e.Category,
		Note:       e.Note,
		Source:     e.Source,
		ExternalID: e.ExternalID,
		Sender:     e.Sender,
		ActorID:    e.ActorID,
		CreatedAt:  e.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "activity entry not found"))
	case errors.Is(err, cats.ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
	default:
		httpx.WriteError(w, r, err)
	}
}

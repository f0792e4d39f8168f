package healthlogs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cat-care-console/internal/domain/cats"
	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/optional"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/cats/{catID}/health-logs", createHealthLogHandler(svc))
	r.Get("/cats/{catID}/health-logs", listHealthLogsHandler(svc))
	r.Patch("/health-logs/{logID}", updateHealthLogHandler(svc))
	r.Delete("/health-logs/{logID}", deleteHealthLogHandler(svc))
}

type createHealthLogRequest struct {
	Type              string      `json:"type" validate:"required,oneof=VACCINE FLEA DEWORM ILLNESS MEDICATION CLINIC NOTE"`
	Date              civil.Date  `json:"date"`
	Title             string      `json:"title" validate:"required,max=200"`
	Details           string      `json:"details" validate:"max=4000"`
	NextDueDate       *civil.Date `json:"next_due_date"`
	IsActiveTreatment bool        `json:"is_active_treatment"`
}

type updateHealthLogRequest struct {
	Date              *civil.Date                `json:"date"`
	Title             *string                    `json:"title" validate:"omitempty,max=200"`
	Details           *string                    `json:"details" validate:"omitempty,max=4000"`
	NextDueDate       optional.Field[civil.Date] `json:"next_due_date"`
	IsActiveTreatment *bool                      `json:"is_active_treatment"`
}

type healthLogResponse struct {
	ID                string      `json:"id"`
	CatID             string      `json:"cat_id"`
	Type              Type        `json:"type"`
	Date              civil.Date  `json:"date"`
	Title             string      `json:"title"`
	Details           string      `json:"details,omitempty"`
	NextDueDate       *civil.Date `json:"next_due_date,omitempty"`
	IsActiveTreatment bool        `json:"is_active_treatment"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// @Summary Registrar log de salud
// @Description Crea un log de salud. Solo VACCINE, FLEA y DEWORM aceptan next_due_date; solo ILLNESS, MEDICATION y CLINIC aceptan is_active_treatment.
// @Tags health-logs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param payload body createHealthLogRequest true "Fechas en formato YYYY-MM-DD"
// @Success 201 {object} healthLogResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 403 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/health-logs [post]
func createHealthLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createHealthLogRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.Create(r.Context(), chi.URLParam(r, "catID"), CreateInput{
			Type:              Type(req.Type),
			Date:              req.Date,
			Title:             req.Title,
			Details:           req.Details,
			NextDueDate:       req.NextDueDate,
			IsActiveTreatment: req.IsActiveTreatment,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(l))
	}
}

// @Summary Listar logs de salud de un gato
// @Tags health-logs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param type query string false "Lista CSV de tipos (ej: VACCINE,FLEA)"
// @Success 200 {array} healthLogResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/health-logs [get]
func listHealthLogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var types []Type
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
					types = append(types, Type(p))
				}
			}
		}

		items, err := svc.ListByCat(r.Context(), chi.URLParam(r, "catID"), types)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]healthLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toResponse(l))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Editar log de salud
// @Description next_due_date acepta null para quitar la próxima fecha. El tipo no se puede cambiar.
// @Tags health-logs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del log"
// @Param payload body updateHealthLogRequest true "Campos a modificar"
// @Success 200 {object} healthLogResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /health-logs/{logID} [patch]
func updateHealthLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updateHealthLogRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.Update(r.Context(), chi.URLParam(r, "logID"), UpdateInput{
			Date:              req.Date,
			Title:             req.Title,
			Details:           req.Details,
			NextDueDate:       req.NextDueDate,
			IsActiveTreatment: req.IsActiveTreatment,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(l))
	}
}

// @Summary Borrar log de salud
// @Tags health-logs
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param logID path string true "ID del log"
// @Success 204
// @Failure 403 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /health-logs/{logID} [delete]
func deleteHealthLogHandler(svc *Service) http.HandlerFunc {
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

func toResponse(l HealthLog) healthLogResponse {
	return healthLogResponse{
		ID:                l.ID,
		CatID:             l.CatID,
		Type:              l.Type,
		Date:              l.Date,
		Title:             l.Title,
		Details:           l.Details,
		NextDueDate:       l.NextDueDate,
		IsActiveTreatment: l.IsActiveTreatment,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "health log not found"))
	case errors.Is(err, cats.ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
	default:
		httpx.WriteError(w, r, err)
	}
}

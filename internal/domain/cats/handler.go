package cats

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/optional"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registra rutas planas; otros módulos cuelgan sub-recursos de /cats/{catID}.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/cats", createCatHandler(svc))
	r.Get("/cats", listCatsHandler(svc))
	r.Get("/cats/{catID}", getCatHandler(svc))
	r.Patch("/cats/{catID}", updateCatHandler(svc))
	r.Delete("/cats/{catID}", deactivateCatHandler(svc))
	r.Post("/cats/{catID}/photo-upload", photoUploadHandler(svc))
}

type createCatRequest struct {
	Name           string      `json:"name" validate:"required,max=80"`
	Badge          string      `json:"badge" validate:"max=40"`
	Breed          string      `json:"breed" validate:"max=80"`
	DateOfBirth    *civil.Date `json:"date_of_birth"` // YYYY-MM-DD opcional
	Status         string      `json:"status" validate:"omitempty,oneof=sehat membaik memburuk hampir_sembuh observasi sakit"`
	Location       string      `json:"location" validate:"omitempty,oneof=rumah toko klinik"`
	TreatmentNotes string      `json:"treatment_notes" validate:"max=2000"`
	Contagious     *bool       `json:"contagious"`
}

// optional.Field para permitir null = limpiar el campo.
type updateCatRequest struct {
	Name           *string                    `json:"name"`
	Badge          *string                    `json:"badge"`
	Breed          optional.Field[string]     `json:"breed"`
	DateOfBirth    optional.Field[civil.Date] `json:"date_of_birth"`
	Status         optional.Field[string]     `json:"status"`
	Location       optional.Field[string]     `json:"location"`
	TreatmentNotes optional.Field[string]     `json:"treatment_notes"`
	Contagious     optional.Field[bool]       `json:"contagious"`
	IsActive       *bool                      `json:"is_active"`
}

type photoUploadRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

type photoUploadResponse struct {
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type CatResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Badge          string      `json:"badge"`
	Breed          *string     `json:"breed,omitempty"`
	DateOfBirth    *civil.Date `json:"date_of_birth,omitempty"`
	Status         *Status     `json:"status,omitempty"`
	Location       *Location   `json:"location,omitempty"`
	PhotoKey       *string     `json:"photo_key,omitempty"`
	TreatmentNotes *string     `json:"treatment_notes,omitempty"`
	Contagious     *bool       `json:"contagious"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// @Summary Crear gato
// @Description Registra un gato nuevo. Requiere rol con escritura (owner, admin, caretaker). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags cats
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createCatRequest true "Perfil del gato; date_of_birth en formato YYYY-MM-DD"
// @Success 201 {object} CatResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 401 {object} httpx.ErrorEnvelope
// @Failure 403 {object} httpx.ErrorEnvelope
// @Router /cats [post]
func createCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createCatRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:           req.Name,
			Badge:          req.Badge,
			Breed:          req.Breed,
			DateOfBirth:    req.DateOfBirth,
			Status:         req.Status,
			Location:       req.Location,
			TreatmentNotes: req.TreatmentNotes,
			Contagious:     req.Contagious,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToResponse(c))
	}
}

// @Summary Listar gatos
// @Description Lista los gatos activos ordenados por nombre. Con include_inactive=true incluye los dados de baja.
// @Tags cats
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param include_inactive query bool false "Incluir gatos inactivos"
// @Success 200 {array} CatResponse
// @Failure 401 {object} httpx.ErrorEnvelope
// @Router /cats [get]
func listCatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		includeInactive := strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("include_inactive")), "true")
		items, err := svc.List(r.Context(), ListFilter{IncludeInactive: includeInactive})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]CatResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToResponse(c))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Perfil de gato
// @Tags cats
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Success 200 {object} CatResponse
// @Failure 401 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID} [get]
func getCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(c))
	}
}

// @Summary Actualizar gato
// @Description PATCH real: campos ausentes no se tocan; breed, date_of_birth, status, location, treatment_notes y contagious aceptan null para limpiar.
// @Tags cats
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param payload body updateCatRequest true "Campos a modificar"
// @Success 200 {object} CatResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 403 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID} [patch]
func updateCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updateCatRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "catID"), UpdateInput{
			Name:           req.Name,
			Badge:          req.Badge,
			Breed:          req.Breed,
			DateOfBirth:    req.DateOfBirth,
			Status:         req.Status,
			Location:       req.Location,
			TreatmentNotes: req.TreatmentNotes,
			Contagious:     req.Contagious,
			IsActive:       req.IsActive,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(c))
	}
}

// @Summary Dar de baja un gato
// @Description Borrado lógico (is_active=false). El historial se conserva.
// @Tags cats
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Success 200 {object} CatResponse
// @Failure 403 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /cats/{catID} [delete]
func deactivateCatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		c, err := svc.Deactivate(r.Context(), chi.URLParam(r, "catID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(c))
	}
}

// @Summary URL de subida de foto
// @Description Devuelve una URL prefirmada (PUT) para subir la foto directo al bucket y guarda la key en el perfil.
// @Tags cats
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param catID path string true "ID del gato"
// @Param payload body photoUploadRequest true "content_type: image/jpeg, image/png o image/webp"
// @Success 201 {object} photoUploadResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Failure 503 {object} httpx.ErrorEnvelope
// @Router /cats/{catID}/photo-upload [post]
func photoUploadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req photoUploadRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		up, err := svc.RequestPhotoUpload(r.Context(), chi.URLParam(r, "catID"), req.ContentType)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, photoUploadResponse{
			Key:       up.Key,
			URL:       up.URL,
			Method:    up.Method,
			Headers:   up.Headers,
			ExpiresAt: up.ExpiresAt,
		})
	}
}

func ToResponse(c Cat) CatResponse {
	return CatResponse{
		ID:             c.ID,
		Name:           c.Name,
		Badge:          c.Badge,
		Breed:          c.Breed,
		DateOfBirth:    c.DateOfBirth,
		Status:         c.Status,
		Location:       c.Location,
		PhotoKey:       c.PhotoKey,
		TreatmentNotes: c.TreatmentNotes,
		Contagious:     c.Contagious,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "cat not found"))
	case errors.Is(err, ErrPhotosOff):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeUnavailable, err, err.Error()))
	default:
		httpx.WriteError(w, r, err)
	}
}

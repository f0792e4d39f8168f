package inventory

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cat-care-console/internal/middleware"
	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/optional"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Post("/", createItemHandler(svc))
		ir.Get("/", listItemsHandler(svc))
		ir.Get("/{itemID}", getItemHandler(svc))
		ir.Patch("/{itemID}", updateItemHandler(svc))
		ir.Delete("/{itemID}", deleteItemHandler(svc))
		ir.Post("/{itemID}/adjust", adjustItemHandler(svc))
		ir.Get("/{itemID}/movements", listMovementsHandler(svc))
	})
}

type createItemRequest struct {
	Name     string           `json:"name" validate:"required,max=120"`
	Category string           `json:"category" validate:"max=60"`
	Unit     string           `json:"unit" validate:"max=20"`
	Stock    decimal.Decimal  `json:"stock"`
	MinStock *decimal.Decimal `json:"min_stock"`
}

type updateItemRequest struct {
	Name     *string                         `json:"name" validate:"omitempty,max=120"`
	Category *string                         `json:"category" validate:"omitempty,max=60"`
	Unit     *string                         `json:"unit" validate:"omitempty,max=20"`
	MinStock optional.Field[decimal.Decimal] `json:"min_stock"`
}

type adjustRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" validate:"required,max=200"`
}

type ItemResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category,omitempty"`
	Unit      string           `json:"unit"`
	Stock     decimal.Decimal  `json:"stock"`
	MinStock  *decimal.Decimal `json:"min_stock,omitempty"`
	Status    StockStatus      `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type movementResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	ActorID   string          `json:"actor_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// @Summary Crear item de inventario
// @Description stock y min_stock aceptan número o string decimal ("2.5").
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createItemRequest true "Item"
// @Success 201 {object} ItemResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 403 {object} httpx.ErrorEnvelope
// @Router /inventory [post]
func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createItemRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		it, err := svc.Create(r.Context(), CreateInput{
			Name:     req.Name,
			Category: req.Category,
			Unit:     req.Unit,
			Stock:    req.Stock,
			MinStock: req.MinStock,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToResponse(it))
	}
}

// @Summary Listar inventario
// @Tags inventory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param status query string false "out | low | ok"
// @Success 200 {array} ItemResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Router /inventory [get]
func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		status := StockStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
		items, err := svc.List(r.Context(), status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, ToResponse(it))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de item
// @Tags inventory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param itemID path string true "ID del item"
// @Success 200 {object} ItemResponse
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /inventory/{itemID} [get]
func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(it))
	}
}

// @Summary Editar item
// @Description El stock solo cambia con /adjust. min_stock acepta null para quitar el umbral.
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param itemID path string true "ID del item"
// @Param payload body updateItemRequest true "Campos a modificar"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /inventory/{itemID} [patch]
func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updateItemRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		it, err := svc.Update(r.Context(), chi.URLParam(r, "itemID"), UpdateInput{
			Name:     req.Name,
			Category: req.Category,
			Unit:     req.Unit,
			MinStock: req.MinStock,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(it))
	}
}

// @Summary Ajustar stock
// @Description Suma delta (negativo = consumo) y registra el movimiento. El stock resultante no puede ser negativo (409).
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param itemID path string true "ID del item"
// @Param payload body adjustRequest true "delta + reason"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} httpx.ErrorEnvelope
// @Failure 404 {object} httpx.ErrorEnvelope
// @Failure 409 {object} httpx.ErrorEnvelope
// @Router /inventory/{itemID}/adjust [post]
func adjustItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.Writer(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req adjustRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		it, err := svc.Adjust(r.Context(), chi.URLParam(r, "itemID"), AdjustInput{
			Delta:   req.Delta,
			Reason:  req.Reason,
			ActorID: claims.UserID,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(it))
	}
}

// @Summary Movimientos de stock
// @Tags inventory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param itemID path string true "ID del item"
// @Param limit query int false "1-200, default 50"
// @Success 200 {array} movementResponse
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /inventory/{itemID}/movements [get]
func listMovementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Actor(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		limit, err := httpx.QueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListMovements(r.Context(), chi.URLParam(r, "itemID"), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]movementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, movementResponse{
				ID:        m.ID,
				ItemID:    m.ItemID,
				Delta:     m.Delta,
				Reason:    m.Reason,
				ActorID:   m.ActorID,
				CreatedAt: m.CreatedAt,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Borrar item
// @Tags inventory
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param itemID path string true "ID del item"
// @Success 204
// @Failure 404 {object} httpx.ErrorEnvelope
// @Router /inventory/{itemID} [delete]
func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.Writer(r); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ToResponse(it Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Category:  it.Category,
		Unit:      it.Unit,
		Stock:     it.Stock,
		MinStock:  it.MinStock,
		Status:    StatusOf(it),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeNotFound, err, "inventory item not found"))
	case errors.Is(err, ErrInsufficientStock):
		httpx.WriteError(w, r, apperr.Wrap(apperr.CodeConflict, err, err.Error()))
	default:
		httpx.WriteError(w, r, err)
	}
}

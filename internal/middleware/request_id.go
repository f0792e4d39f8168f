package middleware

import (
	"net/http"

	"cat-care-console/internal/platform/logger"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID propaga X-Request-Id (o genera uno) y deja en el contexto
// un logger con request_id para el resto de la cadena.
func RequestID(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := logger.IntoContext(r.Context(), log.With(map[string]any{"request_id": reqID}))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

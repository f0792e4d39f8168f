package middleware

import (
	"fmt"
	"net/http"

	"cat-care-console/internal/platform/apperr"
	"cat-care-console/internal/platform/httpx"
	"cat-care-console/internal/platform/logger"
)

// Recoverer convierte un panic en INTERNAL_ERROR con el envelope estándar.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v", rec)
				logger.FromContext(r.Context()).Error("panic.recovered", map[string]any{
					"panic": fmt.Sprint(rec),
					"path":  r.URL.Path,
				})
				httpx.WriteError(w, r, apperr.Wrap(apperr.CodeInternal, err, "panic"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

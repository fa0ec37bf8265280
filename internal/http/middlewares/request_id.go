package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Jawadabbaskhan/socialauth/internal/observability/logger"
)

// WithRequestID asegura que cada request tenga un ID único.
// Respeta el header X-Request-ID entrante (proxies, tests); si falta genera uno.
// Además engancha un logger con el request_id al contexto para las capas de abajo.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}

			ctx := setRequestID(r.Context(), rid)
			ctx = logger.ToContext(ctx, logger.L().With(logger.RequestID(rid)))

			w.Header().Set("X-Request-ID", rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

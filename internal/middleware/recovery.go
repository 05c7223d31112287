package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/MarcelloBorromeo/yellowbird-query-grove/internal/models"
	"github.com/rs/zerolog/log"
)

// Recovery converts a handler panic into a 500 response instead of tearing
// down the connection. The stack goes to the log, never to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", RequestIDFromContext(r.Context())).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			models.WriteError(w, http.StatusInternalServerError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

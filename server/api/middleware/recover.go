package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recover guards the server from panics, logs the stack trace and answers
// with an internal_error envelope.
func Recover(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("error", rec).
						Str("request_id", RequestIDFrom(r.Context())).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("http_panic")
					WriteError(w, r, http.StatusInternalServerError, "internal_error", "internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// responseWriter wraps http.ResponseWriter to capture status and bytes.
type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Logger provides structured access logging for HTTP requests. Server errors
// log at error, client errors at warn. Successful requests to quietPaths
// (probes, scrapes) log at debug.
func Logger(log zerolog.Logger, quietPaths ...string) func(next http.Handler) http.Handler {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			var evt *zerolog.Event
			switch {
			case rw.status >= 500:
				evt = log.Error()
			case rw.status >= 400:
				evt = log.Warn()
			default:
				if _, ok := quiet[r.URL.Path]; ok {
					evt = log.Debug()
				} else {
					evt = log.Info()
				}
			}

			evt.
				Str("request_id", RequestIDFrom(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Int("status", rw.status).
				Int64("bytes", rw.bytes).
				Dur("latency", time.Since(start)).
				Msg("http_request")
		})
	}
}

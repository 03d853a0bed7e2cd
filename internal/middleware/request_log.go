package middleware

import (
	"net/http"
	"time"

	"moltmon/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog loguea cada request. Los GET exitosos van en debug: el
// navegador consulta /api/state varias veces por segundo.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
				"bytes":       ww.BytesWritten(),
			}

			switch {
			case status >= 500:
				log.Error("request failed", fields)
			case status >= 400 || r.Method != http.MethodGet:
				log.Info("request", fields)
			default:
				log.Debug("request", fields)
			}
		})
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cr8s/cr8sapi/internal/telemetry"
)

// Metrics records request count, latency, and 5xx count per chi route
// pattern. A nil metrics value disables recording.
func Metrics(metrics *telemetry.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			durationMs := float64(time.Since(start).Microseconds()) / 1000
			metrics.RecordRequest(r.Context(), r.Method, route, strconv.Itoa(status), durationMs)
		})
	}
}

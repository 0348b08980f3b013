package middleware

import (
	"net/http"
	"time"

	"github.com/NiranjanKJ304/Exxpense-Tracker/internal/metrics"
	"github.com/go-chi/chi"
)

// Metrics records request counts and latency labelled by the matched chi
// route pattern, keeping ids out of the label set.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			m.ObserveRequest(r.Method, route, rw.Status(), time.Since(start).Seconds())
		})
	}
}

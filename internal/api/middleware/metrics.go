package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/middleware"
)

// Metrics records request counts and latency per route template, so
// /admin/players/{id} is one series rather than one per player.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			m.ObserveHTTPRequest(routeTemplate(r), r.Method, wrapped.Status(), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

package middleware

import (
	"net/http"
	"regexp"
	"time"

	"bookcom/pkg/metrics"
)

var objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)

// HTTPMetrics records request counts and latencies. Document ids in the path
// are collapsed to :id so the route label stays bounded.
func HTTPMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			metrics.ObserveHTTPRequest(r.Method, routeLabel(r.URL.Path), wrapped.statusCode, time.Since(start))
		})
	}
}

func routeLabel(path string) string {
	return objectIDSegment.ReplaceAllString(path, "/:id$1")
}

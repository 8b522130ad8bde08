// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Health endpoints are polled constantly and would dominate the series.
var unmeteredPaths = map[string]bool{
	"/health": true,
	"/livez":  true,
	"/ready":  true,
}

// Static routes whose paths are safe as label values.
var staticRoutes = map[string]bool{
	"/":                           true,
	"/api/health":                 true,
	"/api/places/recommendations": true,
	"/health":                     true,
	"/livez":                      true,
	"/ready":                      true,
	"/metrics":                    true,
}

// normalizePath maps a request path to a bounded route label. Dynamic
// segments collapse to a pattern, e.g. /api/places/abc123 becomes
// /api/places/{id}, so per-entity IDs never explode the label space.
func normalizePath(path string) string {
	if staticRoutes[path] {
		return path
	}

	if rest, ok := strings.CutPrefix(path, "/api/places/"); ok {
		if rest != "" && !strings.Contains(rest, "/") {
			return "/api/places/{id}"
		}
	}

	// Unknown routes pass through unchanged; the 404 handler keeps them
	// from being attacker-controlled in practice.
	return path
}

// metricsResponseWriter captures the status code and bytes written. The
// first WriteHeader wins, matching net/http semantics.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

// HTTPMetrics records duration, count, and request/response sizes for every
// request except the health endpoints.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if unmeteredPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			mrw := newMetricsResponseWriter(w)

			var requestSize int64
			if cl := r.Header.Get("Content-Length"); cl != "" {
				if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
					requestSize = n
				}
			}

			next.ServeHTTP(mrw, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizePath(r.URL.Path),
				strconv.Itoa(mrw.statusCode),
				time.Since(start).Seconds(),
				requestSize,
				mrw.size,
			)
		})
	}
}

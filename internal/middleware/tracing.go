// Package middleware provides HTTP middleware components for the API server.
package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps handlers in otelhttp instrumentation. Each request gets a
// server span named "<method> <path>", and incoming W3C trace context
// (traceparent/tracestate) is continued. Place it after RequestID in the
// chain so the correlation ID is already in scope.
func Tracing(serviceName string) func(http.Handler) http.Handler {
	nameSpan := func(_ string, r *http.Request) string {
		return r.Method + " " + r.URL.Path
	}
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName, otelhttp.WithSpanNameFormatter(nameSpan))
	}
}

// GetTraceID returns the active trace ID for the request, or "" when the
// request is not being traced.
func GetTraceID(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the active span ID for the request, or "" when the
// request is not being traced.
func GetSpanID(r *http.Request) string {
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}

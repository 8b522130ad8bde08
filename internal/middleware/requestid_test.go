package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func serveWithRequestID(t *testing.T, incoming string) (seen string, rr *httptest.ResponseRecorder) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/places/recommendations", nil)
	if incoming != "" {
		req.Header.Set(RequestIDHeader, incoming)
	}
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return seen, rr
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	seen, rr := serveWithRequestID(t, "")

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("context request ID %q is not a UUID: %v", seen, err)
	}
	if got := rr.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header %q does not match context ID %q", got, seen)
	}
}

func TestRequestID_PreservesClientID(t *testing.T) {
	const clientID = "client-supplied-7f3a"

	seen, rr := serveWithRequestID(t, clientID)

	if seen != clientID {
		t.Errorf("context ID = %q, want %q", seen, clientID)
	}
	if got := rr.Header().Get(RequestIDHeader); got != clientID {
		t.Errorf("response header = %q, want %q", got, clientID)
	}
}

func TestGetRequestID_MissingReturnsEmpty(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID on bare context = %q, want empty", got)
	}
}

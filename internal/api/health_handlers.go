package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"moodplaces/internal/middleware"
)

const readinessTimeout = 5 * time.Second

// HealthChecker is implemented by dependencies that can report liveness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandlers serves the health and readiness endpoints. Both checkers
// are optional: nil means the corresponding in-memory fallback is in use
// and there is nothing external to check.
type HealthHandlers struct {
	dbChecker    HealthChecker
	redisChecker HealthChecker
}

// HealthHandlersConfig configures the health check handlers.
type HealthHandlersConfig struct {
	DBChecker    HealthChecker
	RedisChecker HealthChecker
}

func NewHealthHandlers(config HealthHandlersConfig) *HealthHandlers {
	return &HealthHandlers{
		dbChecker:    config.DBChecker,
		redisChecker: config.RedisChecker,
	}
}

// HealthResponse is the structured body for /livez and /ready.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
	WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	return false
}

func writeHealthResponse(w http.ResponseWriter, status int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}

// LegacyHealth handles GET /api/health and GET /health, the endpoint the
// web client polls. Always 200 with a fixed body.
func (h *HealthHandlers) LegacyHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"message":"Server is running"}`)); err != nil {
		slog.Error("failed to write health response", "error", err)
	}
}

// Health handles GET /livez. It reports only that the process is up and
// serving; dependencies are the readiness endpoint's concern.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeHealthResponse(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Checks:    map[string]string{"runtime": "ok"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// checkDependency runs one optional checker. A nil checker passes, since
// the in-memory fallback has nothing external to fail.
func checkDependency(ctx context.Context, name string, checker HealthChecker, checks map[string]string) bool {
	if checker == nil {
		checks[name] = "ok"
		return true
	}
	if err := checker.HealthCheck(ctx); err != nil {
		slog.WarnContext(ctx, name+" health check failed", "error", err)
		checks[name] = "error"
		return false
	}
	checks[name] = "ok"
	return true
}

// Ready handles GET /ready. Any failing dependency turns the response into
// a 503 so the load balancer stops routing here.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := checkDependency(ctx, "database", h.dbChecker, checks)
	healthy = checkDependency(ctx, "redis", h.redisChecker, checks) && healthy

	status, statusCode := "healthy", http.StatusOK
	if !healthy {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	writeHealthResponse(w, statusCode, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

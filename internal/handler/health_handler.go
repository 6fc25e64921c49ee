package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the health of a dependency
type HealthChecker func(ctx context.Context) error

// HealthHandler handles liveness and readiness endpoints
type HealthHandler struct {
	serviceName string
	checks      map[string]HealthChecker
}

// NewHealthHandler creates a new HealthHandler. Dependency checks are
// optional; a nil checker is skipped.
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		checks:      make(map[string]HealthChecker),
	}
}

// AddCheck registers a named dependency check
func (h *HealthHandler) AddCheck(name string, check HealthChecker) {
	if check != nil {
		h.checks[name] = check
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
		"time":    time.Now().UTC(),
	})
}

// Ready handles GET /ready. It fails if any dependency check fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
		} else {
			results[name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}

	c.JSON(status, gin.H{
		"status":  state,
		"service": h.serviceName,
		"checks":  results,
	})
}

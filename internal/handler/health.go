package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bankdemo/frontend/internal/backend"
)

// readyTimeout bounds a whole readiness check.
const readyTimeout = 5 * time.Second

// ReadyChecker probes the readiness of a backend service.
type ReadyChecker interface {
	Ready(ctx context.Context, service backend.Service) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	backends  ReadyChecker
	services  []backend.Service
	keyLoaded bool
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for backends to skip the backend probes.
func NewHealthHandler(backends ReadyChecker, services []backend.Service, keyLoaded bool) *HealthHandler {
	return &HealthHandler{
		backends:  backends,
		services:  services,
		keyLoaded: keyLoaded,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running.
// No dependency checks - this is for Kubernetes liveness probes.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only when the token verification key is loaded and every
// backend answers its /ready probe. Probes run concurrently.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.keyLoaded {
		checks["public_key"] = "ok"
	} else {
		checks["public_key"] = "not loaded"
		healthy = false
	}

	if h.backends != nil {
		var mu sync.Mutex
		var g errgroup.Group
		for _, svc := range h.services {
			g.Go(func() error {
				err := h.backends.Ready(ctx, svc)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					checks[string(svc)] = "error: " + err.Error()
					healthy = false
				} else {
					checks[string(svc)] = "ok"
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}

// Package health provides liveness and readiness endpoints backed by the
// record store.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/store"
)

// HealthCheck manages health check functionality.
type HealthCheck struct {
	store         store.RecordStore
	logger        *zap.Logger
	mu            sync.RWMutex
	ready         bool
	lastCheck     time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// NewHealthCheck creates a new HealthCheck and starts its background probe.
func NewHealthCheck(st store.RecordStore, logger *zap.Logger) *HealthCheck {
	hc := &HealthCheck{
		store:         st,
		logger:        logger,
		checkInterval: 5 * time.Second,
		stopCh:        make(chan struct{}),
	}

	go hc.backgroundCheck()

	return hc
}

// Stop terminates the background probe. Safe to call more than once.
func (hc *HealthCheck) Stop() {
	hc.stopOnce.Do(func() {
		close(hc.stopCh)
	})
}

// LivenessResponse is the response body for the liveness check.
type LivenessResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse is the response body for the readiness check.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// LivenessHandler handles GET /health requests. Returns 200 OK if the
// process is running.
func (hc *HealthCheck) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{Status: "healthy"}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// ReadinessHandler handles GET /ready requests. Returns 200 OK if the store
// is reachable.
func (hc *HealthCheck) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hc.mu.RLock()
	isReady := hc.ready
	hc.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")

	if isReady {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ReadinessResponse{
			Status: "ready",
			Checks: map[string]string{"store": "healthy"},
		})
		return
	}

	// Perform a fresh check if the background probe has not succeeded yet.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := hc.store.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(ReadinessResponse{
			Status: "not_ready",
			Checks: map[string]string{"store": "unhealthy"},
			Error:  err.Error(),
		})
		return
	}

	hc.mu.Lock()
	hc.ready = true
	hc.lastCheck = time.Now()
	hc.mu.Unlock()

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ReadinessResponse{
		Status: "ready",
		Checks: map[string]string{"store": "healthy"},
	})
}

// backgroundCheck performs periodic store pings.
func (hc *HealthCheck) backgroundCheck() {
	ticker := time.NewTicker(hc.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-hc.stopCh:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := hc.store.Ping(ctx)
		cancel()

		hc.mu.Lock()
		if err != nil {
			hc.ready = false
			hc.logger.Warn("store health check failed", zap.Error(err))
		} else {
			hc.ready = true
		}
		hc.lastCheck = time.Now()
		hc.mu.Unlock()
	}
}

// IsReady returns the current readiness status.
func (hc *HealthCheck) IsReady() bool {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.ready
}

// SetReady sets the readiness status (for testing).
func (hc *HealthCheck) SetReady(ready bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.ready = ready
}

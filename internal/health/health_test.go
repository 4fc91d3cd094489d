package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/model"
	"github.com/lexel/strdb/internal/store"
)

// unreachableStore fails every Ping.
type unreachableStore struct{}

func (unreachableStore) Insert(context.Context, *model.StringRecord) error { return nil }
func (unreachableStore) GetByID(context.Context, string) (*model.StringRecord, error) {
	return nil, store.ErrNotFound
}
func (unreachableStore) Delete(context.Context, string) error { return nil }
func (unreachableStore) List(context.Context, func(*model.StringRecord) bool) ([]*model.StringRecord, error) {
	return nil, nil
}
func (unreachableStore) Ping(context.Context) error { return errors.New("connection refused") }
func (unreachableStore) Close()                     {}

func TestLivenessHandler(t *testing.T) {
	hc := NewHealthCheck(store.NewMemoryStore(), zap.NewNop())
	defer hc.Stop()

	w := httptest.NewRecorder()
	hc.LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadinessHandler(t *testing.T) {
	t.Run("fresh check succeeds before background probe", func(t *testing.T) {
		hc := NewHealthCheck(store.NewMemoryStore(), zap.NewNop())
		defer hc.Stop()

		w := httptest.NewRecorder()
		hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hc.IsReady())
	})

	t.Run("unreachable store reports not ready", func(t *testing.T) {
		hc := NewHealthCheck(unreachableStore{}, zap.NewNop())
		defer hc.Stop()

		w := httptest.NewRecorder()
		hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not_ready")
		assert.False(t, hc.IsReady())
	})
}

func TestStop(t *testing.T) {
	hc := NewHealthCheck(store.NewMemoryStore(), zap.NewNop())

	hc.Stop()
	// Repeated stops must not panic.
	hc.Stop()

	// Handlers remain usable after the probe is stopped.
	w := httptest.NewRecorder()
	hc.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

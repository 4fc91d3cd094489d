package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/config"
	"github.com/lexel/strdb/internal/metrics"
	"github.com/lexel/strdb/internal/model"
	"github.com/lexel/strdb/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Metrics.Enabled = false

	s := NewServer(cfg, store.NewMemoryStore(), metrics.NewMetrics(), zap.NewNop())
	s.SetupRoutes()
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func TestRoutes_CreateGetDeleteRoundTrip(t *testing.T) {
	s := newTestServer(t)

	// Create
	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/strings",
		strings.NewReader(`{"value": "racecar"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	var record model.StringRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

	// Get by reported id
	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/strings/"+record.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var fetched model.StringRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, record.Value, fetched.Value)
	assert.Equal(t, record.Properties, fetched.Properties)

	// Duplicate insert conflicts
	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/strings",
		strings.NewReader(`{"value": "racecar"}`)))
	assert.Equal(t, http.StatusConflict, w.Code)

	// Delete and verify gone
	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/strings/"+record.ID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/strings/"+record.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_DeleteByValue(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/strings",
		strings.NewReader(`{"value": "ephemeral"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/strings?value=ephemeral", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRoutes_NaturalLanguageQuery(t *testing.T) {
	s := newTestServer(t)

	for _, v := range []string{"madam", "hello world"} {
		w := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/strings",
			strings.NewReader(`{"value": "`+v+`"}`)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"query": "all palindromic strings"}`)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "madam")
	assert.NotContains(t, w.Body.String(), "hello world")
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Memory store always pings successfully, so readiness resolves on the
	// first fresh check.
	w = httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_UnknownEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	// Covers both routers: /v1/* resolves on the subrouter, /health on the
	// root router.
	for _, tt := range []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/v1/strings"},
		{http.MethodGet, "/v1/query"},
		{http.MethodPost, "/health"},
	} {
		w := httptest.NewRecorder()
		s.GetHandler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestRoutes_SecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/investor-scout/internal/config"
	"github.com/fleveque/investor-scout/internal/llm"
	"github.com/fleveque/investor-scout/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Auth.APIKeys = []string{"user-key"}
	cfg.Auth.AdminKeys = []string{"admin-key"}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.RateLimit.RequestsPerSecond = 100
	cfg.RateLimit.Burst = 100

	gateway := llm.NewGateway(nil, 10, time.Second, nil, zap.NewNop())
	deps := Deps{
		Store:   search.NewStore(),
		Gateway: gateway,
	}
	return New(cfg, deps, zap.NewNop())
}

func TestRoutes_HealthzIsPublic(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRoutes_APIRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/searches/some-id", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 outside /api/v1, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/searches/some-id", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
}

func TestRoutes_AuthedSearchNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/searches/some-id", nil)
	req.Header.Set("X-API-Key", "user-key")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown session, got %d", w.Code)
	}
}

func TestRoutes_AdminRejectsUserKey(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/admin/stats", nil)
	req.Header.Set("X-API-Key", "user-key")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin key, got %d", w.Code)
	}
}

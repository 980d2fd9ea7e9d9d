package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/hospi/config"
	"github.com/giygas/hospi/handlers"
	"github.com/giygas/hospi/health"
	"github.com/giygas/hospi/logging"
	"github.com/giygas/hospi/session"
	"github.com/giygas/hospi/validation"
)

func newTestServer(t *testing.T, env config.Environment) *Server {
	t.Helper()
	logging.InitLogger("")

	cfg := &config.Config{
		Address:        "127.0.0.1",
		Port:           "8000",
		Env:            env,
		MaxRequestBody: 1024 * 1024,
	}

	sessions := session.NewManager()
	h := handlers.NewHTTPHandler(
		sessions,
		validation.NewInputValidator(),
		health.NewHealthChecker(sessions, 10*time.Minute),
		handlers.Dashboard{AvailableBeds: 32, ActiveDoctors: 8},
	)

	return NewServer(cfg, h)
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	if s.server.Addr != "127.0.0.1:8000" {
		t.Errorf("Expected address 127.0.0.1:8000, got %s", s.server.Addr)
	}
	if s.server.ReadTimeout != 15*time.Second || s.server.WriteTimeout != 15*time.Second {
		t.Errorf("Unexpected timeouts %s/%s", s.server.ReadTimeout, s.server.WriteTimeout)
	}
	if s.rateLimiter == nil {
		t.Error("Expected a rate limiter")
	}
}

func TestServerRoutes(t *testing.T) {
	handler := newTestServer(t, config.EnvTest).Handler()

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedType string
	}{
		{"dashboard", http.MethodGet, "/", http.StatusOK, "text/html"},
		{"patient list", http.MethodGet, "/patients", http.StatusOK, "text/html"},
		{"add patient form", http.MethodGet, "/add-patient", http.StatusOK, "text/html"},
		{"api patients", http.MethodGet, "/v1/patients", http.StatusOK, "application/json"},
		{"api stats", http.MethodGet, "/v1/stats", http.StatusOK, "application/json"},
		{"api navigation", http.MethodGet, "/v1/navigation", http.StatusOK, "application/json"},
		{"health", http.MethodGet, "/health", http.StatusOK, "application/json"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "text/plain"},
		{"unknown route", http.MethodGet, "/settings", http.StatusNotFound, "application/json"},
		{"wrong method", http.MethodDelete, "/v1/stats", http.StatusMethodNotAllowed, "application/json"},
		{"trailing slash", http.MethodGet, "/patients/", http.StatusMovedPermanently, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.expectedCode {
				t.Fatalf("Expected %d for %s %s, got %d", tt.expectedCode, tt.method, tt.path, rr.Code)
			}
			if tt.expectedType != "" && !strings.HasPrefix(rr.Header().Get("Content-Type"), tt.expectedType) {
				t.Errorf("Expected Content-Type %s, got %q", tt.expectedType, rr.Header().Get("Content-Type"))
			}
			if rr.Code != http.StatusMovedPermanently && rr.Header().Get("X-RateLimit-Limit") == "" {
				t.Error("Expected rate limit headers on every route")
			}
		})
	}
}

func TestServerNotFoundEnvelope(t *testing.T) {
	handler := newTestServer(t, config.EnvTest).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["error"] != "Not Found" || body["message"] != "Route not found" || body["code"] != float64(404) {
		t.Errorf("Unexpected envelope %v", body)
	}
}

func TestServerSetsSessionCookie(t *testing.T) {
	handler := newTestServer(t, config.EnvTest).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	found := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			found = true
		}
	}
	if !found {
		t.Error("Expected a session cookie on the first visit")
	}
}

func TestServerBlocksDirectAccessInProduction(t *testing.T) {
	handler := newTestServer(t, config.EnvProduction).Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without proxy headers, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200 through the proxy, got %d", rr.Code)
	}
}

func TestServerRejectsLargeBodies(t *testing.T) {
	handler := newTestServer(t, config.EnvTest).Handler()

	body := strings.NewReader(strings.Repeat("a", 2*1024*1024))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/patients", body))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rr.Code)
	}
}

func TestServerShutdown(t *testing.T) {
	s := newTestServer(t, config.EnvTest)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}

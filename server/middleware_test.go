package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/hospi/logging"
)

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		query        string
		expectedCost int64
	}{
		// Probes
		{"Health endpoint", http.MethodGet, "/health", "", 1},
		{"Metrics endpoint", http.MethodGet, "/metrics", "", 1},

		// Screens
		{"Dashboard", http.MethodGet, "/", "", 5},
		{"Patient list", http.MethodGet, "/patients", "", 5},
		{"Patient list search", http.MethodGet, "/patients", "q=diallo", 20},
		{"Patient list empty search", http.MethodGet, "/patients", "q=", 5},
		{"Add patient form", http.MethodGet, "/add-patient", "", 5},
		{"Add patient submit", http.MethodPost, "/add-patient", "", 50},
		{"Select patient", http.MethodPost, "/patients/P001/select", "", 5},

		// V1 API
		{"V1 patients", http.MethodGet, "/v1/patients", "", 5},
		{"V1 patients search", http.MethodGet, "/v1/patients", "search=P00", 20},
		{"V1 create patient", http.MethodPost, "/v1/patients", "", 50},
		{"V1 patient by id", http.MethodGet, "/v1/patients/P001", "", 5},
		{"V1 stats", http.MethodGet, "/v1/stats", "", 5},

		// Search parameter on the wrong endpoint
		{"Search on stats", http.MethodGet, "/v1/stats", "search=x", 5},
		{"Q on api", http.MethodGet, "/v1/patients", "q=x", 5},

		{"Unknown path", http.MethodGet, "/unknown", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path+"?"+tt.query, nil)
			if cost := getTokenCost(req); cost != tt.expectedCost {
				t.Errorf("Expected cost %d for %s %s?%s, got %d",
					tt.expectedCost, tt.method, tt.path, tt.query, cost)
			}
		})
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	logging.InitLogger("")
	rl := NewRateLimiter()
	handler := rl.Middleware(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "500" {
		t.Errorf("Expected X-RateLimit-Limit 500, got %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Rate") != "10" {
		t.Errorf("Expected X-RateLimit-Rate 10, got %q", rr.Header().Get("X-RateLimit-Rate"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "495" {
		t.Errorf("Expected 495 tokens remaining, got %q", rr.Header().Get("X-RateLimit-Remaining"))
	}

	// Drain what is left for this client
	rl.getBucket(clientKey(req.RemoteAddr)).TakeAvailable(bucketCapacity)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After 60, got %q", rr.Header().Get("Retry-After"))
	}
	if !strings.Contains(rr.Body.String(), "Rate limit exceeded") {
		t.Errorf("Unexpected body %s", rr.Body.String())
	}

	// Other clients keep their own bucket
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.7:4242"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected another client to pass, got %d", rr.Code)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.getBucket("192.0.2.1")
	busy := rl.getBucket("192.0.2.2")
	busy.TakeAvailable(100)

	if removed := rl.Cleanup(); removed != 1 {
		t.Errorf("Expected 1 idle bucket removed, got %d", removed)
	}

	rl.mu.RLock()
	_, idleKept := rl.clients["192.0.2.1"]
	_, busyKept := rl.clients["192.0.2.2"]
	rl.mu.RUnlock()

	if idleKept {
		t.Error("Expected the full bucket to be dropped")
	}
	if !busyKept {
		t.Error("Expected the drained bucket to be kept")
	}

	// Stop is safe to call more than once
	rl.Stop()
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		remoteAddr string
		expected   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[::1]:8080", "::1"},
		{"203.0.113.5", "203.0.113.5"},
	}

	for _, tt := range tests {
		if got := clientKey(tt.remoteAddr); got != tt.expected {
			t.Errorf("clientKey(%q) = %q, want %q", tt.remoteAddr, got, tt.expected)
		}
	}
}

func TestRealIPMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{"no proxy headers", nil, "192.0.2.1:1234"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 203.0.113.10 "}, "203.0.113.10"},
		{"forwarded wins", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "203.0.113.10"}, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if seen != tt.expected {
				t.Errorf("Expected RemoteAddr %q, got %q", tt.expected, seen)
			}
		})
	}
}

func TestBlockDirectAccessMiddleware(t *testing.T) {
	logging.InitLogger("")

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   int
	}{
		{"direct from outside", "192.0.2.1:1234", nil, http.StatusForbidden},
		{"direct from ipv4 loopback", "127.0.0.1:1234", nil, http.StatusOK},
		{"direct from ipv6 loopback", "[::1]:1234", nil, http.StatusOK},
		{"through proxy", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, http.StatusOK},
		{"through proxy real ip", "192.0.2.1:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BlockDirectAccessMiddleware(http.HandlerFunc(okHandler))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	logging.InitLogger("")
	const maxBody = 1024

	var readErr error
	handler := RequestSizeMiddleware(maxBody)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("within limit", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/add-patient", strings.NewReader("fullName=x")))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rr.Code)
		}
	})

	t.Run("announced too large", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/add-patient", strings.NewReader(strings.Repeat("a", 2048)))
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("Expected 413, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Maximum allowed size is 1024 bytes") {
			t.Errorf("Unexpected body %s", rr.Body.String())
		}
	})

	t.Run("unannounced too large", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/add-patient", strings.NewReader(strings.Repeat("a", 2048)))
		req.ContentLength = -1
		handler.ServeHTTP(rr, req)

		if readErr == nil {
			t.Error("Expected the body read to fail past the limit")
		}
		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected 413, got %d", rr.Code)
		}
	})
}

/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(RequestIDFromContext(r.Context())))
}

func newTestServer(t *testing.T, cfg *Config, handlers map[string]http.HandlerFunc) *Server {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Port = 0
	return New(WithName("playfitd-test"), WithVersion("v0.0.1"), WithConfig(cfg), WithHandler(handlers))
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/health status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("/ready before start status = %d, want 503", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "not_ready" {
		t.Errorf("status = %q, want not_ready", resp.Status)
	}

	s.setReady(true)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/ready after start status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health status = %d, want 405", w.Code)
	}
	if got := w.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("Allow = %q, want GET", got)
	}
}

func TestDefaultRouteListsHandlers(t *testing.T) {
	s := newTestServer(t, nil, map[string]http.HandlerFunc{"/v1/things": okHandler})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"playfitd-test", "v0.0.1", "/v1/things", "GET /health"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d, want 404", w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t, nil, map[string]http.HandlerFunc{"/v1/things": okHandler})

	t.Run("mints id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/things", nil))
		id := w.Header().Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("response id %q is not a uuid: %v", id, err)
		}
		if w.Body.String() != id {
			t.Errorf("handler saw id %q, header has %q", w.Body.String(), id)
		}
	})

	t.Run("reuses valid inbound id", func(t *testing.T) {
		want := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
		req.Header.Set(HeaderRequestID, want)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if got := w.Header().Get(HeaderRequestID); got != want {
			t.Errorf("request id = %q, want %q", got, want)
		}
	})

	t.Run("replaces garbage id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
		req.Header.Set(HeaderRequestID, "not a uuid")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if got := w.Header().Get(HeaderRequestID); got == "not a uuid" {
			t.Error("expected garbage request id to be replaced")
		}
	})
}

func TestVersionHeader(t *testing.T) {
	s := newTestServer(t, nil, map[string]http.HandlerFunc{"/v1/things": okHandler})

	req := httptest.NewRequest(http.MethodGet, "/v1/things", nil)
	req.Header.Set("Accept", "application/vnd.nvidia.playfit.v1+json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(HeaderAPIVersion); got != "v1" {
		t.Errorf("%s = %q, want v1", HeaderAPIVersion, got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.5
	cfg.RateLimitBurst = 1
	s := newTestServer(t, cfg, map[string]http.HandlerFunc{"/v1/things": okHandler})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/things", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/things", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != string(pferrors.ErrCodeRateLimitExceeded) || !resp.Retryable {
		t.Errorf("unexpected error response: %+v", resp)
	}

	// System endpoints are not rate limited.
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", w.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, nil, map[string]http.HandlerFunc{
		"/v1/boom": func(http.ResponseWriter, *http.Request) { panic("boom") },
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != string(pferrors.ErrCodeInternal) {
		t.Errorf("code = %q, want INTERNAL", resp.Code)
	}
	if resp.RequestID == "" {
		t.Error("expected request id on recovered error")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1"
	cfg.ShutdownTimeout = 2 * time.Second
	s := newTestServer(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.Ready() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !s.Ready() {
		t.Fatal("server never became ready")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if s.Ready() {
		t.Error("server still ready after shutdown")
	}
}

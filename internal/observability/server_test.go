// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func startServer(t *testing.T, ready ReadinessChecker) *Server {
	t.Helper()
	server := NewServer("127.0.0.1:0", ready)
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	})
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("failed to GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_Metrics(t *testing.T) {
	server := startServer(t, func() bool { return true })

	server.Metrics().LoginsTotal.WithLabelValues("success").Inc()
	server.Metrics().SessionValidations.WithLabelValues("expired").Inc()

	status, body := get(t, "http://"+server.Addr()+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}

	for _, want := range []string{
		"# HELP",
		"go_",
		"process_",
		`squadup_logins_total{outcome="success"} 1`,
		`squadup_session_validations_total{outcome="expired"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_HealthProbes(t *testing.T) {
	var ready atomic.Bool
	server := startServer(t, ready.Load)

	if status, _ := get(t, "http://"+server.Addr()+"/healthz/liveness"); status != http.StatusOK {
		t.Errorf("liveness: expected 200, got %d", status)
	}
	if status, _ := get(t, "http://"+server.Addr()+"/healthz/readiness"); status != http.StatusServiceUnavailable {
		t.Errorf("readiness before ready: expected 503, got %d", status)
	}

	ready.Store(true)
	if status, _ := get(t, "http://"+server.Addr()+"/healthz/readiness"); status != http.StatusOK {
		t.Errorf("readiness after ready: expected 200, got %d", status)
	}
}

func TestServer_DoubleStart(t *testing.T) {
	server := startServer(t, nil)
	if _, err := server.Start(); err == nil {
		t.Fatal("expected error starting an already-running server")
	}
}

func TestServer_StopIdempotent(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil)
	if _, err := server.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		t.Fatalf("first stop failed: %v", err)
	}
	if err := server.Stop(ctx); err != nil {
		t.Fatalf("second stop should be a no-op, got %v", err)
	}
}

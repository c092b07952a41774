package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

type probeFunc func() bool

func (f probeFunc) Available() bool { return f() }

func TestHealth(t *testing.T) {
	available := false
	h := NewHealth("gemini-cli", 4001, probeFunc(func() bool { return available }))

	if r := h.Health(); r.ToolAvailable || r.Bridge != "gemini-cli" || r.Port != 4001 {
		t.Errorf("report = %+v", r)
	}
	available = true
	if r := h.Health(); !r.ToolAvailable {
		t.Error("expected probe to be re-evaluated on each call")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestAppStartAndShutdown(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	cfg := DefaultConfig()
	cfg.Server.Port = freePort(t)
	cfg.Tool.Command = "definitely-not-a-real-cli-binary"

	application, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Start(ctx) }()

	url := "http://" + cfg.Server.Addr() + "/health"
	var resp *http.Response
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if body["status"] != "degraded" || body["gemini_cli"] != "not found" {
		t.Errorf("health = %v", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("app did not shut down")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = -1
	if _, err := New(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

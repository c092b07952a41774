package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/florianilch/clibridge/internal/cliadapter/geminicli"
	"github.com/florianilch/clibridge/internal/invoker"
	"github.com/florianilch/clibridge/internal/proxy"
)

// writeTimeoutMargin leaves room to write a timeout diagnostic after the tool deadline.
const writeTimeoutMargin = 30 * time.Second

// App orchestrates the lifecycle of the proxy server and related services.
type App struct {
	cfg   Config
	proxy *proxy.Proxy
}

// New creates a new App instance.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner, err := invoker.New(cfg.Tool.InvokerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create invoker: %w", err)
	}

	bridge := &geminicli.Bridge{
		Models:  cfg.Models.ModelTable(),
		Invoker: runner,
	}
	health := NewHealth(cfg.Tool.Name, cfg.Server.Port, runner)

	proxyServer, err := proxy.New(bridge, health,
		proxy.WithMaxRequestBytes(cfg.Server.MaxRequestBytes),
		proxy.WithWriteTimeout(runner.Timeout()+writeTimeoutMargin),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}

	if !runner.Available() {
		slog.Warn("tool not found on PATH, requests will return diagnostics", "command", cfg.Tool.Command)
	}

	return &App{
		cfg:   cfg,
		proxy: proxyServer,
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting proxy server",
		"bridge", a.cfg.Tool.Name,
		"command", a.cfg.Tool.Command,
		"timeout", a.cfg.Tool.Timeout,
	)
	proxyErrCh, err := a.proxy.Start(gCtx, a.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("proxy startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.proxy.Shutdown)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-proxyErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "proxy runtime error", "error", err)
				return fmt.Errorf("proxy: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}

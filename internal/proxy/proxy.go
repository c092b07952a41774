package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/florianilch/clibridge/internal/cliadapter/geminicli"
	"github.com/florianilch/clibridge/internal/observability/middleware"
)

const (
	defaultMaxRequestBytes = 10 << 20 // 10 MiB
	defaultWriteTimeout    = 150 * time.Second
	readHeaderTimeout      = 10 * time.Second
	readTimeout            = 30 * time.Second
	idleTimeout            = 120 * time.Second
)

// Proxy serves both wire formats on top of a single Bridge.
type Proxy struct {
	handler http.Handler
	server  *http.Server
}

type options struct {
	maxRequestBytes int64
	writeTimeout    time.Duration
}

// Option configures a Proxy.
type Option func(*options)

// WithMaxRequestBytes limits the accepted request body size.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRequestBytes = n
		}
	}
}

// WithWriteTimeout bounds how long a response may take, including the tool run.
// It must exceed the tool deadline or timeout diagnostics cannot be delivered.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// New creates a Proxy. The bridge is shared by both format handlers; it holds no
// per-request state.
func New(bridge *geminicli.Bridge, health HealthReporter, opts ...Option) (*Proxy, error) {
	if bridge == nil {
		return nil, errors.New("bridge cannot be nil")
	}
	if health == nil {
		return nil, errors.New("health reporter cannot be nil")
	}

	o := options{
		maxRequestBytes: defaultMaxRequestBytes,
		writeTimeout:    defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	messages := &CreateMessageHandler{
		Adapter: &geminicli.CreateMessageAdapter{Bridge: bridge},
	}
	chatCompletions := &CreateChatCompletionsHandler{
		Adapter: &geminicli.CreateChatCompletionAdapter{Bridge: bridge},
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestIDGeneration,
		middleware.TraceContextExtraction,
		middleware.Logging(slog.Default()),
		middleware.RequestIDPropagation,
		Recovery,
		RequestSizeLimit(o.maxRequestBytes),
	)

	// Paths are accepted with and without the /v1 prefix
	for _, prefix := range []string{"", "/v1"} {
		r.Get(prefix+"/health", healthHandler(health))
		r.Method(http.MethodPost, prefix+"/messages", messages)
		r.Method(http.MethodPost, prefix+"/chat/completions", chatCompletions)
	}

	r.NotFound(notFoundHandler())
	r.MethodNotAllowed(notFoundHandler())

	return &Proxy{
		handler: r,
		server: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      o.writeTimeout,
			IdleTimeout:       idleTimeout,
		},
	}, nil
}

// ServeHTTP implements http.Handler, allowing the proxy to be mounted or tested directly.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start binds addr and serves in the background. Bind errors are returned directly;
// runtime errors are delivered on the returned channel, which is closed when serving stops.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	p.server.BaseContext = func(net.Listener) context.Context {
		// Keep values (trace context, loggers) but not the cancellation; shutdown is explicit.
		return context.WithoutCancel(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		slog.InfoContext(ctx, "proxy listening", "addr", listener.Addr().String())
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return errCh, nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests until ctx expires.
func (p *Proxy) Shutdown(ctx context.Context) error {
	if err := p.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("proxy shutdown: %w", err)
	}
	return nil
}

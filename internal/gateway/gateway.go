// Package gateway hosts the distribution gateway: a gRPC listener
// carrying health checks and an HTTP listener carrying the REST/JSON
// Format, Manifest, and Publish endpoints consumed by client runtimes
// and publishing tools.
//
// Built around a dual grpc.Server/http.Server lifecycle. A fully
// protobuf-based service normally pairs protoc-generated service
// descriptors with grpc-gateway codegen, but no .proto files or
// generated stubs exist in this project, so this gateway instead hosts
// google.golang.org/grpc/health (shipped pre-generated inside the grpc
// module) on the gRPC listener, and registers the Format/Manifest/
// Publish business endpoints directly as REST/JSON routes on a
// grpc-gateway/v2 runtime.ServeMux via its public HandlePath API, which
// requires no generated client/server stubs.
package gateway

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/triesap/mf2-i18n/internal/core"
	"github.com/triesap/mf2-i18n/internal/publishauth"
	i18nruntime "github.com/triesap/mf2-i18n/internal/runtime"
)

// PublishHandler performs the actual work of a publish request (e.g.
// persisting a manifest to a store and object storage) once the
// gateway has authenticated and rate-limited the caller. Left
// injectable since the gateway itself has no fixed notion of where a
// published manifest ends up.
type PublishHandler func(ctx context.Context, claims *publishauth.Claims, body []byte) error

// Gateway owns the gRPC and HTTP listeners and their graceful
// shutdown.
type Gateway struct {
	cfg    *Config
	logger core.Logger

	grpcServer   *grpc.Server
	httpServer   *http.Server
	healthServer *health.Server
}

// NewGateway wires a Gateway serving rt over Format/Manifest, gated
// Publish via tokens and limiter, and dispatching successful publishes
// to publish.
func NewGateway(cfg *Config, rt *i18nruntime.Runtime, tokens *publishauth.TokenManager, limiter *publishauth.PublishLimiter, publish PublishHandler, logger core.Logger) (*Gateway, error) {
	if logger == nil {
		logger = core.NoopLogger{}
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			requestIDInterceptor(),
			loggingInterceptor(logger),
			recoveryInterceptor(logger),
		),
	)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	mux := gwruntime.NewServeMux()
	h := &handlers{runtime: rt, tokens: tokens, limiter: limiter, publish: publish, logger: logger}
	if err := h.register(mux); err != nil {
		return nil, fmt.Errorf("gateway: registering routes: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
	if cfg.TLSEnabled {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("gateway: loading TLS certificate: %w", err)
		}
		httpServer.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	return &Gateway{
		cfg:          cfg,
		logger:       logger,
		grpcServer:   grpcServer,
		httpServer:   httpServer,
		healthServer: healthServer,
	}, nil
}

// Start begins serving both listeners. It blocks until one of them
// exits with an error, ctx is cancelled, or Shutdown is called from
// another goroutine.
func (g *Gateway) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", g.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("gateway: listening on %s: %w", g.cfg.GRPCAddr, err)
	}
	g.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		g.logger.Info("gateway grpc listening", "addr", g.cfg.GRPCAddr)
		if err := g.grpcServer.Serve(listener); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		} else {
			errCh <- nil
		}
	}()
	go func() {
		g.logger.Info("gateway http listening", "addr", g.cfg.HTTPAddr)
		var err error
		if g.cfg.TLSEnabled {
			err = g.httpServer.ListenAndServeTLS("", "")
		} else {
			err = g.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		return g.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Shutdown drains both listeners, force-stopping whichever has not
// finished within the configured shutdown timeout.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(ctx, g.cfg.ShutdownTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		g.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		g.grpcServer.Stop()
	}

	if err := g.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway: shutting down http server: %w", err)
	}
	return nil
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	shutdownTimeout = 5 * time.Second
	probeInterval   = 10 * time.Second
	probeTimeout    = 2 * time.Second
)

// Pinger is a backing dependency whose reachability decides the health status.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
	deps       map[string]Pinger
	log        *zap.Logger
}

func NewServers(cfg *config.Config, handler http.Handler, deps map[string]Pinger, log *zap.Logger) *Servers {
	if log == nil {
		log = zap.NewNop()
	}
	grpcSrv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, hs)

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: hs,
		deps:   deps,
		log:    log,
	}
}

// Run starts the HTTP API and the gRPC health service and blocks until ctx is
// cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, deps map[string]Pinger, log *zap.Logger) error {
	s := NewServers(cfg, handler, deps, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("grpc health listening", zap.String("addr", cfg.GRPC.Address))
		return s.grpcServer.Serve(lis)
	})
	g.Go(func() error {
		s.log.Info("http listening", zap.String("addr", cfg.HTTP.Address))
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.probe(gctx, probeInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Servers) shutdown() error {
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.log.Info("servers stopped")
	return nil
}

// probe refreshes the health status until ctx ends.
func (s *Servers) probe(ctx context.Context, every time.Duration) {
	s.Check(ctx)

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check pings every dependency once. Each dependency is reported as its own
// service name; the empty name covers the process as a whole.
func (s *Servers) Check(ctx context.Context) bool {
	healthy := true
	for name, dep := range s.deps {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := dep.Ping(pctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			status = healthpb.HealthCheckResponse_NOT_SERVING
			s.log.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return healthy
}

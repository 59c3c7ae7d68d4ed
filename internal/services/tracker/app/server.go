// Package app wires tracker services into a runnable runtime.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/focusbuddy/internal/platform/errors"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/service"
	trackersqlite "github.com/louisbranch/focusbuddy/internal/services/tracker/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// RuntimeConfig controls tracker startup and dependencies.
type RuntimeConfig struct {
	Port   int
	DBPath string

	// OnReady receives the wired service layer once the store is open and
	// the health server is serving. Transports and embedders hook in here.
	OnReady func(Services)
}

const (
	defaultTrackerPort = 8090
	defaultTrackerDB   = "data/tracker.db"
)

// Services bundles the tracker service layer over one store.
type Services struct {
	Sessions     *service.SessionService
	Streaks      *service.StreakService
	Productivity *service.ProductivityService
}

// NewServices builds the tracker service layer over an open store. A nil
// clock defaults to time.Now and a nil idGenerator to the platform ID
// generator.
func NewServices(store *trackersqlite.Store, clock func() time.Time, idGenerator func() (string, error)) Services {
	streaks := service.NewStreakService(store)
	return Services{
		Sessions:     service.NewSessionService(store, store, store, streaks, clock, idGenerator),
		Streaks:      streaks,
		Productivity: service.NewProductivityService(store, store, streaks, clock),
	}
}

// errorInterceptor maps domain errors returned by handlers to gRPC statuses
// with structured ErrorInfo details.
func errorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		// Handlers that already speak gRPC status (health checks) pass
		// through untouched.
		if _, ok := status.FromError(err); ok {
			return resp, err
		}
		return resp, apperrors.HandleError(err)
	}
}

// Run starts tracker runtime dependencies and blocks until the context is
// canceled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultTrackerPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultTrackerDB
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracker storage dir: %w", err)
		}
	}

	trackerStore, err := trackersqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open tracker sqlite store: %w", err)
	}
	defer func() {
		if closeErr := trackerStore.Close(); closeErr != nil {
			log.Printf("close tracker sqlite store: %v", closeErr)
		}
	}()

	services := NewServices(trackerStore, nil, nil)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on tracker port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(errorInterceptor()),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("tracker.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("tracker server listening at %v", listener.Addr())
	if cfg.OnReady != nil {
		cfg.OnReady(services)
	}
	<-ctx.Done()
	return ctx.Err()
}

package server

import (
	"context"
	"net"
	"time"

	"golang.org/x/exp/slog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RunGRPCServer serves grpc.health.v1.Health on addr until ctx is done.
func RunGRPCServer(ctx context.Context, addr string, hs *health.Server, log *slog.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	log.Info("starting gRPC health server", slog.String("addr", addr))
	return s.Serve(lis)
}

// WatchStore flips the overall health status with the result of each ping.
func WatchStore(ctx context.Context, hs *health.Server, store Pinger, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkStore(ctx, hs, store, log)
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func checkStore(ctx context.Context, hs *health.Server, store Pinger, log *slog.Logger) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		log.Warn("store ping failed", slog.Any("error", err))
		hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

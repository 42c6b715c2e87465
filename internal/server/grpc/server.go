// Package grpc runs the Venus gRPC listener. It serves only the standard
// health service and server reflection; projects and images are HTTP-only.
// Health is public. The auth interceptor resolves the caller through the same
// auth.Resolver as the HTTP API, so in practice it guards reflection alone.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type GRPCServer struct {
	address  string
	logger   logging.Logger
	resolver *auth.Resolver
	health   *health.Server
}

func NewGRPCServer(address string, logger logging.Logger, resolver *auth.Resolver) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   logger.With("module", "grpc_server"),
		resolver: resolver,
		health:   health.NewServer(),
	}
}

// Run listens on the configured address until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authUnaryInterceptor),
		grpc.ChainStreamInterceptor(s.authStreamInterceptor),
	)

	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

// SetServing flips the overall health status.
func (s *GRPCServer) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_SERVING
	if !ok {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
}

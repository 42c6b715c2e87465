package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/venus/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicPrefix lists the only methods callable without an identity.
const publicPrefix = "/grpc.health.v1.Health/"

// authenticate resolves the caller from incoming metadata and returns ctx
// carrying the user id. The reason for a failure is never sent back.
func (s *GRPCServer) authenticate(ctx context.Context, fullMethod string) (context.Context, error) {
	if strings.HasPrefix(fullMethod, publicPrefix) {
		return ctx, nil
	}

	md, _ := metadata.FromIncomingContext(ctx)
	userID, err := s.resolver.Resolve(ctx, auth.MetadataFromGRPC(md))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	return auth.ContextWithUserID(ctx, userID), nil
}

func (s *GRPCServer) authUnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (a *authedStream) Context() context.Context { return a.ctx }

func (s *GRPCServer) authStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
	if code == codes.OK || code == codes.Unauthenticated || code == codes.NotFound {
		s.logger.Debug(ctx, "grpc_request", args...)
	} else {
		s.logger.Warn(ctx, "grpc_request", args...)
	}
	return resp, err
}

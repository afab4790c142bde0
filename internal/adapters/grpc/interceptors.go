package grpcadapter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/samirrijal/routeguide/internal/pkg/metrics"
)

// LoggingUnaryInterceptor logs unary calls with structured slog output and
// records call metrics.
func LoggingUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		observe(ctx, info.FullMethod, start, err)
		return resp, err
	}
}

// LoggingStreamInterceptor logs streaming calls once they finish.
func LoggingStreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		observe(ss.Context(), info.FullMethod, start, err)
		return err
	}
}

func observe(ctx context.Context, method string, start time.Time, err error) {
	code := status.Code(err)
	latency := time.Since(start)

	metrics.RPCsTotal.WithLabelValues(method, code.String()).Inc()
	metrics.RPCDuration.WithLabelValues(method).Observe(latency.Seconds())

	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("code", code.String()),
		slog.String("latency", latency.String()),
	}
	if p, ok := peer.FromContext(ctx); ok {
		attrs = append(attrs, slog.String("peer", p.Addr.String()))
	}

	// Client cancellation is a normal end of a session.
	level := slog.LevelInfo
	switch code {
	case codes.OK, codes.Canceled:
	case codes.InvalidArgument, codes.NotFound, codes.DeadlineExceeded:
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}
	if err != nil && code != codes.Canceled {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	slog.LogAttrs(ctx, level, "rpc "+method, attrs...)
}

// RecoveryUnaryInterceptor turns a panicking handler into an Internal error.
func RecoveryUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, info.FullMethod, r)
			}
		}()
		return handler(ctx, req)
	}
}

// RecoveryStreamInterceptor turns a panicking stream handler into an
// Internal error.
func RecoveryStreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ss.Context(), info.FullMethod, r)
			}
		}()
		return handler(srv, ss)
	}
}

func recovered(ctx context.Context, method string, r any) error {
	slog.ErrorContext(ctx, "panic in rpc handler",
		"method", method,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
	return status.Error(codes.Internal, "internal error")
}

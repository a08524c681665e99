package http

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	"github.com/rustperms/rustperms/pkg/mcontext"
	"github.com/rustperms/rustperms/pkg/mtelemetry"
)

// TelemetryMiddleware wraps a mtelemetry.Telemetry instance to produce gRPC interceptors.
type TelemetryMiddleware struct {
	*mtelemetry.Telemetry
}

// NewTelemetryMiddleware creates a new instance of TelemetryMiddleware.
func NewTelemetryMiddleware(tl *mtelemetry.Telemetry) *TelemetryMiddleware {
	return &TelemetryMiddleware{tl}
}

// WithTelemetryInterceptor is a gRPC interceptor that starts a span for each RPC.
func (tm *TelemetryMiddleware) WithTelemetryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		tracer := otel.Tracer(tm.LibraryName)
		ctx, span := tracer.Start(ctx, info.FullMethod)

		ctx = mcontext.ContextWithTracer(ctx, tracer)

		resp, err := handler(ctx, req)
		if err != nil {
			mtelemetry.HandleSpanError(&span, "gRPC request failed", err)
		}

		return resp, err
	}
}

// EndTracingSpansInterceptor is a gRPC interceptor that ends the tracing span after the handler chain completes.
func (tm *TelemetryMiddleware) EndTracingSpansInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		resp, err := handler(ctx, req)

		go func() {
			trace.SpanFromContext(ctx).End()
		}()

		return resp, err
	}
}

package gateway

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/triesap/mf2-i18n/internal/core"
)

// requestIDKey is the metadata/context key carrying a per-call request
// id, grounded on pkg/server/grpc/requestid.go.
const requestIDKey = "x-request-id"

type requestIDCtxKey struct{}

// requestIDInterceptor assigns every call a request id (from incoming
// metadata if present, otherwise freshly generated) and echoes it back
// as a response header.
func requestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id := extractOrGenerateRequestID(ctx)
		ctx = context.WithValue(ctx, requestIDCtxKey{}, id)
		grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, id))
		return handler(ctx, req)
	}
}

func extractOrGenerateRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.New().String()
}

// requestIDFromContext reads the id requestIDInterceptor stashed.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// loggingInterceptor logs method, status code, duration, and request id
// for every unary call, grounded on pkg/server/grpc/logging.go.
func loggingInterceptor(logger core.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		code := codes.OK
		if err != nil {
			code = status.Code(err)
		}
		fields := []interface{}{
			"method", info.FullMethod,
			"code", code.String(),
			"duration", duration.String(),
			"request_id", requestIDFromContext(ctx),
		}
		if err != nil {
			logger.Error("gateway rpc failed", append(fields, "error", err.Error())...)
		} else {
			logger.Info("gateway rpc completed", fields...)
		}
		return resp, err
	}
}

// recoveryInterceptor converts a panicking handler into an Internal
// status instead of crashing the process, grounded on
// pkg/server/grpc/recovery.go.
func recoveryInterceptor(logger core.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("panic recovered", "panic", p, "method", info.FullMethod, "stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

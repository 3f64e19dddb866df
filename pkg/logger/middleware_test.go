package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestRequestIDInterceptor(t *testing.T) {
	interceptor := RequestIDInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/commerce.v1.InventoryService/GetStock"}

	var seen string
	handler := func(ctx context.Context, _ any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}

	t.Run("Generated", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		require.NoError(t, err)
		assert.Len(t, seen, 36)
	})

	t.Run("Propagated", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDMetadataKey, "req-42"))
		_, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "req-42", seen)
	})
}

func TestAccessLogInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/commerce.v1.InventoryService/ReserveStock"}

	tests := []struct {
		name  string
		err   error
		level zapcore.Level
	}{
		{"OK", nil, zapcore.InfoLevel},
		{"Client Error", status.Error(codes.FailedPrecondition, "insufficient stock"), zapcore.WarnLevel},
		{"Internal", status.Error(codes.Internal, "boom"), zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			interceptor := AccessLogInterceptor(zap.New(core))
			ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")

			_, err := interceptor(ctx, nil, info, func(context.Context, any) (any, error) {
				return nil, tt.err
			})

			assert.Equal(t, tt.err, err)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, info.FullMethod, entry.ContextMap()["method"])
			assert.Equal(t, "req-7", entry.ContextMap()["request_id"])
		})
	}
}

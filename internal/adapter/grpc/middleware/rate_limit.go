package middleware

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"commerce-service/internal/config"
)

// fixedWindow counts calls in a window that starts with the first call.
var fixedWindow = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
end
return count
`)

// RateLimiter limits gRPC calls per method and client using Redis.
type RateLimiter struct {
	client redis.Scripter
	config config.RateLimitConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter interceptor.
func NewRateLimiter(client redis.Scripter, cfg config.RateLimitConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: cfg,
		log:    log,
	}
}

func (rl *RateLimiter) window() int {
	if rl.config.WindowSeconds <= 0 {
		return 1
	}
	return rl.config.WindowSeconds
}

// limit is the number of calls allowed per window, never below the burst.
func (rl *RateLimiter) limit() int64 {
	n := int64(rl.config.RequestsPerSecond * float64(rl.window()))
	if b := int64(rl.config.BurstCapacity); b > n {
		n = b
	}
	if n < 1 {
		n = 1
	}
	return n
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !rl.config.Enabled {
			return handler(ctx, req)
		}

		clientIP := clientIP(ctx)
		key := fmt.Sprintf("ratelimit:%s:%s", info.FullMethod, clientIP)

		count, err := fixedWindow.Run(ctx, rl.client, []string{key}, rl.window()).Int64()
		if err != nil {
			// fail open
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return handler(ctx, req)
		}

		if limit := rl.limit(); count > limit {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Int64("count", count),
				zap.Int64("limit", limit),
			)
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %d requests in %d seconds (limit: %d)",
				count, rl.window(), limit)
		}

		return handler(ctx, req)
	}
}

// clientIP prefers forwarding metadata, then the peer address.
func clientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}

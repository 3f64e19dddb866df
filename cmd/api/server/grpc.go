package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "commerce-service/api/gen/go/inventory"
	grpcadapter "commerce-service/internal/adapter/grpc"
	"commerce-service/internal/adapter/grpc/middleware"
	"commerce-service/internal/usecase/inventory"
	"commerce-service/pkg/logger"
)

// SetupGRPC creates the internal inventory RPC server. Interceptors run in
// order: request id, access log, rate limit.
func SetupGRPC(inventoryUC inventory.Usecase, l *zap.Logger, rateLimiter *middleware.RateLimiter) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			logger.AccessLogInterceptor(l.Named("grpc")),
			rateLimiter.UnaryInterceptor(),
		),
	)
	pb.RegisterInventoryServiceServer(s, grpcadapter.NewInventoryServer(inventoryUC, l))

	l.Info("gRPC service registered", zap.String("service", pb.InventoryService_ServiceDesc.ServiceName))
	return s
}
